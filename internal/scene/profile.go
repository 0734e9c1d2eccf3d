package scene

// DeviceClass distinguishes narrow from wide viewports.
type DeviceClass string

const (
	Desktop DeviceClass = "desktop"
	Mobile  DeviceClass = "mobile"
)

// ProfileConfig holds the per-class scale factors and the breakpoint that
// separates them.
type ProfileConfig struct {
	MobileBreakpoint   int
	DesktopScaleFactor float64
	MobileScaleFactor  float64
}

// Profile is the resolved per-session rendering configuration. It is computed
// once from the viewport when a session starts.
type Profile struct {
	Class       DeviceClass
	ScaleFactor float64
}

// ResolveProfile picks the device class for a viewport width. Widths below the
// breakpoint are mobile.
func ResolveProfile(viewportWidth int, cfg ProfileConfig) Profile {
	if viewportWidth < cfg.MobileBreakpoint {
		return Profile{Class: Mobile, ScaleFactor: cfg.MobileScaleFactor}
	}
	return Profile{Class: Desktop, ScaleFactor: cfg.DesktopScaleFactor}
}
