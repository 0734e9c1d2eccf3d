package page

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
)

// WriteTerminal prints a compact, colored summary of rec. Color output follows
// the capabilities detected for w.
func WriteTerminal(w io.Writer, rec domain.NeoRecord, opts ...termenv.OutputOption) error {
	out := termenv.NewOutput(w, opts...)

	title := out.String(rec.Name).Bold().Foreground(out.Color("#cc00ff"))
	hazard := out.String("no").Foreground(out.Color("#2e7d32"))
	if rec.IsPotentiallyHazardous {
		hazard = out.String("YES").Bold().Foreground(out.Color("#c62828"))
	}
	km := rec.EstimatedDiameter.Kilometers

	if _, err := fmt.Fprintf(out, "%s (%s)\n", title, rec.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "  hazardous: %s  H: %s  diameter: %s - %s km\n",
		hazard, rec.AbsoluteMagnitudeH, km.Min, km.Max); err != nil {
		return err
	}
	for _, ca := range rec.CloseApproachData {
		if _, err := fmt.Fprintf(out, "  %s  %s km/s  miss %s au  (%s)\n",
			out.String(ca.Date).Faint(), ca.RelativeVelocity.KilometersPerSecond,
			ca.MissDistance.Astronomical, ca.OrbitingBody); err != nil {
			return err
		}
	}
	return nil
}
