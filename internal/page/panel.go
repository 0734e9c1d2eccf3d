package page

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
)

// Panel is the textual summary of one record.
type Panel struct {
	NeoID    string
	Name     string
	Markdown string
	HTML     template.HTML
}

// NewPanel builds the summary for rec.
func NewPanel(rec domain.NeoRecord) Panel {
	md := panelMarkdown(rec)
	return Panel{
		NeoID:    rec.ID,
		Name:     rec.Name,
		Markdown: md,
		HTML:     template.HTML(renderMarkdown(md)), //nolint:gosec // raw HTML in input is skipped by the renderer
	}
}

func renderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML | mdhtml.Safelink,
	})
	return markdown.ToHTML([]byte(md), p, r)
}

func panelMarkdown(rec domain.NeoRecord) string {
	var b strings.Builder
	d := rec.EstimatedDiameter

	fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(rec.Name))
	fmt.Fprintf(&b, "**NEO ID:** %s\n\n", escapeMarkdown(rec.ID))
	if u, ok := webURL(rec.NASAJPLURL); ok {
		fmt.Fprintf(&b, "[NASA JPL URL](%s)\n\n", u)
	} else {
		b.WriteString("NASA JPL URL: unavailable\n\n")
	}
	fmt.Fprintf(&b, "**Is Potentially Hazardous:** %t\n\n", rec.IsPotentiallyHazardous)
	fmt.Fprintf(&b, "**Absolute Magnitude H:** %s\n\n", rec.AbsoluteMagnitudeH)
	b.WriteString("**Estimated Diameter:**\n\n")
	fmt.Fprintf(&b, "- Kilometers: %s - %s\n", d.Kilometers.Min, d.Kilometers.Max)
	fmt.Fprintf(&b, "- Meters: %s - %s\n", d.Meters.Min, d.Meters.Max)
	fmt.Fprintf(&b, "- Miles: %s - %s\n", d.Miles.Min, d.Miles.Max)
	fmt.Fprintf(&b, "- Feet: %s - %s\n\n", d.Feet.Min, d.Feet.Max)
	b.WriteString("### Close Approach Data\n\n")

	for _, ca := range rec.CloseApproachData {
		v, m := ca.RelativeVelocity, ca.MissDistance
		fmt.Fprintf(&b, "- **Date:** %s\n", escapeMarkdown(ca.Date))
		b.WriteString("- **Relative Velocity:**\n")
		fmt.Fprintf(&b, "    - Kilometers per second: %s\n", v.KilometersPerSecond)
		fmt.Fprintf(&b, "    - Kilometers per hour: %s\n", v.KilometersPerHour)
		fmt.Fprintf(&b, "    - Miles per hour: %s\n", v.MilesPerHour)
		b.WriteString("- **Miss Distance:**\n")
		fmt.Fprintf(&b, "    - Astronomical: %s\n", m.Astronomical)
		fmt.Fprintf(&b, "    - Lunar: %s\n", m.Lunar)
		fmt.Fprintf(&b, "    - Kilometers: %s\n", m.Kilometers)
		fmt.Fprintf(&b, "    - Miles: %s\n", m.Miles)
		fmt.Fprintf(&b, "- **Orbiting Body:** %s\n\n", escapeMarkdown(ca.OrbitingBody))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

// webURL accepts absolute http and https links only.
func webURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
