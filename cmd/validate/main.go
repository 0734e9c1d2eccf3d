// Command validate checks a feed fixture end to end: it decodes the records,
// builds a scene for each under both device profiles, verifies the placement
// arithmetic, and prints a terminal summary of every record.
//
// Usage:
//
//	go run ./cmd/validate -feed data/mock/neo_feed_240301.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/render"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
)

const tolerance = 1e-9

var profiles = []scene.Profile{
	{Class: scene.Desktop, ScaleFactor: 700},
	{Class: scene.Mobile, ScaleFactor: 350},
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to a converted feed fixture")
	seed := flag.Uint64("seed", 1, "seed for the comparison shapes")
	quiet := flag.Bool("quiet", false, "skip the per-record summary")
	flag.Parse()

	if *feedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *seed, *quiet); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath string, seed uint64, quiet bool) int {
	fmt.Println("=== NEO Feed Validation ===")
	fmt.Println()

	feed, err := loadFeed(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	phases := []*phase{validateRecords(feed)}
	for _, prof := range profiles {
		b := scene.NewBuilder(prof, rand.New(rand.NewPCG(seed, seed)), logger)
		phases = append(phases, validateScenes(prof, b, feed))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}
	fmt.Printf("\nFetch date: %s  Records: %d\n", feed.FetchDate, len(feed.Neos))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if !quiet {
		fmt.Println()
		for _, rec := range feed.Neos {
			if err := page.WriteTerminal(os.Stdout, rec); err != nil {
				fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
				return 1
			}
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFeed(path string) (domain.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Feed{}, err
	}
	var feed domain.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return domain.Feed{}, err
	}
	return feed, nil
}

// validateRecords checks the fields the panel and scene depend on.
func validateRecords(feed domain.Feed) *phase {
	p := &phase{name: "Record fields"}
	if feed.FetchDate == "" {
		p.errorf("fetch_date is empty")
	}
	seen := make(map[string]bool, len(feed.Neos))
	for i, rec := range feed.Neos {
		if rec.ID == "" {
			p.errorf("record %d: neo_id is empty", i)
		}
		if seen[rec.ID] {
			p.errorf("record %d: duplicate neo_id %s", i, rec.ID)
		}
		seen[rec.ID] = true
		if rec.Name == "" {
			p.errorf("%s: name is empty", rec.ID)
		}
		km := rec.EstimatedDiameter.Kilometers
		if !km.Min.Valid() || !km.Max.Valid() {
			p.errorf("%s: kilometer diameter is not numeric (%s, %s)", rec.ID, km.Min, km.Max)
		} else if km.Min.Value > km.Max.Value {
			p.errorf("%s: min diameter %s exceeds max %s", rec.ID, km.Min, km.Max)
		}
	}
	return p
}

// validateScenes builds every record's scene and checks the layout rules.
func validateScenes(prof scene.Profile, b *scene.Builder, feed domain.Feed) *phase {
	p := &phase{name: fmt.Sprintf("Scene layout (%s, S=%g)", prof.Class, prof.ScaleFactor)}
	wantH := scene.ReferenceHeight(prof.ScaleFactor)

	for _, rec := range feed.Neos {
		s, cam, err := b.Build(rec, 2)
		if err != nil {
			p.errorf("%s: build: %v", rec.ID, err)
			continue
		}
		l := s.Layout
		d := scene.Describe(s, cam)

		if !floatEq(l.ReferenceHeight, wantH) || !floatEq(d.Reference.Size[1], wantH) {
			p.errorf("%s: reference height %g, want %g", rec.ID, d.Reference.Size[1], wantH)
		}
		if l.ComparisonScale < scene.MinComparisonScale {
			p.errorf("%s: comparison scale %g below floor", rec.ID, l.ComparisonScale)
		}
		if m := rec.MedianDiameterKm(); !math.IsNaN(m) && !floatEq(l.TargetDiameter, m*prof.ScaleFactor) {
			p.errorf("%s: target diameter %g, want %g", rec.ID, l.TargetDiameter, m*prof.ScaleFactor)
		}
		if l.CameraDistance < scene.MinCameraDistance {
			p.errorf("%s: camera distance %g below %g", rec.ID, l.CameraDistance, scene.MinCameraDistance)
		}
		if !floatEq(d.Reference.Position[0], -l.Spacing) || !floatEq(d.Comparison.Position[0], l.Spacing) {
			p.errorf("%s: objects not placed at +/-%g", rec.ID, l.Spacing)
		}
		if !floatEq(d.Camera.Position[2], l.CameraDistance) {
			p.errorf("%s: camera at z=%g, want %g", rec.ID, d.Camera.Position[2], l.CameraDistance)
		}

		r := render.New(40, 20)
		if img := r.Render(s, cam); img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
			p.errorf("%s: rendered frame is %v", rec.ID, img.Bounds())
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}
