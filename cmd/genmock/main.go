// Command genmock converts a raw NeoWs /feed response into the flattened feed
// fixture the pipeline tests load. It uses the domain conversion so the
// fixture matches what the NASA client produces at runtime.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw data/mock/neo_feed_240301_raw.json \
//	  -date 2024-03-01 \
//	  -out data/mock/neo_feed_240301.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawPath := flag.String("raw", "", "path to a raw NeoWs feed response")
	date := flag.String("date", "", "day to extract, YYYY-MM-DD")
	out := flag.String("out", "", "output path for the converted feed fixture")
	flag.Parse()

	if *rawPath == "" || *date == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw, -date, -out")
	}

	data, err := os.ReadFile(*rawPath)
	if err != nil {
		return fmt.Errorf("read raw feed: %w", err)
	}
	var raw domain.NASAFeed
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode raw feed: %w", err)
	}
	if _, ok := raw.NearEarthObjects[*date]; !ok {
		return fmt.Errorf("raw feed has no objects for %s", *date)
	}

	feed := domain.ConvertNASAFeed(raw, *date)
	log.Printf("%s: %d records", *date, len(feed.Neos))

	if err := writeJSON(*out, feed); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s", *out)

	printStats(feed)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats reports the figures test assertions depend on.
func printStats(feed domain.Feed) {
	hazardous := 0
	approaches := 0
	medians := make([]float64, 0, len(feed.Neos))
	for _, rec := range feed.Neos {
		if rec.IsPotentiallyHazardous {
			hazardous++
		}
		approaches += len(rec.CloseApproachData)
		if m := rec.MedianDiameterKm(); !math.IsNaN(m) {
			medians = append(medians, m)
		}
	}
	sort.Float64s(medians)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(feed.Neos))
	fmt.Printf("Hazardous: %d\n", hazardous)
	fmt.Printf("Close approaches: %d\n", approaches)
	if len(medians) > 0 {
		fmt.Printf("Median diameter km: smallest=%.3f largest=%.3f\n", medians[0], medians[len(medians)-1])
	}
	for _, rec := range feed.Neos {
		fmt.Printf("  %-10s %-24s km %s - %s\n", rec.ID, rec.Name,
			rec.EstimatedDiameter.Kilometers.Min, rec.EstimatedDiameter.Kilometers.Max)
	}
}
