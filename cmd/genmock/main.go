// Command genmock turns a raw USGS GeoJSON feed file into a deterministic
// snapshot fixture. It runs the real parse/classify/aggregate path under a
// frozen clock, so fixtures always match actual service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -in data/mock/all_day_260426_raw.geojson \
//	  -out data/mock/all_day_260426_snapshot.json \
//	  -range day
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
)

// fixedFetchTime keeps FetchedAt reproducible across regenerations.
var fixedFetchTime = time.Date(2026, time.April, 26, 15, 0, 0, 0, time.UTC)

// Fixture is the on-disk shape consumed by cmd/validate: the snapshot plus
// the per-event marker styling keyed by event ID.
type Fixture struct {
	Snapshot domain.Snapshot               `json:"snapshot"`
	Markers  map[string]domain.MarkerStyle `json:"markers"`
	Skipped  int                           `json:"skipped"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to a raw USGS GeoJSON feed file")
	out := flag.String("out", "", "output path for the snapshot fixture JSON")
	rangeName := flag.String("range", "day", "time range label for the fixture (day, week, month)")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	rng, err := domain.ParseTimeRange(*rangeName)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read raw feed: %w", err)
	}

	events, skipped, err := domain.ParseFeedPayload(raw)
	if err != nil {
		return err
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixedFetchTime))
	defer domain.SetClock(nil)

	snap := domain.BuildSnapshot(rng, 0, events)

	markers := make(map[string]domain.MarkerStyle, len(events))
	for _, e := range events {
		markers[e.ID] = domain.ClassifyMarker(e.Magnitude)
	}

	fixture := Fixture{Snapshot: snap, Markers: markers, Skipped: skipped}
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	log.Printf("wrote %s: %d events, %d skipped, histogram total %d",
		*out, len(events), skipped, snap.Histogram.Total())
	return nil
}
