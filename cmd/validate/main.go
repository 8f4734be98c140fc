// Command validate cross-checks a snapshot fixture against its raw feed
// file. It re-runs the parse/classify/aggregate path and verifies that the
// fixture still matches: counts reconcile with skipped records, the
// histogram conserves totals and bin assignment, and every event's marker
// styling recomputes to the stored value. Run it after regenerating
// fixtures or changing classification thresholds.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/mock/all_day_260426_raw.geojson \
//	  -fixture data/mock/all_day_260426_snapshot.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
)

// Fixture mirrors the shape written by cmd/genmock.
type Fixture struct {
	Snapshot domain.Snapshot               `json:"snapshot"`
	Markers  map[string]domain.MarkerStyle `json:"markers"`
	Skipped  int                           `json:"skipped"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) failf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawPath := flag.String("raw", "", "path to the raw USGS GeoJSON feed file")
	fixturePath := flag.String("fixture", "", "path to the snapshot fixture JSON")
	flag.Parse()

	if *rawPath == "" || *fixturePath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw, -fixture")
	}

	raw, err := os.ReadFile(*rawPath)
	if err != nil {
		return fmt.Errorf("read raw feed: %w", err)
	}
	fixtureData, err := os.ReadFile(*fixturePath)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var fixture Fixture
	if err := json.Unmarshal(fixtureData, &fixture); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	events, skipped, err := domain.ParseFeedPayload(raw)
	if err != nil {
		return err
	}

	phases := []*phase{
		checkCounts(events, skipped, fixture),
		checkHistogram(events, fixture),
		checkMarkers(events, fixture),
	}

	failed := 0
	for _, p := range phases {
		if len(p.errors) == 0 {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d phases failed", failed, len(phases))
	}
	fmt.Printf("all %d phases passed (%d events, %d skipped)\n", len(phases), len(events), skipped)
	return nil
}

// checkCounts reconciles event and skipped-record counts between the raw
// feed and the fixture.
func checkCounts(events []domain.Event, skipped int, fixture Fixture) *phase {
	p := &phase{name: "counts"}

	if got, want := len(fixture.Snapshot.Events), len(events); got != want {
		p.failf("fixture has %d events, raw feed parses to %d", got, want)
	}
	if fixture.Skipped != skipped {
		p.failf("fixture records %d skipped, raw feed parse skipped %d", fixture.Skipped, skipped)
	}
	if got, want := len(fixture.Markers), len(events); got != want {
		p.failf("fixture has %d markers for %d events", got, want)
	}
	return p
}

// checkHistogram verifies conservation and bin-by-bin equality.
func checkHistogram(events []domain.Event, fixture Fixture) *phase {
	p := &phase{name: "histogram"}

	recomputed := domain.AggregateHistogram(events)
	if got, want := fixture.Snapshot.Histogram.Total(), len(events); got != want {
		p.failf("histogram total %d does not conserve event count %d", got, want)
	}
	if len(fixture.Snapshot.Histogram) != len(recomputed) {
		p.failf("fixture histogram has %d bins, expected %d", len(fixture.Snapshot.Histogram), len(recomputed))
		return p
	}
	for i, bin := range recomputed {
		stored := fixture.Snapshot.Histogram[i]
		if stored.Label != bin.Label {
			p.failf("bin %d label %q, expected %q", i, stored.Label, bin.Label)
		}
		if stored.Count != bin.Count {
			p.failf("bin %q count %d, recomputed %d", bin.Label, stored.Count, bin.Count)
		}
		if stored.Color != bin.Color {
			p.failf("bin %q color %q, expected %q", bin.Label, stored.Color, bin.Color)
		}
	}
	return p
}

// checkMarkers recomputes each event's marker styling from the raw feed.
func checkMarkers(events []domain.Event, fixture Fixture) *phase {
	p := &phase{name: "markers"}

	for _, e := range events {
		stored, ok := fixture.Markers[e.ID]
		if !ok {
			p.failf("no marker stored for event %s", e.ID)
			continue
		}
		want := domain.ClassifyMarker(e.Magnitude)
		if stored != want {
			p.failf("event %s marker %+v, recomputed %+v", e.ID, stored, want)
		}
	}
	return p
}
