package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeRange selects which USGS summary feed window to load.
type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ErrUnknownRange is returned for a time range outside {day, week, month}.
var ErrUnknownRange = errors.New("unknown time range")

// Ranges lists the supported feed windows in display order.
func Ranges() []TimeRange {
	return []TimeRange{RangeDay, RangeWeek, RangeMonth}
}

// ParseTimeRange validates a user-supplied range selector.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case RangeDay, RangeWeek, RangeMonth:
		return TimeRange(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
	}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is one reported seismic event. The ID is opaque and never
// interpreted; it is used only for stable keying. Magnitude is a pointer
// because the feed may report null for unreviewed events — the marker
// classifier and the histogram aggregator apply different defaults for
// absence, so it cannot be collapsed to a zero value at parse time.
type Event struct {
	ID         string    `json:"id"`
	Magnitude  *float64  `json:"magnitude,omitempty"`
	Geo        Geo       `json:"geo"`
	DepthKM    float64   `json:"depth_km"`
	Place      string    `json:"place,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MagnitudeOr returns the event magnitude, or def when the feed omitted it.
func (e Event) MagnitudeOr(def float64) float64 {
	if e.Magnitude == nil {
		return def
	}
	return *e.Magnitude
}

// Snapshot is an immutable view of one fetched feed window: the parsed
// events and the histogram derived from them. A snapshot is recomputed in
// full on every fetch; nothing mutates it afterwards. Generation orders
// snapshots so a slow fetch cannot overwrite a newer selection.
type Snapshot struct {
	Range      TimeRange `json:"range"`
	Events     []Event   `json:"events"`
	Histogram  Histogram `json:"histogram"`
	FetchedAt  time.Time `json:"fetched_at"`
	Generation uint64    `json:"-"`
}

// BuildSnapshot derives a snapshot from a parsed event collection.
func BuildSnapshot(rng TimeRange, generation uint64, events []Event) Snapshot {
	return Snapshot{
		Range:      rng,
		Events:     events,
		Histogram:  AggregateHistogram(events),
		FetchedAt:  clock.Now().UTC(),
		Generation: generation,
	}
}
