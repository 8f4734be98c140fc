package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// featureCollection mirrors the USGS GeoJSON summary feed wire format,
// reduced to the fields the dashboard consumes.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string            `json:"id"`
	Properties featureProperties `json:"properties"`
	Geometry   featureGeometry   `json:"geometry"`
}

type featureProperties struct {
	Mag   *float64 `json:"mag"` // null for unreviewed events
	Place string   `json:"place"`
	Time  int64    `json:"time"` // epoch milliseconds
}

type featureGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth_km]
}

// ParseFeedPayload deserializes a feed response body into events. Features
// missing an id or a usable lon/lat pair are skipped and counted instead of
// failing the whole fetch; the skipped count is returned so the caller can
// log and meter them. A null magnitude is kept as absence, not zeroed.
func ParseFeedPayload(data []byte) ([]Event, int, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, 0, fmt.Errorf("parse feed payload: %w", err)
	}

	events := make([]Event, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		event, ok := mapFeature(f)
		if !ok {
			skipped++
			continue
		}
		events = append(events, event)
	}
	return events, skipped, nil
}

// mapFeature converts one GeoJSON feature to an Event, reporting false for
// records the dashboard cannot place on the map.
func mapFeature(f feature) (Event, bool) {
	if f.ID == "" || len(f.Geometry.Coordinates) < 2 {
		return Event{}, false
	}

	lon := f.Geometry.Coordinates[0]
	lat := f.Geometry.Coordinates[1]
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return Event{}, false
	}

	event := Event{
		ID:         f.ID,
		Magnitude:  f.Properties.Mag,
		Geo:        Geo{Lat: lat, Lon: lon},
		Place:      f.Properties.Place,
		OccurredAt: time.UnixMilli(f.Properties.Time).UTC(),
	}
	if len(f.Geometry.Coordinates) >= 3 {
		event.DepthKM = f.Geometry.Coordinates[2]
	}
	return event, true
}
