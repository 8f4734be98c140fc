package httpapi

import "github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"

// eventDTO is one map marker: the geographic point, the display fields, and
// the classifier's visual encoding. Magnitude stays a pointer so the
// frontend can tell "not measured" from zero.
type eventDTO struct {
	ID         string             `json:"id"`
	Place      string             `json:"place,omitempty"`
	Magnitude  *float64           `json:"magnitude,omitempty"`
	DepthKM    float64            `json:"depth_km"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	OccurredAt string             `json:"occurred_at"`
	Marker     domain.MarkerStyle `json:"marker"`
}

type eventsResponse struct {
	Range     domain.TimeRange `json:"range"`
	Count     int              `json:"count"`
	FetchedAt string           `json:"fetched_at"`
	Events    []eventDTO       `json:"events"`
}

type histogramResponse struct {
	Range     domain.TimeRange `json:"range"`
	FetchedAt string           `json:"fetched_at"`
	Total     int              `json:"total"`
	Bins      domain.Histogram `json:"bins"`
}

type rangesResponse struct {
	Ranges   []domain.TimeRange `json:"ranges"`
	Selected domain.TimeRange   `json:"selected"`
}

type errorResponse struct {
	Error string `json:"error"`
}
