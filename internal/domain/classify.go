package domain

import "math"

// MarkerColor is the three-tier severity palette used for map markers and,
// with a different bin grouping, for chart bars.
type MarkerColor string

const (
	ColorGreen  MarkerColor = "green"
	ColorOrange MarkerColor = "orange"
	ColorRed    MarkerColor = "red"
)

// MarkerStyle is the per-event visual encoding consumed by the map layer.
type MarkerStyle struct {
	Color  MarkerColor `json:"color"`
	SizePx float64     `json:"size_px"`
}

const (
	// defaultMarkerMagnitude is applied when the feed omitted magnitude.
	// Note this differs from the aggregator's default of 0.
	defaultMarkerMagnitude = 1.0

	markerSizeScale = 4.0
	minMarkerSizePx = 8.0
)

// ClassifyMarker maps a magnitude to its marker color and pixel size.
// Color thresholds: <3 green, [3,5) orange, ≥5 red. Size is magnitude*4
// with a floor of 8px. Absent magnitude defaults to 1. Non-finite values
// get the low tier and the size floor rather than propagating.
func ClassifyMarker(magnitude *float64) MarkerStyle {
	m := defaultMarkerMagnitude
	if magnitude != nil {
		m = *magnitude
	}

	if math.IsNaN(m) || math.IsInf(m, 0) {
		return MarkerStyle{Color: ColorGreen, SizePx: minMarkerSizePx}
	}

	style := MarkerStyle{SizePx: math.Max(m*markerSizeScale, minMarkerSizePx)}
	switch {
	case m < 3:
		style.Color = ColorGreen
	case m < 5:
		style.Color = ColorOrange
	default:
		style.Color = ColorRed
	}
	return style
}
