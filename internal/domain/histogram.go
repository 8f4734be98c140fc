package domain

import "math"

// HistogramBin is one magnitude bucket of the summary chart. Color is the
// bar's chart-color group, a static property of the bin (distinct from the
// marker color thresholds).
type HistogramBin struct {
	Label string      `json:"label"`
	Count int         `json:"count"`
	Color MarkerColor `json:"color"`
}

// Histogram holds the six magnitude bins in canonical display order.
type Histogram []HistogramBin

// binDefs fixes the bin labels, upper bounds (exclusive), and chart colors.
// Intervals are half-open [lo, hi); the last bin is unbounded above.
var binDefs = []struct {
	label string
	upper float64
	color MarkerColor
}{
	{"<2", 2, ColorGreen},
	{"2-2.9", 3, ColorGreen},
	{"3-3.9", 4, ColorOrange},
	{"4-4.9", 5, ColorOrange},
	{"5-5.9", 6, ColorRed},
	{"6+", math.Inf(1), ColorRed},
}

// NewHistogram returns all six bins with zero counts, in canonical order.
func NewHistogram() Histogram {
	h := make(Histogram, len(binDefs))
	for i, def := range binDefs {
		h[i] = HistogramBin{Label: def.label, Color: def.color}
	}
	return h
}

// AggregateHistogram counts events into the six magnitude bins in a single
// pass. Absent magnitude defaults to 0 (the classifier's default differs;
// both are intentional, see the package docs). Counting is commutative, so
// the result is independent of input order. An empty input yields all six
// bins with zero counts, never a shorter result.
func AggregateHistogram(events []Event) Histogram {
	h := NewHistogram()
	for _, e := range events {
		h[binIndex(e.MagnitudeOr(0))].Count++
	}
	return h
}

// binIndex assigns a magnitude to exactly one bin. Every float lands
// somewhere: negative values fall into the first bin, +Inf into the last,
// and NaN is pinned to the first bin to keep assignment total.
func binIndex(m float64) int {
	if math.IsNaN(m) {
		return 0
	}
	for i := 0; i < len(binDefs)-1; i++ {
		if m < binDefs[i].upper {
			return i
		}
	}
	return len(binDefs) - 1
}

// Total sums the bin counts.
func (h Histogram) Total() int {
	total := 0
	for _, bin := range h {
		total += bin.Count
	}
	return total
}
