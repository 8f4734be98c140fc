package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func magPtr(v float64) *float64 { return &v }

func TestClassifyMarker_Color(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		expected  MarkerColor
	}{
		{"negative", -1.0, ColorGreen},
		{"zero", 0, ColorGreen},
		{"just below orange", 2.99, ColorGreen},
		{"orange threshold", 3, ColorOrange},
		{"mid orange", 4.2, ColorOrange},
		{"just below red", 4.99, ColorOrange},
		{"red threshold", 5, ColorRed},
		{"major quake", 7.8, ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyMarker(magPtr(tt.magnitude)).Color)
		})
	}
}

func TestClassifyMarker_Size(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		expected  float64
	}{
		{"floor applies below 2", 0.5, 8},
		{"floor boundary", 2, 8},
		{"linear above floor", 3, 12},
		{"large magnitude", 10, 40},
		{"negative hits floor", -3, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyMarker(magPtr(tt.magnitude)).SizePx)
		})
	}
}

func TestClassifyMarker_AbsentMagnitude(t *testing.T) {
	// Absent magnitude defaults to 1 for markers (not 0 as in the histogram).
	style := ClassifyMarker(nil)
	assert.Equal(t, ColorGreen, style.Color)
	assert.Equal(t, 8.0, style.SizePx) // max(1*4, 8)
}

func TestClassifyMarker_NonFinite(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
	}{
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := ClassifyMarker(magPtr(tt.magnitude))
			assert.Equal(t, ColorGreen, style.Color)
			assert.Equal(t, 8.0, style.SizePx)
		})
	}
}
