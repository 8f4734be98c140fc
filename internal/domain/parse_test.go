package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "us7000abcd",
      "properties": {"mag": 4.5, "place": "42 km SSW of Hualien City, Taiwan", "time": 1714143000000},
      "geometry": {"type": "Point", "coordinates": [121.42, 23.61, 22.8]}
    },
    {
      "type": "Feature",
      "id": "nc73901234",
      "properties": {"mag": null, "place": "6 km NW of The Geysers, CA", "time": 1714143060000},
      "geometry": {"type": "Point", "coordinates": [-122.83, 38.82, 2.1]}
    }
  ]
}`

func TestParseFeedPayload(t *testing.T) {
	t.Run("well-formed collection", func(t *testing.T) {
		events, skipped, err := ParseFeedPayload([]byte(feedFixture))

		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, events, 2)

		first := events[0]
		assert.Equal(t, "us7000abcd", first.ID)
		require.NotNil(t, first.Magnitude)
		assert.Equal(t, 4.5, *first.Magnitude)
		assert.Equal(t, 23.61, first.Geo.Lat)
		assert.Equal(t, 121.42, first.Geo.Lon)
		assert.Equal(t, 22.8, first.DepthKM)
		assert.Equal(t, "42 km SSW of Hualien City, Taiwan", first.Place)
		assert.Equal(t, time.UnixMilli(1714143000000).UTC(), first.OccurredAt)
	})

	t.Run("null magnitude survives as absence", func(t *testing.T) {
		events, _, err := ParseFeedPayload([]byte(feedFixture))

		require.NoError(t, err)
		assert.Nil(t, events[1].Magnitude)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := ParseFeedPayload([]byte("{not geojson"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed payload")
	})

	t.Run("empty collection", func(t *testing.T) {
		events, skipped, err := ParseFeedPayload([]byte(`{"type":"FeatureCollection","features":[]}`))

		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Empty(t, events)
	})

	t.Run("skips feature without id", func(t *testing.T) {
		payload := `{"features":[
			{"id":"","properties":{"mag":3.2,"time":1714143000000},"geometry":{"coordinates":[10,20,5]}},
			{"id":"ok1","properties":{"mag":3.2,"time":1714143000000},"geometry":{"coordinates":[10,20,5]}}
		]}`

		events, skipped, err := ParseFeedPayload([]byte(payload))

		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		require.Len(t, events, 1)
		assert.Equal(t, "ok1", events[0].ID)
	})

	t.Run("skips feature without coordinates", func(t *testing.T) {
		payload := `{"features":[
			{"id":"bad1","properties":{"mag":3.2,"time":1714143000000},"geometry":{"coordinates":[10]}},
			{"id":"bad2","properties":{"mag":3.2,"time":1714143000000},"geometry":{}}
		]}`

		events, skipped, err := ParseFeedPayload([]byte(payload))

		require.NoError(t, err)
		assert.Equal(t, 2, skipped)
		assert.Empty(t, events)
	})

	t.Run("missing depth defaults to zero", func(t *testing.T) {
		payload := `{"features":[
			{"id":"shallow","properties":{"mag":2.0,"time":1714143000000},"geometry":{"coordinates":[10,20]}}
		]}`

		events, skipped, err := ParseFeedPayload([]byte(payload))

		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, events, 1)
		assert.Zero(t, events[0].DepthKM)
	})
}

func TestBuildSnapshot(t *testing.T) {
	fixedTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	events, _, err := ParseFeedPayload([]byte(feedFixture))
	require.NoError(t, err)

	snap := BuildSnapshot(RangeDay, 7, events)

	assert.Equal(t, RangeDay, snap.Range)
	assert.Equal(t, uint64(7), snap.Generation)
	assert.Equal(t, fixedTime, snap.FetchedAt)
	assert.Len(t, snap.Events, 2)
	assert.Equal(t, 2, snap.Histogram.Total())

	// 4.5 lands in 4-4.9; the null-magnitude event defaults to 0 → "<2".
	assert.Equal(t, 1, snap.Histogram[0].Count)
	assert.Equal(t, 1, snap.Histogram[3].Count)
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeRange
		wantErr bool
	}{
		{"day", "day", RangeDay, false},
		{"week", "week", RangeWeek, false},
		{"month", "month", RangeMonth, false},
		{"empty", "", "", true},
		{"unknown", "year", "", true},
		{"case-sensitive", "Day", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeRange(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
