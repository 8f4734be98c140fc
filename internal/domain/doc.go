// Package domain models USGS earthquake feed data and the derived
// visual encodings served to the dashboard.
//
// # Data Source
//
// Events come from the USGS GeoJSON summary feeds, available at
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/. One feed file
// exists per time window (all_day, all_week, all_month); the window is
// selected by the user and maps to [TimeRange]. Each feed is a GeoJSON
// FeatureCollection with one feature per event:
//
//	properties.mag    magnitude (may be null for unreviewed events)
//	properties.place  free-text location label, display-only
//	properties.time   origin time in epoch milliseconds
//	geometry.coordinates = [lon, lat, depth_km]
//
// Features missing an id or a usable coordinate pair are skipped during
// parsing rather than propagated; see [ParseFeedPayload].
//
// # Magnitude defaults
//
// The feed may omit magnitude. The two consumers of magnitude apply
// different defaults, and both are kept:
//
//	marker styling ([ClassifyMarker]):       absent → 1
//	histogram binning ([AggregateHistogram]): absent → 0
//
// The divergence is almost certainly a historical accident, but downstream
// dashboards depend on the rendered output, so both defaults are preserved
// as-is. Event.Magnitude is a pointer so absence survives parsing.
//
// # Severity tiers
//
// Two independent tier schemes are derived from magnitude:
//
// Marker colors (3 tiers), used to style map markers:
//
//	m < 3        green
//	3 ≤ m < 5    orange
//	m ≥ 5        red
//
// Histogram bins (6, ordered), used for the summary bar chart. Intervals are
// half-open [lo, hi); the last bin is unbounded above. Every real magnitude,
// negative values included, lands in exactly one bin:
//
//	<2  2-2.9  3-3.9  4-4.9  5-5.9  6+
//
// Chart bars reuse the marker palette but with their own grouping:
// the first two bins are green, the middle two orange, the last two red.
// The grouping is a static property of the bin, not computed from data.
//
// Non-finite magnitudes (NaN, ±Inf) are not produced by the feed but are
// handled explicitly: the classifier treats them as the low tier with the
// minimum marker size, and the aggregator counts NaN into the first bin.
// ±Inf follow the interval rule naturally.
package domain
