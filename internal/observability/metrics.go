package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// feed refresh loop and the optional snapshot publisher.
type Metrics struct {
	FeedFetches       *prometheus.CounterVec   // labels: range={day,week,month}, outcome={success,error,empty}
	FeedFetchDuration *prometheus.HistogramVec // labels: range
	EventsIngested    prometheus.Counter
	MalformedRecords  prometheus.Counter
	StaleDropped      prometheus.Counter
	SnapshotEvents    prometheus.Gauge
	RefresherRunning  prometheus.Gauge

	// Snapshot publisher metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by range and outcome.",
		}, []string{"range", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a feed fetch including parsing.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"range"}),
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "events_ingested_total",
			Help:      "Total events parsed from the feed.",
		}),
		MalformedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "malformed_records_total",
			Help:      "Total feed features skipped for missing id or coordinates.",
		}),
		StaleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "stale_snapshots_dropped_total",
			Help:      "Fetch results discarded because a newer selection already published.",
		}),
		SnapshotEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "snapshot_events",
			Help:      "Event count of the currently published snapshot.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "refresher_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "events_published_total",
			Help:      "Total classified events published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "publish_errors_total",
			Help:      "Total snapshot publish failures.",
		}),
	}

	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.EventsIngested,
		m.MalformedRecords,
		m.StaleDropped,
		m.SnapshotEvents,
		m.RefresherRunning,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quakewatch", Name: "feed_fetches_total"}, []string{"range", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "quakewatch", Name: "feed_fetch_duration_seconds"}, []string{"range"}),
		EventsIngested:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakewatch", Name: "events_ingested_total"}),
		MalformedRecords:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakewatch", Name: "malformed_records_total"}),
		StaleDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakewatch", Name: "stale_snapshots_dropped_total"}),
		SnapshotEvents:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quakewatch", Name: "snapshot_events"}),
		RefresherRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quakewatch", Name: "refresher_running"}),
		EventsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakewatch", Name: "events_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakewatch", Name: "publish_errors_total"}),
	}
}
