package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/observability"
)

// Fetcher retrieves the raw event collection for a time window.
type Fetcher interface {
	FetchEvents(ctx context.Context, rng domain.TimeRange) ([]domain.Event, error)
}

// SnapshotPublisher forwards a freshly built snapshot to a downstream sink.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Refresher drives the fetch→classify→aggregate→publish cycle. Select serves
// user range changes; Run re-fetches the selected range on an interval so a
// dashboard left open keeps showing fresh data.
type Refresher struct {
	fetcher   Fetcher
	store     *Store
	publisher SnapshotPublisher // nil disables downstream publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	ready    atomic.Bool
	selected atomic.Value // domain.TimeRange
}

// NewRefresher wires a refresher. Pass a nil publisher to disable the sink.
func NewRefresher(
	fetcher Fetcher,
	store *Store,
	publisher SnapshotPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	interval time.Duration,
	defaultRange domain.TimeRange,
) *Refresher {
	r := &Refresher{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		interval:  interval,
	}
	r.selected.Store(defaultRange)
	return r
}

// CheckReadiness returns nil once the first snapshot has been published.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no feed snapshot has been loaded yet")
	}
	return nil
}

// SelectedRange reports the range the dashboard is currently viewing.
func (r *Refresher) SelectedRange() domain.TimeRange {
	return r.selected.Load().(domain.TimeRange)
}

// Select switches the active time range and fetches it. The returned
// snapshot is whichever generation won publication: when a concurrent newer
// selection landed first, its snapshot is returned instead of the stale one.
func (r *Refresher) Select(ctx context.Context, rng domain.TimeRange) (domain.Snapshot, error) {
	r.selected.Store(rng)
	return r.refresh(ctx, rng)
}

// Run re-fetches the selected range until the context is cancelled.
// Fetch failures are already recorded in the store; the loop keeps going so
// a transient feed outage heals on the next tick.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval, "range", r.SelectedRange())
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			rng := r.SelectedRange()
			if _, err := r.refresh(ctx, rng); err != nil && ctx.Err() == nil {
				r.logger.Error("periodic refresh failed", "range", rng, "error", err)
			}
		}
	}
}

// refresh performs one fetch-build-publish cycle under a fresh generation.
func (r *Refresher) refresh(ctx context.Context, rng domain.TimeRange) (domain.Snapshot, error) {
	generation := r.store.NextGeneration()
	start := time.Now()

	events, err := r.fetcher.FetchEvents(ctx, rng)
	if err != nil {
		r.metrics.FeedFetches.WithLabelValues(string(rng), "error").Inc()
		r.store.Fail(generation, rng, err)
		return domain.Snapshot{}, err
	}

	r.metrics.FeedFetchDuration.WithLabelValues(string(rng)).Observe(time.Since(start).Seconds())
	r.metrics.EventsIngested.Add(float64(len(events)))

	outcome := "success"
	if len(events) == 0 {
		// A well-formed empty window is valid data, not a failure.
		outcome = "empty"
	}
	r.metrics.FeedFetches.WithLabelValues(string(rng), outcome).Inc()

	snap := domain.BuildSnapshot(rng, generation, events)
	if !r.store.Publish(snap) {
		return r.store.Current()
	}
	r.ready.Store(true)
	r.logger.Info("snapshot published",
		"range", rng,
		"events", len(snap.Events),
		"generation", snap.Generation,
	)

	if r.publisher != nil {
		if err := r.publisher.PublishSnapshot(ctx, snap); err != nil {
			// Downstream publishing is best-effort; the dashboard stays up.
			r.metrics.PublishErrors.Inc()
			r.logger.Warn("snapshot publish failed", "range", rng, "error", err)
		} else {
			r.metrics.EventsPublished.Add(float64(len(snap.Events)))
		}
	}

	return snap, nil
}
