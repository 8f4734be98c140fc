// Package feed holds the snapshot lifecycle: fetching a time window,
// building an immutable snapshot from it, and publishing it so the HTTP
// layer always reads a consistent view. Publication is ordered by a
// generation counter so a slow fetch can never overwrite the result of a
// newer selection.
package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/observability"
)

// ErrNoSnapshot is returned before the first successful fetch has published.
var ErrNoSnapshot = errors.New("no snapshot loaded yet")

// Store holds the current snapshot and the last terminal fetch failure.
// All snapshots are immutable values; readers get a copy of the header and
// share the underlying event slice, which is never mutated after publish.
type Store struct {
	gen atomic.Uint64

	mu      sync.RWMutex
	applied uint64 // highest generation that has published or failed
	current *domain.Snapshot
	lastErr error

	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewStore creates an empty store.
func NewStore(logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{logger: logger, metrics: metrics}
}

// NextGeneration reserves a generation token. Callers must obtain the token
// before starting a fetch so that responses arriving out of order can be
// detected at publish time.
func (s *Store) NextGeneration() uint64 {
	return s.gen.Add(1)
}

// Publish installs a snapshot unless a newer generation already published or
// failed. Returns false when the snapshot was stale and dropped.
func (s *Store) Publish(snap domain.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Generation <= s.applied {
		s.metrics.StaleDropped.Inc()
		s.logger.Debug("dropping stale snapshot",
			"range", snap.Range,
			"generation", snap.Generation,
			"applied", s.applied,
		)
		return false
	}

	s.applied = snap.Generation
	s.current = &snap
	s.lastErr = nil
	s.metrics.SnapshotEvents.Set(float64(len(snap.Events)))
	return true
}

// Fail records a terminal fetch failure for the given generation. The event
// collection is cleared so the dashboard never renders data from a range the
// user navigated away from. Stale failures are dropped like stale snapshots.
func (s *Store) Fail(generation uint64, rng domain.TimeRange, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation <= s.applied {
		s.metrics.StaleDropped.Inc()
		return false
	}

	s.applied = generation
	s.current = nil
	s.lastErr = fmt.Errorf("fetch %s feed: %w", rng, err)
	s.metrics.SnapshotEvents.Set(0)
	return true
}

// Current returns the published snapshot, the last terminal failure, or
// ErrNoSnapshot before anything has been fetched.
func (s *Store) Current() (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastErr != nil {
		return domain.Snapshot{}, s.lastErr
	}
	if s.current == nil {
		return domain.Snapshot{}, ErrNoSnapshot
	}
	return *s.current, nil
}
