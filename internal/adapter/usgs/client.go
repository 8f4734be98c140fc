// Package usgs implements feed.Fetcher against the USGS earthquake GeoJSON
// summary feeds.
package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/observability"
)

// DefaultBaseURL is the public USGS summary feed root.
const DefaultBaseURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"

// Client fetches and parses one summary feed per call. One feed file exists
// per time window: all_day.geojson, all_week.geojson, all_month.geojson.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents retrieves the feed for a time window and returns the parsed
// events. An empty feature list is a valid empty result, not an error.
// Malformed features are skipped, logged, and metered, never fatal.
func (c *Client) FetchEvents(ctx context.Context, rng domain.TimeRange) ([]domain.Event, error) {
	u := fmt.Sprintf("%s/all_%s.geojson", c.baseURL, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", rng, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s feed body: %w", rng, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usgs feed error: status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	events, skipped, err := domain.ParseFeedPayload(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.metrics.MalformedRecords.Add(float64(skipped))
		c.logger.Warn("skipped malformed feed features",
			"range", rng,
			"skipped", skipped,
			"parsed", len(events),
		)
	}

	return events, nil
}

// truncate keeps error messages bounded when the upstream returns an HTML
// error page instead of JSON.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
