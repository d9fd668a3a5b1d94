package feeds

import (
	"context"

	"github.com/ankitlade12/SafePassage/internal/config"
	"github.com/ankitlade12/SafePassage/internal/logging"
	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/risk"
	"github.com/ankitlade12/SafePassage/internal/traces"
)

// Refresher queries every configured source and merges the results into
// a fresh alert set.
type Refresher struct {
	fetchers []Fetcher
}

// NewRefresher creates a refresher over the given sources.
func NewRefresher(fetchers ...Fetcher) *Refresher {
	return &Refresher{fetchers: fetchers}
}

// NewRefresherFromConfig builds the standard GDELT + USGS + State
// Department source set from configuration.
func NewRefresherFromConfig(cfg *config.Config) *Refresher {
	return NewRefresher(
		NewGDELTFetcher(cfg.GDELTBaseURL, cfg.AlertRadiusKM, cfg.FeedTimeout),
		NewUSGSFetcher(cfg.USGSFeedURL, cfg.FeedTimeout),
		NewStateDeptFetcher(),
	)
}

// Refresh queries all sources and returns the merged alerts plus the
// names of sources that failed. Failures are absorbed: an unreachable
// source contributes zero alerts, never an error to the caller.
func (r *Refresher) Refresh(ctx context.Context, loc risk.Location) ([]*risk.Alert, []string) {
	ctx, span := traces.StartSpan(ctx, "feeds.Refresh",
		traces.AlertLocation(loc.String()))
	defer span.End()

	var alerts []*risk.Alert
	var failed []string

	for _, f := range r.fetchers {
		result := f.Fetch(ctx, loc)
		if result.Err != nil {
			logging.L(ctx).Warn("feed source unavailable",
				"source", result.Source,
				"error", result.Err)
			metrics.FeedFetchesTotal.WithLabelValues(result.Source, "error").Inc()
			failed = append(failed, result.Source)
			continue
		}
		metrics.FeedFetchesTotal.WithLabelValues(result.Source, "ok").Inc()
		alerts = append(alerts, result.Alerts...)
	}

	return alerts, failed
}
