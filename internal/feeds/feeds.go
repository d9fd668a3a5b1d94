// Package feeds ingests risk alerts from external public data sources.
//
// Every fetch is best-effort: a timeout, non-200, or malformed payload
// makes the source contribute zero alerts for that cycle, never a fatal
// error. Results are typed so callers can tell "calm" apart from
// "source unreachable".
package feeds

import (
	"context"
	"net/http"
	"time"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// Source names as they appear in alert records and fetch results.
const (
	SourceGDELT     = "GDELT"
	SourceUSGS      = "USGS"
	SourceStateDept = "U.S. State Department"
)

// DefaultTimeout bounds a single outbound fetch. No retries: the feeds
// are non-authoritative, so one attempt then silent fallback is the
// documented behavior.
const DefaultTimeout = 10 * time.Second

// FetchResult is the outcome of querying one source. Err is set when
// the source was unreachable or returned garbage; Alerts may be empty
// either way.
type FetchResult struct {
	Source string
	Alerts []*risk.Alert
	Err    error
}

// Fetcher pulls alerts relevant to a location from one source.
type Fetcher interface {
	Fetch(ctx context.Context, loc risk.Location) FetchResult
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
