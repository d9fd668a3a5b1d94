package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// DefaultGDELTBaseURL is the GDELT GEO API endpoint.
const DefaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/geo/geo"

// gdeltQueryTerms filter GDELT to unrest-related news activity.
const gdeltQueryTerms = "(protest OR unrest OR conflict OR violence OR crisis)"

// GDELTFetcher pulls news-activity clusters from the GDELT GEO API and
// converts mention volume into severity.
type GDELTFetcher struct {
	baseURL  string
	radiusKM float64
	client   *http.Client
}

// NewGDELTFetcher creates a GDELT fetcher. An empty baseURL uses the
// public API.
func NewGDELTFetcher(baseURL string, radiusKM float64, timeout time.Duration) *GDELTFetcher {
	if baseURL == "" {
		baseURL = DefaultGDELTBaseURL
	}
	return &GDELTFetcher{
		baseURL:  baseURL,
		radiusKM: radiusKM,
		client:   newHTTPClient(timeout),
	}
}

type gdeltResponse struct {
	Features []struct {
		Properties struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (g *GDELTFetcher) Fetch(ctx context.Context, loc risk.Location) FetchResult {
	result := FetchResult{Source: SourceGDELT}

	q := url.Values{}
	q.Set("query", fmt.Sprintf("%s %s %s", gdeltQueryTerms, loc.City, loc.Country))
	q.Set("format", "geojson")
	q.Set("timespan", "7d")
	q.Set("maxpoints", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		result.Err = err
		return result
	}

	resp, err := g.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("gdelt fetch: %w", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("gdelt fetch: unexpected status %d", resp.StatusCode)
		return result
	}

	var data gdeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		result.Err = fmt.Errorf("gdelt decode: %w", err)
		return result
	}

	features := data.Features
	if len(features) > 3 {
		features = features[:3]
	}

	for _, f := range features {
		name := f.Properties.Name
		nameLower := strings.ToLower(name)

		// Only keep clusters that mention the traveler's city or country;
		// GDELT returns global hot spots for broad query terms.
		if !strings.Contains(nameLower, strings.ToLower(loc.Country)) &&
			!strings.Contains(nameLower, strings.ToLower(loc.City)) {
			continue
		}

		lat, lon := loc.Latitude, loc.Longitude
		if len(f.Geometry.Coordinates) > 1 {
			lon = f.Geometry.Coordinates[0]
			lat = f.Geometry.Coordinates[1]
		}

		result.Alerts = append(result.Alerts, &risk.Alert{
			ID: fmt.Sprintf("gdelt_%d", nameHash(name)),
			Location: risk.Location{
				City:      truncate(name, 30),
				Country:   loc.Country,
				Latitude:  lat,
				Longitude: lon,
			},
			Type:             risk.TypePoliticalUnrest,
			Severity:         gdeltSeverity(f.Properties.Count),
			Source:           SourceGDELT,
			Timestamp:        time.Now(),
			Title:            fmt.Sprintf("News Activity: %s", truncate(name, 40)),
			Description:      fmt.Sprintf("%d news mentions in past 7 days", f.Properties.Count),
			AffectedRadiusKM: g.radiusKM,
		})
	}

	return result
}

// gdeltSeverity maps mention volume onto severity: more mentions means
// more activity.
func gdeltSeverity(count int) int {
	switch {
	case count >= 500:
		return 8
	case count >= 200:
		return 6
	case count >= 100:
		return 4
	case count >= 50:
		return 3
	default:
		return 2 // background activity
	}
}

func nameHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32() % 100000
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
