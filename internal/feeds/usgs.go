package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// DefaultUSGSFeedURL is the USGS significant-earthquakes weekly feed.
const DefaultUSGSFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/significant_week.geojson"

// USGSFetcher pulls significant earthquakes from the USGS GeoJSON feed.
// Earthquakes are location-independent alerts: the radius matching in
// the assessor decides whether one affects the traveler.
type USGSFetcher struct {
	feedURL string
	client  *http.Client
}

// NewUSGSFetcher creates a USGS fetcher. An empty feedURL uses the
// public weekly feed.
func NewUSGSFetcher(feedURL string, timeout time.Duration) *USGSFetcher {
	if feedURL == "" {
		feedURL = DefaultUSGSFeedURL
	}
	return &USGSFetcher{feedURL: feedURL, client: newHTTPClient(timeout)}
}

type usgsResponse struct {
	Features []struct {
		Properties struct {
			Mag   float64 `json:"mag"`
			Place string  `json:"place"`
			Time  int64   `json:"time"`
			Title string  `json:"title"`
			Code  string  `json:"code"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (u *USGSFetcher) Fetch(ctx context.Context, loc risk.Location) FetchResult {
	result := FetchResult{Source: SourceUSGS}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.feedURL, nil)
	if err != nil {
		result.Err = err
		return result
	}

	resp, err := u.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("usgs fetch: %w", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("usgs fetch: unexpected status %d", resp.StatusCode)
		return result
	}

	var data usgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		result.Err = fmt.Errorf("usgs decode: %w", err)
		return result
	}

	features := data.Features
	if len(features) > 5 {
		features = features[:5]
	}

	for _, f := range features {
		lat, lon := 0.0, 0.0
		if len(f.Geometry.Coordinates) > 1 {
			lon = f.Geometry.Coordinates[0]
			lat = f.Geometry.Coordinates[1]
		}

		result.Alerts = append(result.Alerts, &risk.Alert{
			ID: fmt.Sprintf("usgs_%s", f.Properties.Code),
			Location: risk.Location{
				City:      f.Properties.Place,
				Country:   "",
				Latitude:  lat,
				Longitude: lon,
			},
			Type:             risk.TypeNaturalDisaster,
			Severity:         quakeSeverity(f.Properties.Mag),
			Source:           SourceUSGS,
			Timestamp:        time.UnixMilli(f.Properties.Time),
			Title:            fmt.Sprintf("Earthquake: Magnitude %g", f.Properties.Mag),
			Description:      f.Properties.Title,
			AffectedRadiusKM: 50,
		})
	}

	return result
}

// quakeSeverity scales magnitude onto the 1-10 severity range.
func quakeSeverity(magnitude float64) int {
	s := int(magnitude * 1.5)
	if s > 10 {
		return 10
	}
	if s < 1 {
		return 1
	}
	return s
}
