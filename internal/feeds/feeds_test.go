package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

func TestGDELTFetchAndFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "Beirut Lebanon")
		assert.Equal(t, "geojson", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [
				{"properties": {"name": "Beirut, Lebanon", "count": 250},
				 "geometry": {"coordinates": [35.50, 33.89]}},
				{"properties": {"name": "Paris, France", "count": 800},
				 "geometry": {"coordinates": [2.35, 48.85]}}
			]
		}`))
	}))
	defer srv.Close()

	f := NewGDELTFetcher(srv.URL, 100, 5*time.Second)
	result := f.Fetch(context.Background(), risk.Location{
		City: "Beirut", Country: "Lebanon", Latitude: 33.89, Longitude: 35.50,
	})

	require.NoError(t, result.Err)
	require.Len(t, result.Alerts, 1, "clusters outside the query location must be dropped")

	alert := result.Alerts[0]
	assert.Equal(t, risk.TypePoliticalUnrest, alert.Type)
	assert.Equal(t, 6, alert.Severity, "250 mentions maps to severity 6")
	assert.Equal(t, SourceGDELT, alert.Source)
	assert.Equal(t, 33.89, alert.Location.Latitude)
	assert.Contains(t, alert.Description, "250 news mentions")
}

func TestGDELTSeverityTiers(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{600, 8},
		{500, 8},
		{250, 6},
		{150, 4},
		{60, 3},
		{10, 2},
	}
	for _, tc := range cases {
		if got := gdeltSeverity(tc.count); got != tc.want {
			t.Errorf("count %d: expected severity %d, got %d", tc.count, tc.want, got)
		}
	}
}

func TestGDELTAbsorbsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewGDELTFetcher(srv.URL, 100, 5*time.Second)
	result := f.Fetch(context.Background(), risk.Location{City: "Beirut", Country: "Lebanon"})

	assert.Error(t, result.Err)
	assert.Empty(t, result.Alerts)
	assert.Equal(t, SourceGDELT, result.Source)
}

func TestUSGSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [
				{"properties": {"mag": 6.2, "place": "10km NE of Tokyo, Japan",
				                "time": 1756300000000, "title": "M 6.2 - near Tokyo", "code": "abc123"},
				 "geometry": {"coordinates": [139.65, 35.67, 10.0]}}
			]
		}`))
	}))
	defer srv.Close()

	f := NewUSGSFetcher(srv.URL, 5*time.Second)
	result := f.Fetch(context.Background(), risk.Location{City: "Tokyo", Country: "Japan"})

	require.NoError(t, result.Err)
	require.Len(t, result.Alerts, 1)

	alert := result.Alerts[0]
	assert.Equal(t, "usgs_abc123", alert.ID)
	assert.Equal(t, risk.TypeNaturalDisaster, alert.Type)
	assert.Equal(t, 9, alert.Severity, "magnitude 6.2 * 1.5 truncates to 9")
	assert.Equal(t, 35.67, alert.Location.Latitude)
	assert.Equal(t, float64(50), alert.AffectedRadiusKM)
}

func TestQuakeSeverityClamps(t *testing.T) {
	if got := quakeSeverity(9.5); got != 10 {
		t.Errorf("expected clamp to 10, got %d", got)
	}
	if got := quakeSeverity(0.2); got != 1 {
		t.Errorf("expected floor of 1, got %d", got)
	}
}

func TestStateDeptAdvisories(t *testing.T) {
	f := NewStateDeptFetcher()

	result := f.Fetch(context.Background(), risk.Location{City: "Kyiv", Country: "Ukraine"})
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, 9, result.Alerts[0].Severity)
	assert.Equal(t, SourceStateDept, result.Alerts[0].Source)

	result = f.Fetch(context.Background(), risk.Location{City: "Istanbul", Country: "Turkey"})
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, 6, result.Alerts[0].Severity)

	result = f.Fetch(context.Background(), risk.Location{City: "Lisbon", Country: "Portugal"})
	assert.Empty(t, result.Alerts)
	assert.NoError(t, result.Err)
}

type failingFetcher struct{ source string }

func (f *failingFetcher) Fetch(ctx context.Context, loc risk.Location) FetchResult {
	return FetchResult{Source: f.source, Err: context.DeadlineExceeded}
}

type staticFetcher struct {
	source string
	alerts []*risk.Alert
}

func (f *staticFetcher) Fetch(ctx context.Context, loc risk.Location) FetchResult {
	return FetchResult{Source: f.source, Alerts: f.alerts}
}

func TestRefresherAbsorbsFailures(t *testing.T) {
	ok := &staticFetcher{source: "static", alerts: []*risk.Alert{
		{ID: "a1", Severity: 5, Source: "static"},
	}}
	bad := &failingFetcher{source: "broken"}

	r := NewRefresher(ok, bad)
	alerts, failed := r.Refresh(context.Background(), risk.Location{City: "Beirut", Country: "Lebanon"})

	require.Len(t, alerts, 1)
	assert.Equal(t, []string{"broken"}, failed)
}

func TestRefresherEmptyWhenAllFail(t *testing.T) {
	r := NewRefresher(&failingFetcher{source: "a"}, &failingFetcher{source: "b"})
	alerts, failed := r.Refresh(context.Background(), risk.Location{})

	assert.Empty(t, alerts)
	assert.Equal(t, []string{"a", "b"}, failed)
}
