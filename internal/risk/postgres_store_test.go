package risk

import (
	"context"
	"testing"
	"time"

	"github.com/ankitlade12/SafePassage/internal/testutil"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)

	alert := &Alert{
		ID:               "pg_test_1",
		Location:         Location{City: "Istanbul", Country: "Turkey", Latitude: 41.0082, Longitude: 28.9784},
		Type:             TypePoliticalUnrest,
		Severity:         7,
		Source:           "GDELT",
		Timestamp:        time.Now().UTC().Truncate(time.Millisecond),
		Title:            "Protests reported",
		Description:      "Large gathering near the city center",
		AffectedRadiusKM: 100,
	}
	if err := store.Add(ctx, alert); err != nil {
		t.Fatalf("Add: %v", err)
	}

	alerts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	got := alerts[0]
	if got.ID != alert.ID || got.Severity != 7 || got.Location.Country != "Turkey" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestPostgresStoreReplaceAndClear(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)

	seed := []*Alert{
		{ID: "r1", Location: Location{City: "Kyiv", Country: "Ukraine", Latitude: 50.4501, Longitude: 30.5234}, Type: TypePoliticalUnrest, Severity: 9, Source: "U.S. State Department", Timestamp: time.Now(), Title: "Travel advisory", AffectedRadiusKM: 500},
		{ID: "r2", Location: Location{City: "Ankara", Country: "Turkey", Latitude: 39.9334, Longitude: 32.8597}, Type: TypeNaturalDisaster, Severity: 5, Source: "USGS", Timestamp: time.Now(), Title: "Earthquake: Magnitude 5.1", AffectedRadiusKM: 50},
	}
	if err := store.Replace(ctx, seed); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	alerts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts after Replace, got %d", len(alerts))
	}

	// Replace again with a single alert drops the old set wholesale.
	if err := store.Replace(ctx, seed[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	alerts, _ = store.List(ctx)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert after second Replace, got %d", len(alerts))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	alerts, _ = store.List(ctx)
	if len(alerts) != 0 {
		t.Fatalf("expected 0 alerts after Clear, got %d", len(alerts))
	}
}
