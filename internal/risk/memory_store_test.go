package risk

import (
	"context"
	"testing"
)

func TestMemoryStoreAddList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alert := alertAt("Beirut", "Lebanon", 33.89, 35.50, 6, "BBC News")
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

	// Mutating the returned copy must not affect the store.
	alerts[0].Severity = 1
	again, _ := store.List(ctx)
	if again[0].Severity != 6 {
		t.Error("store returned a shared reference instead of a copy")
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Add(ctx, alertAt("Old", "Oldland", 0, 0, 3, "BBC News"))

	fresh := []*Alert{
		alertAt("New", "Newland", 1, 1, 5, "Reuters"),
		alertAt("New2", "Newland", 2, 2, 7, "Reuters"),
	}
	if err := store.Replace(ctx, fresh); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	alerts, _ := store.List(ctx)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts after replace, got %d", len(alerts))
	}
	for _, a := range alerts {
		if a.Location.Country == "Oldland" {
			t.Error("replace should discard existing alerts")
		}
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Add(ctx, alertAt("Beirut", "Lebanon", 33.89, 35.50, 6, "BBC News"))
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	alerts, _ := store.List(ctx)
	if len(alerts) != 0 {
		t.Errorf("expected empty store after clear, got %d", len(alerts))
	}
}
