package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ankitlade12/SafePassage/internal/payout"
	"github.com/ankitlade12/SafePassage/internal/risk"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	event := &Event{Type: EventPayoutInitiated, Timestamp: time.Now()}
	if !h.shouldSend(client, event) {
		t.Error("AllEvents client should receive all events")
	}
}

func TestShouldSend_EventTypeFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		EventTypes: []EventType{EventPayoutInitiated, EventPayoutStatusChanged},
	}}

	initiated := &Event{Type: EventPayoutInitiated}
	changed := &Event{Type: EventPayoutStatusChanged}
	alert := &Event{Type: EventAlertCreated}

	if !h.shouldSend(client, initiated) {
		t.Error("Should receive payout.initiated events")
	}
	if !h.shouldSend(client, changed) {
		t.Error("Should receive payout.status_changed events")
	}
	if h.shouldSend(client, alert) {
		t.Error("Should NOT receive alert.created events")
	}
}

func TestShouldSend_MethodFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Methods: []string{"crypto"},
	}}

	matching := &Event{
		Type: EventPayoutInitiated,
		Data: map[string]interface{}{"method": "crypto", "amount": 100.0},
	}
	notMatching := &Event{
		Type: EventPayoutInitiated,
		Data: map[string]interface{}{"method": "wire", "amount": 100.0},
	}

	if !h.shouldSend(client, matching) {
		t.Error("Should match on payout method")
	}
	if h.shouldSend(client, notMatching) {
		t.Error("Should NOT match other methods")
	}
}

func TestShouldSend_MinSeverityFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		MinSeverity: 7,
	}}

	severe := &Event{
		Type: EventAlertCreated,
		Data: map[string]interface{}{"severity": 9},
	}
	mild := &Event{
		Type: EventAlertCreated,
		Data: map[string]interface{}{"severity": 3},
	}
	payoutEvent := &Event{
		Type: EventPayoutInitiated,
		Data: map[string]interface{}{"amount": 50.0},
	}

	if !h.shouldSend(client, severe) {
		t.Error("Should receive severe alert")
	}
	if h.shouldSend(client, mild) {
		t.Error("Should NOT receive mild alert")
	}
	if !h.shouldSend(client, payoutEvent) {
		t.Error("MinSeverity filter should only apply to alerts")
	}
}

func TestShouldSend_MinAmountFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		MinAmount: 100.0,
	}}

	large := &Event{
		Type: EventPayoutInitiated,
		Data: map[string]interface{}{"amount": 500.0},
	}
	small := &Event{
		Type: EventPayoutInitiated,
		Data: map[string]interface{}{"amount": 50.0},
	}
	alert := &Event{
		Type: EventAlertCreated,
		Data: map[string]interface{}{"severity": 5},
	}

	if !h.shouldSend(client, large) {
		t.Error("Should receive large payout")
	}
	if h.shouldSend(client, small) {
		t.Error("Should NOT receive small payout")
	}
	if !h.shouldSend(client, alert) {
		t.Error("MinAmount filter should not apply to alerts")
	}
}

func TestShouldSend_EmptySubscription(t *testing.T) {
	h := testHub()

	// No filters, not AllEvents
	client := &Client{sub: Subscription{}}

	event := &Event{Type: EventPayoutInitiated}
	if !h.shouldSend(client, event) {
		t.Error("Empty subscription (no filters) should receive events")
	}
}

func TestShouldSend_NonMapData(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Methods: []string{"crypto"},
	}}

	// Event with non-map data should not crash
	event := &Event{
		Type: EventPayoutInitiated,
		Data: "string data not a map",
	}

	// Method filter skips non-map data, so event passes through
	if !h.shouldSend(client, event) {
		t.Error("Non-map data should pass through when method filter can't extract method")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle tests
// ---------------------------------------------------------------------------

func TestHub_Stats_Initial(t *testing.T) {
	h := testHub()

	stats := h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients, got %v", stats["connectedClients"])
	}
	if stats["totalEvents"].(int64) != 0 {
		t.Errorf("Expected 0 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_BroadcastAndStats(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	h.Broadcast(&Event{Type: EventPayoutInitiated, Timestamp: time.Now()})
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 1 {
		t.Errorf("Expected 1 total event, got %v", stats["totalEvents"])
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["connectedClients"].(int) != 1 {
		t.Errorf("Expected 1 connected client, got %v", stats["connectedClients"])
	}
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak 1, got %v", stats["peakClients"])
	}

	h.unregister <- client
	time.Sleep(50 * time.Millisecond)

	stats = h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients after unregister, got %v", stats["connectedClients"])
	}
	// Peak should still be 1
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak still 1, got %v", stats["peakClients"])
	}
}

func TestHub_BroadcastToClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.Broadcast(&Event{
		Type:      EventPayoutInitiated,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"amount": 250.0},
	})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestHub_AlertCreatedEvent(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.AlertCreated(&risk.Alert{
		ID:       "crisis_1",
		Type:     risk.TypePoliticalUnrest,
		Severity: 9,
		Location: risk.Location{City: "Istanbul", Country: "Turkey", Latitude: 41.0082, Longitude: 28.9784},
		Title:    "Civil unrest reported",
		Source:   "Manual Trigger",
	})

	select {
	case msg := <-client.send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		if event.Type != EventAlertCreated {
			t.Errorf("Expected %s, got %s", EventAlertCreated, event.Type)
		}
		if !strings.Contains(string(msg), "crisis_1") {
			t.Error("Event payload should include the alert ID")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for alert event")
	}
}

func TestHub_PayoutEvents(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Should not panic
	tx := &payout.Transaction{
		ID:       "WIRE123456",
		Method:   payout.MethodWire,
		Status:   payout.StatusPending,
		Amount:   1000,
		Currency: "USD",
	}
	h.PayoutInitiated(tx)
	h.PayoutStatusChanged(tx)
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 2 {
		t.Errorf("Expected 2 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_ContextCancellation(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		// Hub stopped
	case <-time.After(2 * time.Second):
		t.Error("Hub did not stop after context cancellation")
	}
}

func TestHub_FilteredBroadcast(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Client only wants alerts
	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{EventTypes: []EventType{EventAlertCreated}},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	// Send a payout event (should be filtered out)
	h.Broadcast(&Event{Type: EventPayoutInitiated, Timestamp: time.Now()})
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.send:
		t.Error("Client should NOT receive payout event")
	default:
		// Good - filtered out
	}

	// Send an alert event (should be received)
	h.Broadcast(&Event{Type: EventAlertCreated, Timestamp: time.Now()})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for alert event")
	}
}
