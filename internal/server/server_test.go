package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig returns a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		Env:             "development",
		LogLevel:        "error",
		GDELTBaseURL:    config.DefaultGDELTBaseURL,
		USGSFeedURL:     config.DefaultUSGSFeedURL,
		FeedTimeout:     time.Second,
		FeedsDisabled:   true, // no outbound fetches in tests
		AlertRadiusKM:   100,
		DefaultCurrency: "USD",
		MinPayout:       10,
		MaxPayout:       50000,
	}
}

// newTestServer creates a server with in-memory stores and feeds disabled
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Health endpoint tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/live", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestReadinessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/ready", nil)
	s.router.ServeHTTP(w, req)

	// Server hasn't called Run() so ready is false
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 (not ready), got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Route registration tests
// ---------------------------------------------------------------------------

func TestCoreRoutesRegistered(t *testing.T) {
	s := newTestServer(t)

	routes := s.router.Routes()
	expected := []string{
		"GET:/health",
		"GET:/health/live",
		"GET:/health/ready",
		"GET:/metrics",
		"GET:/ws",
		"POST:/v1/risk",
		"GET:/v1/alerts",
		"POST:/v1/alerts/refresh",
		"POST:/v1/alerts/crisis",
		"DELETE:/v1/alerts",
		"POST:/v1/recommendations",
		"GET:/v1/network/effects",
		"PUT:/v1/network/chaos",
		"POST:/v1/payouts",
		"GET:/v1/payouts",
		"GET:/v1/payouts/:id",
		"GET:/v1/payouts/:id/progress",
		"GET:/v1/methods/:method",
		"GET:/v1/profile",
		"PUT:/v1/profile",
		"POST:/v1/guardian/checkin",
		"GET:/v1/guardian/status",
		"POST:/v1/offline/codes",
		"GET:/v1/offline/partners",
		"GET:/v1/currency/convert",
	}

	routeSet := make(map[string]bool)
	for _, route := range routes {
		routeSet[route.Method+":"+route.Path] = true
	}

	for _, e := range expected {
		if !routeSet[e] {
			t.Errorf("Core route %s not registered", e)
		}
	}
}

// ---------------------------------------------------------------------------
// End-to-end flow tests
// ---------------------------------------------------------------------------

func TestSeededAlertsServed(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/alerts", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Count == 0 {
		t.Error("Expected seeded demo alerts in memory mode")
	}
}

func TestRiskAssessmentFlow(t *testing.T) {
	s := newTestServer(t)

	body := `{"location":{"city":"Istanbul","country":"Turkey","latitude":41.0082,"longitude":28.9784}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/risk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RiskLevel int `json:"riskLevel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.RiskLevel < 1 || resp.RiskLevel > 10 {
		t.Errorf("Risk level %d out of range", resp.RiskLevel)
	}
}

func TestPayoutFlow(t *testing.T) {
	s := newTestServer(t)

	body := `{"method":"mobile_money","amount":250,"currency":"USD"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/payouts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Transaction struct {
			ID string `json:"id"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Transaction.ID == "" {
		t.Fatal("Expected transaction ID in response")
	}

	// Status check round trip
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/v1/payouts/"+resp.Transaction.ID, nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for status check, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRefreshWithFeedsDisabled(t *testing.T) {
	s := newTestServer(t)

	body := `{"location":{"city":"Istanbul","country":"Turkey","latitude":41.0082,"longitude":28.9784}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/alerts/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 with feeds disabled, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected security headers on responses")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

// ---------------------------------------------------------------------------
// 404 test
// ---------------------------------------------------------------------------

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/nonexistent", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
