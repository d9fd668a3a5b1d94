package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for connecting to the Safe-Passage backend.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
	UserID string // Optional traveler ID, sent as X-User-ID
}

// SafePassageClient is a pure HTTP client for the Safe-Passage API.
type SafePassageClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewSafePassageClient creates a new client for the Safe-Passage backend.
func NewSafePassageClient(cfg Config) *SafePassageClient {
	return &SafePassageClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the backend.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the backend and returns the response body.
func (c *SafePassageClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.cfg.UserID != "" {
		req.Header.Set("X-User-ID", c.cfg.UserID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// locationBody builds the JSON location object shared by several endpoints.
func locationBody(city, country string, lat, lon float64) map[string]any {
	return map[string]any{
		"city":      city,
		"country":   country,
		"latitude":  lat,
		"longitude": lon,
	}
}

// AssessRisk scores a traveler location against the active alert set.
func (c *SafePassageClient) AssessRisk(ctx context.Context, city, country string, lat, lon float64) (json.RawMessage, error) {
	body := map[string]any{
		"location": locationBody(city, country, lat, lon),
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/risk", nil, body)
}

// ListAlerts returns the currently active risk alerts.
func (c *SafePassageClient) ListAlerts(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/alerts", nil, nil)
}

// GetRecommendations ranks payout methods for the given risk level.
func (c *SafePassageClient) GetRecommendations(ctx context.Context, riskLevel int, methods []string) (json.RawMessage, error) {
	body := map[string]any{
		"riskLevel": riskLevel,
	}
	if len(methods) > 0 {
		body["methods"] = methods
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/recommendations", nil, body)
}

// InitiatePayout starts an emergency payout via the chosen method.
func (c *SafePassageClient) InitiatePayout(ctx context.Context, method string, amount float64, currency string, recipient map[string]string) (json.RawMessage, error) {
	body := map[string]any{
		"method":   method,
		"amount":   amount,
		"currency": currency,
	}
	if len(recipient) > 0 {
		body["recipient"] = recipient
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/payouts", nil, body)
}

// CheckPayout returns the current state of a payout transaction.
func (c *SafePassageClient) CheckPayout(ctx context.Context, txID string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/payouts/"+txID, nil, nil)
}

// GetNetworkEffects returns per-method network conditions, optionally at a
// specific chaos level.
func (c *SafePassageClient) GetNetworkEffects(ctx context.Context, level int, hasLevel bool) (json.RawMessage, error) {
	var q url.Values
	if hasLevel {
		q = url.Values{}
		q.Set("level", strconv.Itoa(level))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/network/effects", q, nil)
}

// TriggerCrisis injects a severity-9 demo alert at the given location.
func (c *SafePassageClient) TriggerCrisis(ctx context.Context, city, country string, lat, lon float64) (json.RawMessage, error) {
	body := map[string]any{
		"location": locationBody(city, country, lat, lon),
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/alerts/crisis", nil, body)
}
