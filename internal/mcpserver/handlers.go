package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *SafePassageClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *SafePassageClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAssessRisk scores a location against the active alerts.
func (h *Handlers) HandleAssessRisk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city := req.GetString("city", "")
	if city == "" {
		return mcp.NewToolResultError("city is required"), nil
	}
	country := req.GetString("country", "")
	if country == "" {
		return mcp.NewToolResultError("country is required"), nil
	}
	lat := req.GetFloat("latitude", 0)
	lon := req.GetFloat("longitude", 0)

	raw, err := h.client.AssessRisk(ctx, city, country, lat, lon)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to assess risk: %v", err)), nil
	}

	text, err := formatAssessment(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse assessment: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleListAlerts lists the active alerts.
func (h *Handlers) HandleListAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListAlerts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list alerts: %v", err)), nil
	}

	text, err := formatAlertList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse alerts: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetRecommendations ranks payout methods for a risk level.
func (h *Handlers) HandleGetRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	riskLevel := req.GetInt("risk_level", 0)
	if riskLevel < 1 || riskLevel > 10 {
		return mcp.NewToolResultError("risk_level must be between 1 and 10"), nil
	}

	var methods []string
	if raw := req.GetArguments()["methods"]; raw != nil {
		arr, ok := raw.([]any)
		if ok && len(arr) == 0 {
			return mcp.NewToolResultError("methods must not be empty when provided"), nil
		}
		for _, v := range arr {
			if s, ok := v.(string); ok {
				methods = append(methods, s)
			}
		}
	}

	raw, err := h.client.GetRecommendations(ctx, riskLevel, methods)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get recommendations: %v", err)), nil
	}

	text, err := formatRecommendations(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse recommendations: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleInitiatePayout starts a simulated payout.
func (h *Handlers) HandleInitiatePayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	method := req.GetString("method", "")
	if method == "" {
		return mcp.NewToolResultError("method is required"), nil
	}
	amount := req.GetFloat("amount", 0)
	if amount <= 0 {
		return mcp.NewToolResultError("amount must be greater than zero"), nil
	}
	currency := req.GetString("currency", "")
	if currency == "" {
		return mcp.NewToolResultError("currency is required"), nil
	}

	recipient := map[string]string{}
	if v := req.GetString("wallet_address", ""); v != "" {
		recipient["walletAddress"] = v
	}
	if v := req.GetString("recipient_name", ""); v != "" {
		recipient["name"] = v
	}
	if v := req.GetString("phone", ""); v != "" {
		recipient["phone"] = v
	}

	raw, err := h.client.InitiatePayout(ctx, method, amount, currency, recipient)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to initiate payout: %v", err)), nil
	}

	tx, err := extractTransaction(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse transaction: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Payout initiated.\n"+
			"Transaction ID: %s\n"+
			"Method: %s\n"+
			"Amount: %.2f %s\n"+
			"Status: %s\n\n"+
			"Use check_payout with this transaction_id to track progress.",
		tx.ID, tx.Method, tx.Amount, tx.Currency, tx.Status)), nil
}

// HandleCheckPayout reports and advances a payout's lifecycle.
func (h *Handlers) HandleCheckPayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	txID := req.GetString("transaction_id", "")
	if txID == "" {
		return mcp.NewToolResultError("transaction_id is required"), nil
	}

	raw, err := h.client.CheckPayout(ctx, txID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to check payout: %v", err)), nil
	}

	tx, err := extractTransaction(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse transaction: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transaction %s\n", tx.ID)
	fmt.Fprintf(&sb, "Method: %s\n", tx.Method)
	fmt.Fprintf(&sb, "Amount: %.2f %s\n", tx.Amount, tx.Currency)
	fmt.Fprintf(&sb, "Status: %s\n", tx.Status)
	if tx.ConfirmationCode != "" {
		fmt.Fprintf(&sb, "Confirmation: %s\n", tx.ConfirmationCode)
	}
	if tx.EstimatedArrival != "" {
		fmt.Fprintf(&sb, "Estimated arrival: %s\n", tx.EstimatedArrival)
	}
	if tx.CompletedAt != "" {
		fmt.Fprintf(&sb, "Completed at: %s\n", tx.CompletedAt)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleGetNetworkEffects returns per-method network conditions.
func (h *Handlers) HandleGetNetworkEffects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := req.GetInt("chaos_level", -1)
	hasLevel := level >= 0

	raw, err := h.client.GetNetworkEffects(ctx, level, hasLevel)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get network effects: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleTriggerCrisis injects a demo crisis alert.
func (h *Handlers) HandleTriggerCrisis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city := req.GetString("city", "")
	if city == "" {
		return mcp.NewToolResultError("city is required"), nil
	}
	country := req.GetString("country", "")
	if country == "" {
		return mcp.NewToolResultError("country is required"), nil
	}
	lat := req.GetFloat("latitude", 0)
	lon := req.GetFloat("longitude", 0)

	raw, err := h.client.TriggerCrisis(ctx, city, country, lat, lon)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to trigger crisis: %v", err)), nil
	}

	var resp struct {
		Alert struct {
			ID       string `json:"id"`
			Severity int    `json:"severity"`
			Title    string `json:"title"`
		} `json:"alert"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Alert.ID == "" {
		return mcp.NewToolResultText(formatJSON(raw)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Crisis alert injected at %s, %s.\n"+
			"Alert ID: %s\n"+
			"Severity: %d\n"+
			"Title: %s\n\n"+
			"Run assess_risk at this location to see the elevated risk level.",
		city, country, resp.Alert.ID, resp.Alert.Severity, resp.Alert.Title)), nil
}

// --- Formatting helpers ---

func formatAssessment(raw json.RawMessage) (string, error) {
	var resp struct {
		Location struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"location"`
		RiskLevel    int `json:"riskLevel"`
		NearbyAlerts []struct {
			Type     string `json:"type"`
			Severity int    `json:"severity"`
			Title    string `json:"title"`
			Source   string `json:"source"`
		} `json:"nearbyAlerts"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk assessment for %s, %s\n", resp.Location.City, resp.Location.Country)
	fmt.Fprintf(&sb, "Risk level: %d/10 (%s)\n", resp.RiskLevel, riskLabel(resp.RiskLevel))

	if len(resp.NearbyAlerts) == 0 {
		sb.WriteString("No alerts nearby.")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "\n%d nearby alert(s):\n", len(resp.NearbyAlerts))
	for i, a := range resp.NearbyAlerts {
		fmt.Fprintf(&sb, "%d. [severity %d] %s (%s, via %s)\n", i+1, a.Severity, a.Title, a.Type, a.Source)
	}
	return sb.String(), nil
}

func riskLabel(level int) string {
	switch {
	case level >= 8:
		return "severe"
	case level >= 5:
		return "elevated"
	case level >= 3:
		return "moderate"
	default:
		return "low"
	}
}

func formatAlertList(raw json.RawMessage) (string, error) {
	var resp struct {
		Alerts []struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Severity int    `json:"severity"`
			Title    string `json:"title"`
			Source   string `json:"source"`
			Location struct {
				City    string `json:"city"`
				Country string `json:"country"`
			} `json:"location"`
		} `json:"alerts"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	if len(resp.Alerts) == 0 {
		return "No active alerts.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d active alert(s):\n\n", len(resp.Alerts))
	for i, a := range resp.Alerts {
		fmt.Fprintf(&sb, "%d. [severity %d] %s\n", i+1, a.Severity, a.Title)
		fmt.Fprintf(&sb, "   %s in %s, %s (via %s)\n", a.Type, a.Location.City, a.Location.Country, a.Source)
		if i < len(resp.Alerts)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func formatRecommendations(raw json.RawMessage) (string, error) {
	var resp struct {
		RiskLevel       int `json:"riskLevel"`
		Recommendations []struct {
			Method        string   `json:"method"`
			MatchScore    int      `json:"matchScore"`
			EstimatedTime string   `json:"estimatedTime"`
			EstimatedFee  string   `json:"estimatedFee"`
			Badges        []string `json:"badges"`
			Reason        string   `json:"reason"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	if len(resp.Recommendations) == 0 {
		return "No payout methods available.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Payout recommendations at risk level %d:\n\n", resp.RiskLevel)
	for i, r := range resp.Recommendations {
		fmt.Fprintf(&sb, "%d. %s (score %d/100)\n", i+1, r.Method, r.MatchScore)
		fmt.Fprintf(&sb, "   ETA: %s | Fee: %s\n", r.EstimatedTime, r.EstimatedFee)
		if len(r.Badges) > 0 {
			fmt.Fprintf(&sb, "   Badges: %s\n", strings.Join(r.Badges, ", "))
		}
		if r.Reason != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Reason)
		}
		if i < len(resp.Recommendations)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

type transactionInfo struct {
	ID               string  `json:"id"`
	Method           string  `json:"method"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	ConfirmationCode string  `json:"confirmationCode"`
	EstimatedArrival string  `json:"estimatedArrival"`
	CompletedAt      string  `json:"completedAt"`
}

func extractTransaction(raw json.RawMessage) (transactionInfo, error) {
	var resp struct {
		Transaction transactionInfo `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return transactionInfo{}, err
	}
	if resp.Transaction.ID == "" {
		return transactionInfo{}, fmt.Errorf("no transaction in response: %s", string(raw))
	}
	return resp.Transaction, nil
}

func formatJSON(raw json.RawMessage) string {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
