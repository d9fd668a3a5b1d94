package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the Safe-Passage MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAssessRisk = mcp.NewTool("assess_risk",
	mcp.WithDescription(
		"Assess the risk level (1-10) at a traveler's location based on active "+
			"emergency alerts. Returns the computed risk level plus the nearby alerts "+
			"that contributed to it. Use this before recommending or initiating a payout."),
	mcp.WithString("city",
		mcp.Required(),
		mcp.Description("City name, e.g. 'Istanbul'")),
	mcp.WithString("country",
		mcp.Required(),
		mcp.Description("Country name, e.g. 'Turkey'")),
	mcp.WithNumber("latitude",
		mcp.Required(),
		mcp.Description("Latitude in decimal degrees, e.g. 41.0082")),
	mcp.WithNumber("longitude",
		mcp.Required(),
		mcp.Description("Longitude in decimal degrees, e.g. 28.9784")),
)

var ToolListAlerts = mcp.NewTool("list_alerts",
	mcp.WithDescription(
		"List the currently active emergency alerts (political unrest, natural "+
			"disasters, payment disruptions, health emergencies, security threats) "+
			"with severity and location."),
)

var ToolGetRecommendations = mcp.NewTool("get_recommendations",
	mcp.WithDescription(
		"Rank emergency payout methods for a given risk level. Returns each method "+
			"with a 0-100 match score, live network condition, estimated arrival time, "+
			"fee, and a human-readable reason. The best match carries a 'Best Match' badge."),
	mcp.WithNumber("risk_level",
		mcp.Required(),
		mcp.Description("Risk level from a prior assess_risk call (1-10)")),
	mcp.WithArray("methods",
		mcp.Description("Optional subset of methods to rank. Defaults to all four."),
		mcp.Items(map[string]any{
			"type": "string",
			"enum": []string{"crypto_wallet", "wire_transfer", "cash_pickup", "mobile_money"},
		})),
)

var ToolInitiatePayout = mcp.NewTool("initiate_payout",
	mcp.WithDescription(
		"Start a simulated emergency payout to a traveler. Returns the new "+
			"transaction with its ID; poll check_payout to watch it advance through "+
			"the method's lifecycle. No real money moves."),
	mcp.WithString("method",
		mcp.Required(),
		mcp.Description("Payout method to use"),
		mcp.Enum("crypto_wallet", "wire_transfer", "cash_pickup", "mobile_money")),
	mcp.WithNumber("amount",
		mcp.Required(),
		mcp.Description("Amount to send, e.g. 250")),
	mcp.WithString("currency",
		mcp.Required(),
		mcp.Description("ISO 4217 currency code, e.g. 'USD'")),
	mcp.WithString("wallet_address",
		mcp.Description("Recipient wallet address for crypto_wallet payouts (0x...)")),
	mcp.WithString("recipient_name",
		mcp.Description("Recipient name for wire_transfer and cash_pickup payouts")),
	mcp.WithString("phone",
		mcp.Description("Recipient phone number for mobile_money payouts")),
)

var ToolCheckPayout = mcp.NewTool("check_payout",
	mcp.WithDescription(
		"Check the current status of a payout transaction. Each check advances the "+
			"simulated lifecycle, so repeated calls walk the transaction toward "+
			"completion. Returns status, progress, and confirmation details."),
	mcp.WithString("transaction_id",
		mcp.Required(),
		mcp.Description("The transaction ID from a previous initiate_payout result")),
)

var ToolGetNetworkEffects = mcp.NewTool("get_network_effects",
	mcp.WithDescription(
		"Get the simulated network condition for every payout method: congestion, "+
			"fee multipliers, delays, and availability. Optionally evaluate at a "+
			"specific chaos level without changing the stored one."),
	mcp.WithNumber("chaos_level",
		mcp.Description("Optional chaos level override (0 = calm, 10 = full crisis)")),
)

var ToolTriggerCrisis = mcp.NewTool("trigger_crisis",
	mcp.WithDescription(
		"Inject a severity-9 political unrest alert at a location for demo purposes. "+
			"Subsequent assess_risk calls near that location will report elevated risk."),
	mcp.WithString("city",
		mcp.Required(),
		mcp.Description("City name for the simulated crisis")),
	mcp.WithString("country",
		mcp.Required(),
		mcp.Description("Country name for the simulated crisis")),
	mcp.WithNumber("latitude",
		mcp.Required(),
		mcp.Description("Latitude in decimal degrees")),
	mcp.WithNumber("longitude",
		mcp.Required(),
		mcp.Description("Longitude in decimal degrees")),
)
