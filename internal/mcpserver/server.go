package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all Safe-Passage tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("safepassage", "0.1.0")
	client := NewSafePassageClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAssessRisk, h.HandleAssessRisk)
	s.AddTool(ToolListAlerts, h.HandleListAlerts)
	s.AddTool(ToolGetRecommendations, h.HandleGetRecommendations)
	s.AddTool(ToolInitiatePayout, h.HandleInitiatePayout)
	s.AddTool(ToolCheckPayout, h.HandleCheckPayout)
	s.AddTool(ToolGetNetworkEffects, h.HandleGetNetworkEffects)
	s.AddTool(ToolTriggerCrisis, h.HandleTriggerCrisis)

	return s
}
