// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Scorecard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scorecard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_partner_ranking ---
	s.AddTool(mcp.NewTool("get_partner_ranking",
		mcp.WithDescription("Rank partners by impact scorecard fields with overall and regional percentiles."),
		mcp.WithString("sort_by", mcp.Description("Score column to sort by in descending order. Keeps file order when empty.")),
		mcp.WithString("fields", mcp.Description("Comma-separated score columns to rank (defaults to the configured fields).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of partners returned.")),
	), h.handleGetPartnerRanking)

	// --- 2. Tool: get_scoring_table ---
	s.AddTool(mcp.NewTool("get_scoring_table",
		mcp.WithDescription("Compare one partner's component scores against all partners and its region."),
		mcp.WithNumber("partner_id", mcp.Description("The partner identifier."), mcp.Required()),
		mcp.WithString("component", mcp.Description("Scorecard component. Defaults to 'Impact'."),
			mcp.Enum("Impact", "Targeting", "Product", "Process")),
	), h.handleGetScoringTable)

	// --- 3. Tool: get_loan_themes ---
	s.AddTool(mcp.NewTool("get_loan_themes",
		mcp.WithDescription("List a partner's loan themes with counts per research rating."),
		mcp.WithNumber("partner_id", mcp.Description("The partner identifier."), mcp.Required()),
	), h.handleGetLoanThemes)

	return s
}

// StartMCPServer starts the Scorecard MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
