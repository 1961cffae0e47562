package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/scorecard/core"
	"github.com/huangsam/scorecard/core/algo"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/dataset"
	"github.com/huangsam/scorecard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// rankedPartner is the JSON shape of one ranking row.
type rankedPartner struct {
	PartnerID  int                `json:"partner_id"`
	Scores     map[string]float64 `json:"scores"`
	Attributes map[string]string  `json:"attributes,omitempty"`
}

// partnerThemes is the JSON shape of the loan theme listing.
type partnerThemes struct {
	PartnerID int                  `json:"partner_id"`
	Themes    []schema.LoanTheme   `json:"themes"`
	Ratings   []schema.RatingCount `json:"ratings"`
}

func (h *toolHandler) handleGetPartnerRanking(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("fields", ""); f != "" {
		fields, err := contract.ParseRankFields(f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid fields: %v", err)), nil
		}
		cfg.RankFields = fields
	}
	limit := request.GetInt("limit", cfg.ResultLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	table, err := core.LoadRanking(cfg, core.RankingOptions{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	records := table.Records
	if sortBy := request.GetString("sort_by", ""); sortBy != "" {
		if !table.HasColumn(sortBy) {
			return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", schema.FieldNotFound(sortBy))), nil
		}
		records = algo.RankRecords(records, sortBy, limit)
	} else if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	out := make([]rankedPartner, 0, len(records))
	for _, rec := range records {
		out = append(out, rankedPartner{PartnerID: rec.PartnerID, Scores: rec.Scores, Attributes: rec.Attributes})
	}
	return jsonResult(out)
}

func (h *toolHandler) handleGetScoringTable(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	partnerID := request.GetInt("partner_id", 0)
	if partnerID <= 0 {
		return mcp.NewToolResultError("invalid scoring parameters: partner_id must be a positive integer"), nil
	}
	component := request.GetString("component", string(schema.ImpactComponent))

	table, err := core.LoadRanking(cfg, core.RankingOptions{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	scoring, err := core.BuildScoringTable(table, partnerID, component)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring table failed: %v", err)), nil
	}

	return jsonResult(scoring)
}

func (h *toolHandler) handleGetLoanThemes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	partnerID := request.GetInt("partner_id", 0)
	if partnerID <= 0 {
		return mcp.NewToolResultError("invalid loan theme parameters: partner_id must be a positive integer"), nil
	}
	if cfg.LoanThemesFile == "" {
		return mcp.NewToolResultError("no loan themes file configured"), nil
	}

	themes, err := dataset.LoadLoanThemes(cfg.LoanThemesFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loan themes failed: %v", err)), nil
	}

	result := partnerThemes{
		PartnerID: partnerID,
		Themes:    core.PartnerLoanThemes(themes, partnerID),
		Ratings:   core.CountByResearchRating(themes, partnerID),
	}
	return jsonResult(result)
}

// jsonResult encodes data as an indented JSON tool result.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
