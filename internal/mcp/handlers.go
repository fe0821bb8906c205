package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/finscore/finscore/core"
	"github.com/finscore/finscore/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the bundle source and profile arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("bundle_path", ""); p != "" {
		cfg.BundlePath = p
		cfg.Ticker = ""
	} else if t := request.GetString("ticker", ""); t != "" {
		cfg.BundlePath = ""
		cfg.Ticker = contract.NormalizeTicker(t)
	}
	if cfg.BundlePath == "" && cfg.Ticker == "" {
		return nil, fmt.Errorf("bundle_path or ticker is required")
	}
	if p := request.GetString("profile", ""); p != "" {
		cfg.Profile = p
	}
	return cfg, nil
}

func (h *toolHandler) handleScoreBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, _, err := core.GetScoreResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	return jsonResult(report), nil
}

func (h *toolHandler) handleCheckBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minScore, err := request.RequireFloat("min_score")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if minScore < 0 || minScore > 100 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: min_score must be between 0 and 100, got %v", minScore)), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, _, err := core.GetScoreResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	return jsonResult(core.NewCheckResult(report, minScore)), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lib, err := core.LoadLibrary(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading metric library failed: %v", err)), nil
	}

	return jsonResult(lib.All()), nil
}

// jsonResult renders v as indented JSON text, or a tool error when v cannot be encoded.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}
