// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/finscore/finscore/internal/contract"
)

// NewMCPServer initializes and configures the scoring MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Financial Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: score_bundle ---
	s.AddTool(mcp.NewTool("score_bundle",
		mcp.WithDescription("Score a company's financial statements against a scoring profile."),
		mcp.WithString("bundle_path", mcp.Description("Path to a statement bundle document (JSON or YAML).")),
		mcp.WithString("ticker", mcp.Description("Ticker to read from the statement store when no bundle_path is given.")),
		mcp.WithString("profile", mcp.Description("Scoring profile name. Defaults to 'default'.")),
	), h.handleScoreBundle)

	// --- 2. Tool: check_bundle ---
	s.AddTool(mcp.NewTool("check_bundle",
		mcp.WithDescription("Check whether a company's score percentage meets a minimum."),
		mcp.WithNumber("min_score", mcp.Description("Minimum score percentage (0-100)."), mcp.Required()),
		mcp.WithString("bundle_path", mcp.Description("Path to a statement bundle document (JSON or YAML).")),
		mcp.WithString("ticker", mcp.Description("Ticker to read from the statement store when no bundle_path is given.")),
		mcp.WithString("profile", mcp.Description("Scoring profile name.")),
	), h.handleCheckBundle)

	// --- 3. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the metrics of the configured library with their formulas."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the scoring MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
