// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitmine/core"
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// commonOptions are the arguments every report tool accepts.
func commonOptions(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("after", mcp.Description("Only count commits from this point on (e.g. '2024-01-01' or '6 months ago').")),
		mcp.WithString("filter", mcp.Description("Only count files under this path prefix.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	}
	return append(opts, extra...)
}

// NewMCPServer initializes and configures the gitmine MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, clients core.Clients) *server.MCPServer {
	s := server.NewMCPServer(
		"gitmine Repository Mining Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		clients: clients,
	}

	// --- 1. Tool: get_author_churn ---
	s.AddTool(mcp.NewTool("get_author_churn",
		append([]mcp.ToolOption{mcp.WithDescription("Rank authors by lines added plus deleted across the history.")}, commonOptions()...)...,
	), h.handleAuthors)

	// --- 2. Tool: get_file_churn ---
	s.AddTool(mcp.NewTool("get_file_churn",
		append([]mcp.ToolOption{mcp.WithDescription("Rank files by churn, with commit counts, line counts and creation dates.")}, commonOptions()...)...,
	), h.handleFiles)

	// --- 3. Tool: get_file_authors ---
	s.AddTool(mcp.NewTool("get_file_authors",
		append([]mcp.ToolOption{mcp.WithDescription("Rank files by the number of distinct authors that touched them.")}, commonOptions()...)...,
	), h.handleFileAuthors)

	// --- 4. Tool: get_file_coupling ---
	s.AddTool(mcp.NewTool("get_file_coupling",
		append([]mcp.ToolOption{mcp.WithDescription("Find pairs of files that tend to change in the same commits.")},
			commonOptions(mcp.WithNumber("depth", mcp.Description("Only couple files among the top N commit counts.")))...)...,
	), h.handleCoupling)

	// --- 5. Tool: get_module_churn ---
	s.AddTool(mcp.NewTool("get_module_churn",
		append([]mcp.ToolOption{mcp.WithDescription("Roll file churn up into every folder of the repository.")}, commonOptions()...)...,
	), h.handleModules)

	// --- 6. Tool: get_branch_tips ---
	s.AddTool(mcp.NewTool("get_branch_tips",
		append([]mcp.ToolOption{mcp.WithDescription("Summarize live branch tips and merges per day.")}, commonOptions()...)...,
	), h.handleBranches)

	// --- 7. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		append([]mcp.ToolOption{mcp.WithDescription("Compute several reports in one pass over the history.")},
			commonOptions(
				mcp.WithString("reports", mcp.Description("Comma-separated report names (authors, files, file-authors, coupling, modules, branches). Defaults to all.")),
				mcp.WithNumber("depth", mcp.Description("Coupling depth.")),
			)...)...,
	), h.handleReport)

	return s
}

// StartMCPServer starts the gitmine MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr, core.LocalClients())
	return server.ServeStdio(s)
}
