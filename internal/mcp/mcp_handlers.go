package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitmine/core"
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	clients core.Clients
}

func (h *toolHandler) handleAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.AuthorsReport)
}

func (h *toolHandler) handleFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.FilesReport)
}

func (h *toolHandler) handleFileAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.FileAuthorsReport)
}

func (h *toolHandler) handleCoupling(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.CouplingReport)
}

func (h *toolHandler) handleModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.ModulesReport)
}

func (h *toolHandler) handleBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runReports(ctx, request, schema.BranchesReport)
}

func (h *toolHandler) handleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kinds, err := parseReportKinds(request.GetString("reports", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.runReports(ctx, request, kinds...)
}

// runReports applies the request arguments to a copy of the base config and returns the
// requested reports as JSON. Tool failures become error results, never raw errors.
func (h *toolHandler) runReports(ctx context.Context, request mcp.CallToolRequest, kinds ...schema.ReportKind) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Reports = kinds

	bundle, err := core.GetReportBundle(core.WithSuppressHeader(ctx), cfg, h.mgr, h.clients)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	var payload any = bundle
	if len(kinds) == 1 {
		payload = singleReport(kinds[0], bundle)
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) configFor(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		root, err := h.clients.Git.GetRepoRoot(ctx, p)
		if err != nil {
			return nil, err
		}
		cfg.RepoPath = root
	}
	if a := request.GetString("after", ""); a != "" {
		after, err := contract.ParseTimeInput(a, time.Now())
		if err != nil {
			return nil, err
		}
		cfg.After = after
	}
	if f := request.GetString("filter", ""); f != "" {
		cfg.PathFilter = f
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	if d := request.GetInt("depth", -1); d >= 0 {
		cfg.Depth = d
	}
	return cfg, nil
}

// parseReportKinds splits a comma-separated list; an empty list means every report.
func parseReportKinds(s string) ([]schema.ReportKind, error) {
	if strings.TrimSpace(s) == "" {
		return schema.AllReportKinds, nil
	}
	var kinds []schema.ReportKind
	for part := range strings.SplitSeq(s, ",") {
		kind := schema.ReportKind(strings.TrimSpace(part))
		if _, ok := schema.ValidReportKinds[kind]; !ok {
			return nil, fmt.Errorf("unknown report %q", kind)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func singleReport(kind schema.ReportKind, bundle *schema.ReportBundle) any {
	switch kind {
	case schema.AuthorsReport:
		return bundle.Authors
	case schema.FilesReport:
		return bundle.Files
	case schema.FileAuthorsReport:
		return bundle.FileAuthors
	case schema.CouplingReport:
		return bundle.Coupling
	case schema.ModulesReport:
		return bundle.Modules
	default:
		return bundle.Branches
	}
}
