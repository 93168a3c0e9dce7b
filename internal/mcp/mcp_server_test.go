package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/gitmine/core"
	"github.com/huangsam/gitmine/internal/contract"
	mcp_internal "github.com/huangsam/gitmine/internal/mcp"
	"github.com/huangsam/gitmine/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testLog = "§§§aaa1111§§§2021-03-01T10:00:00Z§§§ann§§§ann§§§2021-03-01T10:00:00Z§§§first§§§\n" +
	"5\t3\tsrc/a.go\n" +
	"4\t2\tsrc/b.go\n" +
	"\n" +
	"§§§bbb2222§§§2021-03-02T10:00:00Z§§§bob§§§bob§§§2021-03-02T10:00:00Z§§§second§§§aaa1111\n" +
	"3\t1\tsrc/a.go\n"

func newServer(t *testing.T) (*contract.MockGitClient, func(name string, args map[string]any) *mcp.CallToolResult) {
	t.Helper()
	baseCfg := &contract.Config{
		RepoPath:    "/repo",
		Separator:   "§§§",
		Depth:       10,
		ResultLimit: 25,
		NoCloc:      true,
	}
	git := &contract.MockGitClient{}
	git.On("GetCommitLog", mock.Anything, "/repo", mock.Anything, time.Time{}, time.Time{}).Return([]byte(testLog), nil).Maybe()

	// A nil manager disables both stores
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr, core.Clients{Git: git})

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
		req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		return res
	}
	return git, call
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerReportTools(t *testing.T) {
	_, call := newServer(t)

	t.Run("get_author_churn", func(t *testing.T) {
		res := call("get_author_churn", map[string]any{})
		require.False(t, res.IsError, resultText(res))

		var rows []schema.AuthorChurn
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "ann", rows[0].AuthorName)
		assert.Equal(t, 14, rows[0].LinesAddDel)
	})

	t.Run("get_file_churn with limit", func(t *testing.T) {
		res := call("get_file_churn", map[string]any{"limit": 1.0})
		require.False(t, res.IsError, resultText(res))

		var rows []schema.FileChurn
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "src/a.go", rows[0].Path)
	})

	t.Run("get_file_coupling", func(t *testing.T) {
		res := call("get_file_coupling", map[string]any{"depth": 0.0})
		require.False(t, res.IsError, resultText(res))

		var rows []schema.CouplingEntry
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
		assert.Len(t, rows, 2)
	})

	t.Run("get_report subset", func(t *testing.T) {
		res := call("get_report", map[string]any{"reports": "modules, branches"})
		require.False(t, res.IsError, resultText(res))

		var bundle schema.ReportBundle
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &bundle))
		assert.NotEmpty(t, bundle.Modules)
		assert.Len(t, bundle.Branches, 2)
		assert.Empty(t, bundle.Authors)
	})

	t.Run("after cutoff", func(t *testing.T) {
		res := call("get_file_authors", map[string]any{"after": "2021-03-02"})
		require.False(t, res.IsError, resultText(res))

		var rows []schema.FileAuthors
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "src/a.go", rows[0].Path)
		assert.Equal(t, 1, rows[0].AuthorsCount)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	git, call := newServer(t)
	git.On("GetRepoRoot", mock.Anything, "/not/a/repo").Return("", errors.New("not a git repository"))

	testCases := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
	}{
		{"unknown report", "get_report", map[string]any{"reports": "files,hotspots"}, `unknown report "hotspots"`},
		{"bad after", "get_branch_tips", map[string]any{"after": "someday"}, "invalid parameters"},
		{"bad repo", "get_module_churn", map[string]any{"repo_path": "/not/a/repo"}, "not a git repository"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := call(tc.tool, tc.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tc.expected)
		})
	}
}

func TestMCPServerDoesNotMutateBaseConfig(t *testing.T) {
	baseCfg := &contract.Config{RepoPath: "/repo", Separator: "§§§", ResultLimit: 25, NoCloc: true}
	git := &contract.MockGitClient{}
	git.On("GetCommitLog", mock.Anything, "/repo", mock.Anything, time.Time{}, time.Time{}).Return([]byte(testLog), nil)
	s := mcp_internal.NewMCPServer(baseCfg, nil, core.Clients{Git: git})

	tool := s.GetTool("get_file_churn")
	require.NotNil(t, tool)
	_, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "get_file_churn", Arguments: map[string]any{"limit": 1.0, "filter": "src/"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, baseCfg.ResultLimit)
	assert.Empty(t, baseCfg.PathFilter)
}
