//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// git runs a git command inside dir with a fixed identity and clock.
func git(t *testing.T, dir string, date string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Ann", "GIT_AUTHOR_EMAIL=ann@example.com",
		"GIT_COMMITTER_NAME=Ann", "GIT_COMMITTER_EMAIL=ann@example.com",
		"GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// writeLines writes n numbered lines to dir/name.
func writeLines(t *testing.T, dir, name string, n int) {
	t.Helper()
	var sb strings.Builder
	for i := range n {
		sb.WriteString("line " + strconv.Itoa(i) + "\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
}

// newFixtureRepo builds a small repository with one rename.
func newFixtureRepo(t *testing.T) string {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	git(t, dir, "2024-01-01T10:00:00Z", "init", "-q", "-b", "main")

	writeLines(t, dir, "src/a.go", 10)
	writeLines(t, dir, "README.md", 3)
	git(t, dir, "2024-01-01T10:00:00Z", "add", ".")
	git(t, dir, "2024-01-01T10:00:00Z", "commit", "-q", "-m", "first")

	writeLines(t, dir, "src/a.go", 15)
	git(t, dir, "2024-01-02T10:00:00Z", "commit", "-q", "-am", "second")

	git(t, dir, "2024-01-03T10:00:00Z", "mv", "README.md", "docs/README.md")
	git(t, dir, "2024-01-03T10:00:00Z", "commit", "-q", "-m", "move readme")
	return dir
}

// TestFilesReportMatchesGit compares file commit counts with git log.
func TestFilesReportMatchesGit(t *testing.T) {
	dir := newFixtureRepo(t)

	out, err := runGitmine(t, dir, "files", "--no-cloc", "--cache-backend", "none", "--output", "json")
	require.NoError(t, err)

	var files []schema.FileChurn
	require.NoError(t, json.Unmarshal(out, &files))
	require.NotEmpty(t, files)

	byPath := make(map[string]schema.FileChurn, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	// src/a.go never moved, so git log agrees with the report
	gitCommits := strings.Split(git(t, dir, "2024-01-04T00:00:00Z", "log", "--all", "--oneline", "--", "src/a.go"), "\n")
	assert.Equal(t, len(gitCommits), byPath["src/a.go"].Commits)
	assert.Equal(t, 15, byPath["src/a.go"].LinesAdded)
	assert.Equal(t, 0, byPath["src/a.go"].LinesDeleted)

	// The rename folds the old README history into the new path
	readme, ok := byPath["docs/README.md"]
	require.True(t, ok)
	assert.Equal(t, 2, readme.Commits)
	_, ok = byPath["README.md"]
	assert.False(t, ok)
}

// TestReportCommandEmitsAllKinds runs the multi-report command.
func TestReportCommandEmitsAllKinds(t *testing.T) {
	dir := newFixtureRepo(t)

	out, err := runGitmine(t, dir, "report", "--no-cloc", "--cache-backend", "none", "--output", "json",
		"--reports", "authors,files,branches")
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Contains(t, doc, "authors")
	assert.Contains(t, doc, "files")
	assert.Contains(t, doc, "branches")

	var authors []schema.AuthorChurn
	require.NoError(t, json.Unmarshal(doc["authors"], &authors))
	require.Len(t, authors, 1)
	assert.Equal(t, "Ann", authors[0].AuthorName)
	assert.Equal(t, 3, authors[0].Commits)
}

// TestVersionCommand checks the version banner.
func TestVersionCommand(t *testing.T) {
	out, err := exec.Command(getGitmineBinary(), "version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "gitmine CLI")
}
