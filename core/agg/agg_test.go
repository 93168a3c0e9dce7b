package agg

import (
	"context"
	_ "embed"
	"testing"
	"time"

	"github.com/huangsam/gitmine/core/gitlog"
	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/git_log_three_commits.txt
var gitLogThreeCommits []byte

// parseFixture decodes an embedded log fixture into commits.
func parseFixture(t *testing.T, data []byte) []schema.Commit {
	t.Helper()
	commits, err := gitlog.ParseBytes(context.Background(), data, gitlog.DefaultSeparator)
	require.NoError(t, err)
	return commits
}

// day returns noon UTC of the given date.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestThreeCommitScenario(t *testing.T) {
	commits := parseFixture(t, gitLogThreeCommits)
	require.Len(t, commits, 3)

	authors, err := AuthorChurn(gitlog.FromSlice(commits), time.Time{})
	require.NoError(t, err)
	assert.Len(t, authors, 3)
	assert.Equal(t, "Picci-1", authors[0].AuthorName) // 14 lines of churn

	files, err := FileChurn(FlattenCommits(gitlog.FromSlice(commits)), time.Time{})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "file-1.txt", files[0].Path)
	assert.Equal(t, 3, files[0].Commits)
	assert.Equal(t, 10, files[0].LinesAdded)
	assert.Equal(t, 4, files[0].LinesDeleted)
	assert.Equal(t, 14, files[0].LinesAddDel)
	assert.True(t, files[0].Created.Equal(time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, "file-2.txt", files[1].Path)
	assert.Equal(t, 2, files[1].Commits)
	assert.Equal(t, 7, files[1].LinesAddDel)

	modules := ModuleChurn(files)
	require.Len(t, modules, 1)
	assert.Equal(t, schema.ModuleChurn{
		Module: ".", NumFiles: 2, LinesAdded: 15, LinesDeleted: 6, LinesAddDel: 21, Created: files[0].Created,
	}, modules[0])

	fileAuthors, err := FileAuthors(FlattenCommits(gitlog.FromSlice(commits)), time.Time{})
	require.NoError(t, err)
	require.Len(t, fileAuthors, 2)
	assert.Equal(t, "file-1.txt", fileAuthors[0].Path)
	assert.Equal(t, 3, fileAuthors[0].AuthorsCount)
	assert.Equal(t, 2, fileAuthors[1].AuthorsCount)

	coupling, err := FileCoupling(gitlog.FromSlice(commits), time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, coupling, 2)
	// file-2 appears in 2 commits, both with file-1
	assert.Equal(t, "file-1.txt", coupling[0].File)
	assert.Equal(t, 100.0, coupling[0].HowManyTimesVsTotCommits)
	assert.Equal(t, 66.67, coupling[1].HowManyTimesVsTotCommits)

	branches, err := BranchTips(gitlog.FromSlice(commits))
	require.NoError(t, err)
	require.Len(t, branches, 3)
	assert.Equal(t, []string{"aaa1111"}, branches[0].BranchTips)
	assert.Equal(t, 1, branches[0].DeltaBranchTips)
	assert.Equal(t, 0, branches[1].DeltaBranchTips)
	assert.Equal(t, 1, branches[2].NumberOfCommitsWithNoFutureChildren)
}

func TestRound2(t *testing.T) {
	testCases := []struct {
		in       float64
		expected float64
	}{
		{30, 30},
		{200.0 / 3, 66.67},
		{100.0 / 3, 33.33},
		{0.005, 0.01},
		{0, 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Round2(tc.in))
	}
}

func TestCutoffHelpers(t *testing.T) {
	after := day(2021, 1, 1)

	assert.False(t, beforeCutoff(after, after), "inclusive bound keeps the boundary")
	assert.True(t, beforeCutoff(after.Add(-time.Second), after))
	assert.False(t, beforeCutoff(after.Add(-time.Hour), time.Time{}))

	assert.True(t, notAfterCutoff(after, after), "strict bound drops the boundary")
	assert.False(t, notAfterCutoff(after.Add(time.Second), after))
	assert.False(t, notAfterCutoff(after.Add(-time.Hour), time.Time{}))
}
