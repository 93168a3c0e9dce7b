package agg

import (
	"testing"
	"time"

	"github.com/huangsam/gitmine/core/gitlog"
	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// couplingCommits builds A+B three times, B alone six times and B+C once.
func couplingCommits() []schema.Commit {
	files := func(paths ...string) []schema.FileNumstat {
		out := make([]schema.FileNumstat, 0, len(paths))
		for _, p := range paths {
			out = append(out, schema.FileNumstat{Path: p, LinesAdded: 1})
		}
		return out
	}
	var commits []schema.Commit
	date := day(2021, 1, 1)
	for range 3 {
		commits = append(commits, schema.Commit{CommitterDate: date, Files: files("A", "B")})
		date = date.Add(time.Hour)
	}
	for range 6 {
		commits = append(commits, schema.Commit{CommitterDate: date, Files: files("B")})
		date = date.Add(time.Hour)
	}
	commits = append(commits, schema.Commit{CommitterDate: date, Files: files("B", "C")})
	commits = append(commits, schema.Commit{CommitterDate: date, Files: nil}) // ignored
	return commits
}

func TestFileCoupling_Asymmetry(t *testing.T) {
	got, err := FileCoupling(gitlog.FromSlice(couplingCommits()), time.Time{}, 2)
	require.NoError(t, err)

	assert.Equal(t, []schema.CouplingEntry{
		{File: "B", CoupledFile: "A", TotCommitsForFile: 10, TotCommitsForCoupledFile: 3, HowManyTimes: 3, HowManyTimesVsTotCommits: 100, TotNumberOfCommits: 10},
		{File: "A", CoupledFile: "B", TotCommitsForFile: 3, TotCommitsForCoupledFile: 10, HowManyTimes: 3, HowManyTimesVsTotCommits: 30, TotNumberOfCommits: 10},
	}, got)
}

func TestFileCoupling_Depth(t *testing.T) {
	testCases := []struct {
		name     string
		depth    int
		expected [][2]string
	}{
		{"no filtering", 0, [][2]string{{"B", "A"}, {"B", "C"}, {"A", "B"}, {"C", "B"}}},
		{"depth larger than file count", 5, [][2]string{{"B", "A"}, {"B", "C"}, {"A", "B"}, {"C", "B"}}},
		{"top one keeps only B which has no partner of its size", 1, [][2]string{}},
		{"top two drops C", 2, [][2]string{{"B", "A"}, {"A", "B"}}},
		{"top three keeps all", 3, [][2]string{{"B", "A"}, {"B", "C"}, {"A", "B"}, {"C", "B"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FileCoupling(gitlog.FromSlice(couplingCommits()), time.Time{}, tc.depth)
			require.NoError(t, err)

			pairs := make([][2]string, 0, len(got))
			for _, e := range got {
				pairs = append(pairs, [2]string{e.File, e.CoupledFile})
			}
			assert.Equal(t, tc.expected, pairs)
		})
	}
}

func TestFileCoupling_CutoffAndDuplicates(t *testing.T) {
	commits := []schema.Commit{
		{CommitterDate: day(2020, 1, 1), Files: []schema.FileNumstat{{Path: "x"}, {Path: "y"}}},
		{CommitterDate: day(2021, 1, 1), Files: []schema.FileNumstat{{Path: "x"}, {Path: "x"}, {Path: "y"}}},
	}

	got, err := FileCoupling(gitlog.FromSlice(commits), day(2021, 1, 1), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, 1, e.HowManyTimes)
		assert.Equal(t, 1, e.TotCommitsForFile)
		assert.Equal(t, 1, e.TotNumberOfCommits)
		assert.Equal(t, 100.0, e.HowManyTimesVsTotCommits)
	}
}
