package agg

import (
	"iter"
	"sort"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// fileCommitStats tracks the volume of one file inside the coupling window.
type fileCommitStats struct {
	commits      int
	linesAdded   int
	linesDeleted int
}

// couplingFold is the fold state of FileCoupling.
type couplingFold struct {
	files    map[string]*fileCommitStats
	together map[string]map[string]int // file -> coupled file -> co-commits
	commits  int
}

func newCouplingFold() *couplingFold {
	return &couplingFold{
		files:    make(map[string]*fileCommitStats),
		together: make(map[string]map[string]int),
	}
}

func (c *couplingFold) add(commit schema.Commit) {
	// a path listed twice in one commit still counts once
	paths := make([]string, 0, len(commit.Files))
	seen := make(map[string]struct{}, len(commit.Files))
	for _, f := range commit.Files {
		stats, ok := c.files[f.Path]
		if !ok {
			stats = &fileCommitStats{}
			c.files[f.Path] = stats
		}
		stats.linesAdded += f.LinesAdded
		stats.linesDeleted += f.LinesDeleted
		if _, dup := seen[f.Path]; dup {
			continue
		}
		seen[f.Path] = struct{}{}
		stats.commits++
		paths = append(paths, f.Path)
	}

	for _, a := range paths {
		for _, b := range paths {
			if a == b {
				continue
			}
			row, ok := c.together[a]
			if !ok {
				row = make(map[string]int)
				c.together[a] = row
			}
			row[b]++
		}
	}
	c.commits++
}

// threshold returns the depth-th largest per-file commit count, or 0 when no filtering applies.
func (c *couplingFold) threshold(depth int) int {
	if depth <= 0 || len(c.files) < depth {
		return 0
	}
	counts := make([]int, 0, len(c.files))
	for _, s := range c.files {
		counts = append(counts, s.commits)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	return counts[depth-1]
}

// Sorted keeps the pairs whose both sides reach the threshold, ordered by ratio descending.
func (c *couplingFold) Sorted(depth int) []schema.CouplingEntry {
	minCommits := c.threshold(depth)
	var out []schema.CouplingEntry
	for file, row := range c.together {
		fileStats := c.files[file]
		if fileStats.commits < minCommits {
			continue
		}
		for coupled, howMany := range row {
			coupledStats := c.files[coupled]
			if coupledStats.commits < minCommits {
				continue
			}
			out = append(out, schema.CouplingEntry{
				File:                     file,
				CoupledFile:              coupled,
				TotCommitsForFile:        fileStats.commits,
				TotCommitsForCoupledFile: coupledStats.commits,
				HowManyTimes:             howMany,
				HowManyTimesVsTotCommits: Round2(float64(howMany) / float64(coupledStats.commits) * 100),
				TotNumberOfCommits:       c.commits,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].HowManyTimesVsTotCommits != out[j].HowManyTimesVsTotCommits {
			return out[i].HowManyTimesVsTotCommits > out[j].HowManyTimesVsTotCommits
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].CoupledFile < out[j].CoupledFile
	})
	return out
}

// FileCoupling counts how often pairs of files are committed together.
//
// Only files whose commit count reaches the depth-th largest count take part, on both sides of a
// pair. The cutoff is inclusive. Commits without files are ignored.
func FileCoupling(commits iter.Seq2[schema.Commit, error], after time.Time, depth int) ([]schema.CouplingEntry, error) {
	acc := newCouplingFold()
	for commit, err := range commits {
		if err != nil {
			return nil, err
		}
		if len(commit.Files) == 0 || beforeCutoff(commit.CommitterDate, after) {
			continue
		}
		acc.add(commit)
	}
	return acc.Sorted(depth), nil
}
