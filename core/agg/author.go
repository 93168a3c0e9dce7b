package agg

import (
	"iter"
	"sort"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// authorChurnMap is the fold state of AuthorChurn, keyed by author name.
type authorChurnMap map[string]*schema.AuthorChurn

func (m authorChurnMap) add(commit schema.Commit) {
	entry, ok := m[commit.AuthorName]
	if !ok {
		entry = &schema.AuthorChurn{AuthorName: commit.AuthorName}
		m[commit.AuthorName] = entry
	}
	entry.Commits++
	for _, f := range commit.Files {
		entry.LinesAdded += f.LinesAdded
		entry.LinesDeleted += f.LinesDeleted
		entry.LinesAddDel += f.LinesAdded + f.LinesDeleted
		entry.FirstCommit = minTime(entry.FirstCommit, commit.CommitterDate)
		entry.LastCommit = maxTime(entry.LastCommit, commit.CommitterDate)
	}
}

// Sorted returns the authors by churn, largest first, ties broken by name.
func (m authorChurnMap) Sorted() []schema.AuthorChurn {
	out := make([]schema.AuthorChurn, 0, len(m))
	for _, entry := range m {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LinesAddDel != out[j].LinesAddDel {
			return out[i].LinesAddDel > out[j].LinesAddDel
		}
		return out[i].AuthorName < out[j].AuthorName
	})
	return out
}

// AuthorChurn sums commits and line churn per author.
//
// Commits without files are skipped, so an author whose only commits are empty merges never
// shows up. The after bound is strict: a commit dated exactly at after is excluded.
func AuthorChurn(commits iter.Seq2[schema.Commit, error], after time.Time) ([]schema.AuthorChurn, error) {
	acc := make(authorChurnMap)
	for commit, err := range commits {
		if err != nil {
			return nil, err
		}
		if len(commit.Files) == 0 || notAfterCutoff(commit.CommitterDate, after) {
			continue
		}
		acc.add(commit)
	}
	return acc.Sorted(), nil
}
