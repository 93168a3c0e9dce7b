package cloc

import (
	"iter"

	"github.com/huangsam/gitmine/core/gitlog"
	"github.com/huangsam/gitmine/schema"
)

// Enrich returns a copy of commit whose files carry code, comment and blank counts from table.
// Files absent from the table keep zero counts. Neither commit nor table is modified.
func Enrich(commit schema.Commit, table schema.ClocTable) schema.Commit {
	files := make([]schema.FileNumstat, len(commit.Files))
	for i, f := range commit.Files {
		f.Path = gitlog.FilePathFromCommitPath(f.Path)
		if entry, ok := table[f.Path]; ok {
			f.Code = entry.Code
			f.Comment = entry.Comment
			f.Blank = entry.Blank
		}
		files[i] = f
	}
	commit.Files = files
	return commit
}

// EnrichCommits applies Enrich to every commit of seq.
func EnrichCommits(seq iter.Seq2[schema.Commit, error], table schema.ClocTable) iter.Seq2[schema.Commit, error] {
	return func(yield func(schema.Commit, error) bool) {
		for commit, err := range seq {
			if err != nil {
				yield(schema.Commit{}, err)
				return
			}
			if !yield(Enrich(commit, table), nil) {
				return
			}
		}
	}
}
