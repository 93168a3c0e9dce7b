package agg

import (
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// authorOnFile is the inner accumulator of one author on one path.
type authorOnFile struct {
	commits      int
	linesAdded   int
	linesDeleted int
	linesAddDel  int
	created      time.Time
}

// fileAuthorsMap is the fold state of FileAuthors: path -> author -> activity.
type fileAuthorsMap map[string]map[string]*authorOnFile

func (m fileAuthorsMap) add(rec schema.EnrichedFileRecord) {
	authors, ok := m[rec.Path]
	if !ok {
		authors = make(map[string]*authorOnFile)
		m[rec.Path] = authors
	}
	a, ok := authors[rec.AuthorName]
	if !ok {
		a = &authorOnFile{}
		authors[rec.AuthorName] = a
	}
	a.commits++
	a.linesAdded += rec.LinesAdded
	a.linesDeleted += rec.LinesDeleted
	a.linesAddDel += rec.LinesAddDel()
	a.created = minTime(a.created, rec.CommitterDate)
}

// pathAuthors is one top-level group handed to collapse.
type pathAuthors struct {
	path    string
	authors map[string]*authorOnFile
}

// groups lists the top-level entries in path order.
func (m fileAuthorsMap) groups() []pathAuthors {
	out := make([]pathAuthors, 0, len(m))
	for path, authors := range m {
		out = append(out, pathAuthors{path: path, authors: authors})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// collapseFileAuthors folds the author dimension away. A repeated path or a path without
// authors means the grouping step is broken.
func collapseFileAuthors(groups []pathAuthors) ([]schema.FileAuthors, error) {
	seen := make(map[string]struct{}, len(groups))
	out := make([]schema.FileAuthors, 0, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.path]; dup {
			return nil, &InvariantViolationError{Op: "file authors collapse", Detail: fmt.Sprintf("path %q grouped twice", g.path)}
		}
		seen[g.path] = struct{}{}
		if len(g.authors) == 0 {
			return nil, &InvariantViolationError{Op: "file authors collapse", Detail: fmt.Sprintf("path %q has no authors", g.path)}
		}

		entry := schema.FileAuthors{Path: g.path, AuthorsCount: len(g.authors)}
		for _, a := range g.authors {
			entry.Commits += a.commits
			entry.LinesAdded += a.linesAdded
			entry.LinesDeleted += a.linesDeleted
			entry.LinesAddDel += a.linesAddDel
			entry.Created = minTime(entry.Created, a.created)
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AuthorsCount != out[j].AuthorsCount {
			return out[i].AuthorsCount > out[j].AuthorsCount
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// FileAuthors counts distinct authors per path along with the summed activity.
// The cutoff is inclusive, as in FileChurn.
func FileAuthors(records iter.Seq2[schema.EnrichedFileRecord, error], after time.Time) ([]schema.FileAuthors, error) {
	acc := make(fileAuthorsMap)
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		if beforeCutoff(rec.CommitterDate, after) {
			continue
		}
		acc.add(rec)
	}
	return collapseFileAuthors(acc.groups())
}
