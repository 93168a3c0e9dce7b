// Package schema has the models, report records and enums shared by every part of gitmine.
package schema

import "time"

// FileNumstat is one numstat line of a commit, enriched with cloc counts when available.
type FileNumstat struct {
	Path         string `json:"path" yaml:"path"`
	LinesAdded   int    `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int    `json:"lines_deleted" yaml:"lines_deleted"`
	Code         int    `json:"code" yaml:"code"`
	Comment      int    `json:"comment" yaml:"comment"`
	Blank        int    `json:"blank" yaml:"blank"`
}

// Commit is a single decoded commit from the git log stream.
type Commit struct {
	HashShort     string        `json:"hash_short" yaml:"hash_short"`
	AuthorDate    time.Time     `json:"author_date" yaml:"author_date"`
	CommitterDate time.Time     `json:"committer_date" yaml:"committer_date"`
	AuthorName    string        `json:"author_name" yaml:"author_name"`
	CommitterName string        `json:"committer_name" yaml:"committer_name"`
	Subject       string        `json:"subject" yaml:"subject"`
	Parents       []string      `json:"parents" yaml:"parents"`
	Files         []FileNumstat `json:"files" yaml:"files"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ClocEntry is one data row of a cloc by-file report.
type ClocEntry struct {
	Language string `json:"language" yaml:"language"`
	Filename string `json:"filename" yaml:"filename"`
	Blank    int    `json:"blank" yaml:"blank"`
	Comment  int    `json:"comment" yaml:"comment"`
	Code     int    `json:"code" yaml:"code"`
}

// ClocTable maps a normalized file path to its cloc counts.
// It is built once and never mutated afterwards.
type ClocTable map[string]ClocEntry

// EnrichedFileRecord is one touched file of a commit, flattened with the commit scalars.
type EnrichedFileRecord struct {
	FileNumstat   `yaml:",inline"`
	HashShort     string    `json:"hash_short" yaml:"hash_short"`
	AuthorDate    time.Time `json:"author_date" yaml:"author_date"`
	CommitterDate time.Time `json:"committer_date" yaml:"committer_date"`
	AuthorName    string    `json:"author_name" yaml:"author_name"`
	CommitterName string    `json:"committer_name" yaml:"committer_name"`
	Subject       string    `json:"subject" yaml:"subject"`
	Created       time.Time `json:"created" yaml:"created"` // first committer date seen for the path
}

// LinesAddDel returns the churn of the record.
func (r EnrichedFileRecord) LinesAddDel() int {
	return r.LinesAdded + r.LinesDeleted
}
