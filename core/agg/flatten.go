package agg

import (
	"iter"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/sirupsen/logrus"
)

// Flattener expands commits into one record per touched file.
type Flattener struct {
	// Logger receives ordering warnings. The process logger is used when nil.
	Logger logrus.FieldLogger
}

// NewFlattener returns a Flattener logging to logger.
func NewFlattener(logger logrus.FieldLogger) *Flattener {
	return &Flattener{Logger: logger}
}

// Flatten yields one EnrichedFileRecord per file of every commit, oldest-first input assumed.
//
// Created is the committer date of the first commit in which the path appeared. The lookup table
// lives for a single iteration of the returned sequence, so replays never share state. When a
// later commit carries an earlier date than the recorded one, a warning is logged and the first
// value is kept.
func (f *Flattener) Flatten(commits iter.Seq2[schema.Commit, error]) iter.Seq2[schema.EnrichedFileRecord, error] {
	return func(yield func(schema.EnrichedFileRecord, error) bool) {
		created := make(map[string]time.Time)
		for commit, err := range commits {
			if err != nil {
				yield(schema.EnrichedFileRecord{}, err)
				return
			}
			for _, file := range commit.Files {
				first, seen := created[file.Path]
				if !seen {
					first = commit.CommitterDate
					created[file.Path] = first
				} else if commit.CommitterDate.Before(first) {
					f.logger().WithFields(logrus.Fields{
						"path":    file.Path,
						"commit":  commit.HashShort,
						"date":    commit.CommitterDate,
						"created": first,
					}).Warn("commit predates recorded file creation; input is not oldest-first")
				}
				if !yield(NewRecord(commit, file, first), nil) {
					return
				}
			}
		}
	}
}

func (f *Flattener) logger() logrus.FieldLogger {
	if f.Logger != nil {
		return f.Logger
	}
	return contract.Logger()
}

// FlattenCommits flattens commits with a Flattener using the process logger.
func FlattenCommits(commits iter.Seq2[schema.Commit, error]) iter.Seq2[schema.EnrichedFileRecord, error] {
	return NewFlattener(nil).Flatten(commits)
}

// NewRecord combines the scalar fields of commit with one of its files.
func NewRecord(commit schema.Commit, file schema.FileNumstat, created time.Time) schema.EnrichedFileRecord {
	return schema.EnrichedFileRecord{
		FileNumstat:   file,
		HashShort:     commit.HashShort,
		AuthorDate:    commit.AuthorDate,
		CommitterDate: commit.CommitterDate,
		AuthorName:    commit.AuthorName,
		CommitterName: commit.CommitterName,
		Subject:       commit.Subject,
		Created:       created,
	}
}
