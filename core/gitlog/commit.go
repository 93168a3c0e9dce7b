package gitlog

import (
	"bytes"
	"context"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// DefaultSeparator prefixes every commit header line and splits its fields.
const DefaultSeparator = "§§§"

// dateLayouts are tried in order when decoding header dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	time.DateOnly,
}

// LogFormat returns the --pretty format whose output NewCommit decodes.
func LogFormat(sep string) string {
	fields := []string{"%h", "%ad", "%an", "%cn", "%cd", "%s", "%p"}
	return "format:" + sep + strings.Join(fields, sep)
}

// NewCommit decodes one commit group: a header line followed by numstat lines.
func NewCommit(group []string, sep string) (schema.Commit, error) {
	if len(group) == 0 {
		return schema.Commit{}, &MalformedCommitHeaderError{}
	}

	header := group[0]
	fields := strings.Split(header, sep)
	if len(fields) != 7 && len(fields) != 8 {
		return schema.Commit{}, &MalformedCommitHeaderError{Line: header, Fields: len(fields)}
	}
	// fields[0] is the empty text before the leading separator
	hash := fields[1]
	if hash == "" {
		return schema.Commit{}, &MalformedCommitHeaderError{Line: header, Fields: len(fields)}
	}

	authorDate, err := parseGitDate(hash, fields[2])
	if err != nil {
		return schema.Commit{}, err
	}
	committerDate, err := parseGitDate(hash, fields[5])
	if err != nil {
		return schema.Commit{}, err
	}

	commit := schema.Commit{
		HashShort:     hash,
		AuthorDate:    authorDate,
		AuthorName:    fields[3],
		CommitterName: fields[4],
		CommitterDate: committerDate,
		Subject:       fields[6],
		Parents:       []string{},
		Files:         make([]schema.FileNumstat, 0, len(group)-1),
	}
	if len(fields) == 8 {
		commit.Parents = append(commit.Parents, strings.Fields(fields[7])...)
	}

	for _, line := range group[1:] {
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			return schema.Commit{}, &MalformedNumstatLineError{Commit: hash, Line: line, Fields: len(parts)}
		}
		commit.Files = append(commit.Files, schema.FileNumstat{
			Path:         FilePathFromCommitPath(parts[2]),
			LinesAdded:   parseLineCount(parts[0]),
			LinesDeleted: parseLineCount(parts[1]),
		})
	}

	return commit, nil
}

// ParseCommits decodes a line stream into commits. The first error ends the sequence.
func ParseCommits(lines iter.Seq2[string, error], sep string, counter *LineCounter) iter.Seq2[schema.Commit, error] {
	return func(yield func(schema.Commit, error) bool) {
		for group, err := range SplitCommitGroups(lines, sep, counter) {
			if err != nil {
				yield(schema.Commit{}, err)
				return
			}
			if len(group) == 0 {
				continue // empty log
			}
			commit, err := NewCommit(group, sep)
			if err != nil {
				yield(schema.Commit{}, err)
				return
			}
			if !yield(commit, nil) {
				return
			}
		}
	}
}

// ParseBytes parses a complete log held in memory. It is a pure function of data.
func ParseBytes(ctx context.Context, data []byte, sep string) ([]schema.Commit, error) {
	return Collect(ParseCommits(ScanLines(ctx, bytes.NewReader(data)), sep, nil))
}

// parseLineCount converts a numstat count, mapping "-" (binary) and junk to 0.
func parseLineCount(s string) int {
	if s == "-" {
		return 0
	}
	if val, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && val >= 0 {
		return val
	}
	return 0
}

// parseGitDate parses the date formats git emits for --date=iso-strict, iso and short.
func parseGitDate(hash, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &MalformedCommitDateError{Commit: hash, Value: value, Err: lastErr}
}
