// Package gitlog turns the text of a `git log --numstat` run into structured commits.
package gitlog

import (
	"iter"
	"strings"

	"github.com/huangsam/gitmine/internal/contract"
)

// LineCounter collects optional instrumentation for one tokenizer call.
type LineCounter struct {
	Lines   int // non-empty lines consumed
	Headers int // header lines seen
	Groups  int // groups emitted
}

// SplitCommitGroups splits a line stream into one group per commit.
//
// A header line starts with sep and opens a new group; every other non-empty line joins the
// current group. The last group is emitted when the input ends. When the input holds no
// header at all, a warning is logged and the buffered lines (possibly none) are still
// emitted as a single group. Lines before the first header form their own group, which the
// decoder then rejects as a malformed header.
func SplitCommitGroups(lines iter.Seq2[string, error], sep string, counter *LineCounter) iter.Seq2[[]string, error] {
	if counter == nil {
		counter = &LineCounter{}
	}
	return func(yield func([]string, error) bool) {
		var buf []string
		for line, err := range lines {
			if err != nil {
				yield(nil, err)
				return
			}
			if line == "" {
				continue
			}
			counter.Lines++

			if !strings.HasPrefix(line, sep) {
				buf = append(buf, line)
				continue
			}

			counter.Headers++
			if buf != nil {
				counter.Groups++
				if !yield(buf, nil) {
					return
				}
			}
			buf = []string{line}
		}

		if counter.Headers == 0 {
			contract.Logger().WithField("lines", counter.Lines).Warn("no commit header found in log stream")
		}
		if buf == nil {
			buf = []string{}
		}
		counter.Groups++
		yield(buf, nil)
	}
}
