package gitlog

import (
	"fmt"
	"strings"
	"time"
)

// commitScenario describes one commit for fixture generation.
type commitScenario struct {
	hash      string
	author    string
	committer string
	date      time.Time
	subject   string
	parents   []string
	files     []fileChange
}

// fileChange is one numstat line; counts are strings so binary markers can be expressed.
type fileChange struct {
	added   string
	deleted string
	path    string
}

// generateTestLog renders scenarios the way `git log --numstat` prints them with LogFormat.
func generateTestLog(sep string, scenarios []commitScenario) []byte {
	var lines []string
	for _, s := range scenarios {
		date := s.date.Format(time.RFC3339)
		committer := s.committer
		if committer == "" {
			committer = s.author
		}
		header := strings.Join([]string{"", s.hash, date, s.author, committer, date, s.subject, strings.Join(s.parents, " ")}, sep)
		lines = append(lines, header)
		for _, f := range s.files {
			lines = append(lines, fmt.Sprintf("%s\t%s\t%s", f.added, f.deleted, f.path))
		}
		lines = append(lines, "") // git prints a blank line between commits
	}
	return []byte(strings.Join(lines, "\n"))
}

// threeCommitScenario is the small history used across tests.
func threeCommitScenario() []commitScenario {
	day1 := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	return []commitScenario{
		{
			hash: "aaa1111", author: "Picci-1", date: day1, subject: "first",
			files: []fileChange{{"5", "3", "file-1.txt"}, {"4", "2", "file-2.txt"}},
		},
		{
			hash: "bbb2222", author: "Picci-2", date: day1.AddDate(0, 0, 1), subject: "second", parents: []string{"aaa1111"},
			files: []fileChange{{"3", "1", "file-1.txt"}},
		},
		{
			hash: "ccc3333", author: "Picci-3", date: day1.AddDate(0, 0, 2), subject: "third", parents: []string{"bbb2222"},
			files: []fileChange{{"2", "0", "file-1.txt"}, {"1", "0", "file-2.txt"}},
		},
	}
}
