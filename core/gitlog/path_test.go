package gitlog

import (
	"testing"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestFilePathFromCommitPath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantWarn bool
	}{
		{"plain path", "src/main.go", "src/main.go", false},
		{"braced rename", "a/b/{c => d}/e.java", "a/b/d/e.java", false},
		{"whole path rename", "a/b/c.java => x/y/c.java", "x/y/c.java", false},
		{"move into new folder", "src/{ => sub}/file.go", "src/sub/file.go", false},
		{"move out of folder", "src/{sub => }/file.go", "src/file.go", false},
		{"rename at root", "{old.go => new.go}", "new.go", false},
		{"rename file name", "pkg/{a.go => b.go}", "pkg/b.go", false},
		{"missing closing brace", "a/{b => c/d.go", "a/{b => c/d.go", true},
		{"arrow outside braces", "a/{b}/c => d", "a/{b}/c => d", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			defer contract.SetLogger(logger)()

			assert.Equal(t, tc.expected, FilePathFromCommitPath(tc.input))
			if tc.wantWarn {
				assert.Len(t, hook.AllEntries(), 1)
			} else {
				assert.Empty(t, hook.AllEntries())
			}
		})
	}
}

func TestFilePathFromCommitPath_Idempotent(t *testing.T) {
	inputs := []string{"a/b/{c => d}/e.java", "a/b/c.java => x/y/c.java", "plain.txt"}
	for _, in := range inputs {
		once := FilePathFromCommitPath(in)
		assert.Equal(t, once, FilePathFromCommitPath(once))
	}
}
