package gitlog

import (
	"strings"

	"github.com/huangsam/gitmine/internal/contract"
)

const renameArrow = " => "

// FilePathFromCommitPath resolves git's rename notation to the destination path.
//
//	old/path => new/path     -> new/path
//	a/b/{c => d}/e.java      -> a/b/d/e.java
//	a/{old => }/f.go         -> a/f.go
//
// Paths without an arrow are returned unchanged. Unrecognized brace syntax is logged and the
// input is returned as is.
func FilePathFromCommitPath(path string) string {
	if !strings.Contains(path, renameArrow) {
		return path
	}
	if !strings.Contains(path, "{") {
		_, newPath, _ := strings.Cut(path, renameArrow)
		return newPath
	}

	prefix, rest, _ := strings.Cut(path, "{")
	inner, suffix, ok := strings.Cut(rest, "}")
	if !ok {
		contract.Logger().WithField("path", path).Warn("rename path has no closing brace")
		return path
	}
	_, newPart, ok := strings.Cut(inner, renameArrow)
	if !ok {
		contract.Logger().WithField("path", path).Warn("rename braces do not contain an arrow")
		return path
	}

	if newPart == "" {
		suffix = strings.TrimPrefix(suffix, "/")
	}
	return prefix + newPart + suffix
}
