package contract

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor = color.New(color.FgCyan, color.Bold)
	NoticeColor = color.New(color.FgGreen)
	WarnColor   = color.New(color.FgYellow)
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// Patterns with glob characters are doublestar globs matched against the path and its base name.
// Patterns ending with '/' are treated as folder prefixes. Patterns starting with '.' are
// treated as suffix (extension) matches. Anything else must equal the path or its base name.
// A user can provide patterns like "vendor/", "**/testdata/**", "*.min.js", ".lock".
func ShouldIgnore(filePath string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[{") {
			if ok, err := doublestar.Match(ex, filePath); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(ex, path.Base(filePath)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(filePath, ex) || strings.Contains(filePath, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(filePath, ex) {
				return true
			}
		case filePath == ex || path.Base(filePath) == ex:
			return true
		}
	}
	return false
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the snapshot cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitmine_cache.db"
	}
	return filepath.Join(homeDir, ".gitmine_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for run storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitmine_analysis.db"
	}
	return filepath.Join(homeDir, ".gitmine_analysis.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix and at least one character.
func TruncatePath(p string, maxWidth int) string {
	runes := []rune(p)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return p
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
