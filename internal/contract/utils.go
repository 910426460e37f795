package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	LabelColor  = color.New(color.FgCyan, color.Bold) // statistic and column labels
	ValueColor  = color.New(color.FgWhite, color.Bold)
	AccentColor = color.New(color.FgYellow) // counts and percentages
	MutedColor  = color.New(color.FgHiBlack)
)

// Colorize applies c to text when colors are enabled.
func Colorize(c *color.Color, text string, enabled bool) string {
	if !enabled {
		return text
	}
	return c.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the row cache.
func GetCacheDBFilePath() string {
	return homeFile(".locviz_cache.db")
}

// GetBoltDBFilePath returns the path to the bbolt file for the row cache.
func GetBoltDBFilePath() string {
	return homeFile(".locviz_cache.bolt")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunsDBFilePath() string {
	return homeFile(".locviz_runs.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
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
