package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzShouldIgnore fuzzes the exclude matching used when blaming a repository.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{".git/HEAD", ".git/"},
		{"package-lock.json", "*.lock,*-lock.json"},
		{"go.sum", "*.lock,go.sum"},
		{"loc.csv", "loc.csv,loc.parquet"},
		{"node_modules/d3/dist/d3.js", "node_modules/,vendor/"},
		{"assets/app.min.js", ".min.js"},
		{"meta/index.html", ""},
		{"", ""},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(t *testing.T, path string, excludesStr string) {
		var excludes []string
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}
		got := ShouldIgnore(path, excludes)
		if len(excludes) == 0 && got {
			t.Fatalf("ShouldIgnore(%q, nil) = true", path)
		}

		// A directory exclude always covers the files below it
		if len(excludes) > 0 && strings.HasSuffix(excludes[0], "/") && !strings.ContainsAny(excludes[0], "*?[") {
			if nested := excludes[0] + path; !ShouldIgnore(nested, excludes) {
				t.Fatalf("%q not ignored under %q", nested, excludes[0])
			}
		}
	})
}

// FuzzTruncatePath checks that truncated table paths never exceed the column width.
func FuzzTruncatePath(f *testing.F) {
	f.Add("core/selection/session.go", 12)
	f.Add("loc.csv", 40)
	f.Add("日本語/ファイル.js", 6)
	f.Add("", 4)

	f.Fuzz(func(t *testing.T, path string, width int) {
		if width <= 3 || width > 1000 || !utf8.ValidString(path) {
			return
		}
		got := TruncatePath(path, width)
		if n := utf8.RuneCountInString(got); n > width {
			t.Fatalf("TruncatePath(%q, %d) has %d runes", path, width, n)
		}
		if utf8.RuneCountInString(path) <= width && got != path {
			t.Fatalf("TruncatePath(%q, %d) = %q, want unchanged", path, width, got)
		}
	})
}
