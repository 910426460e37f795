package contract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "plain", Colorize(LabelColor, "plain", false))

	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()
	got := Colorize(LabelColor, "label", true)
	assert.Contains(t, got, "label")
	assert.NotEqual(t, "label", got)
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")
		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		_ = file.Close()
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{"empty excludes", "src/main.go", nil, false},
		{"prefix match", "vendor/github.com/lib/file.go", []string{"vendor/"}, true},
		{"suffix match", "dist/bundle.min.js", []string{".min.js"}, true},
		{"glob match basename", "src/file.min.js", []string{"*.min.js"}, true},
		{"substring match", "src/generated/code.go", []string{"generated"}, true},
		{"no match", "src/core/engine.go", []string{"vendor/", "node_modules/", ".min.js"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIgnore, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, path := range []string{GetCacheDBFilePath(), GetBoltDBFilePath(), GetRunsDBFilePath()} {
		assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
	}
	assert.NotEqual(t, GetCacheDBFilePath(), GetRunsDBFilePath())
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...ng/file.go", TruncatePath("very/long/file.go", 13))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestOpenerFunc(t *testing.T) {
	var got string
	var opener URLOpener = OpenerFunc(func(url string) error {
		got = url
		return errors.New("no browser")
	})
	err := opener.OpenURL("https://example.com/commit/a")
	assert.EqualError(t, err, "no browser")
	assert.Equal(t, "https://example.com/commit/a", got)
}
