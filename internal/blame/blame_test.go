package blame

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/locviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commitTime = time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("", -7*3600))

// initRepo creates a repository with one commit holding the given files.
func initRepo(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Ana", Email: "ana@example.com", When: commitTime},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestCollectRows(t *testing.T) {
	dir, hash := initRepo(t, map[string]string{
		"main.js":        "function f() {\n  return 1;\n}\n",
		"style.css":      "body {}\n",
		"vendor/lib.js":  "x\n",
		"docs/notes.txt": "hello\n",
	})

	rows, err := CollectRows(context.Background(), dir, Options{Workers: 2, Excludes: []string{"vendor/"}})
	require.NoError(t, err)

	byFile := map[string][]schema.Row{}
	for _, r := range rows {
		byFile[r.File] = append(byFile[r.File], r)
	}
	assert.NotContains(t, byFile, "vendor/lib.js")
	require.Len(t, byFile["main.js"], 3)
	require.Len(t, byFile["style.css"], 1)
	require.Len(t, byFile["docs/notes.txt"], 1)

	second := byFile["main.js"][1]
	assert.Equal(t, hash, second.Commit)
	assert.Equal(t, "js", second.Type)
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, 2, second.Depth)
	assert.Equal(t, len("  return 1;"), second.Length)
	assert.Equal(t, "Ana", second.Author)
	assert.Equal(t, "14:30:00", second.Time)
	assert.Equal(t, "-07:00", second.Timezone)
	assert.True(t, second.Datetime.Equal(commitTime))
	assert.Equal(t, 5, second.Date.Day())
	assert.Equal(t, 0, second.Date.Hour())

	assert.Equal(t, "css", byFile["style.css"][0].Type)
}

func TestCollectRowsLocation(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"a.go": "package a\n"})

	rows, err := CollectRows(context.Background(), dir, Options{Workers: 1, Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "21:30:00", rows[0].Time)
	assert.Equal(t, "+00:00", rows[0].Timezone)
}

func TestCollectRowsDeterministicOrder(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{
		"a.txt": "1\n2\n",
		"b.txt": "1\n",
		"c.txt": "1\n2\n3\n",
	})
	first, err := CollectRows(context.Background(), dir, Options{Workers: 3})
	require.NoError(t, err)
	second, err := CollectRows(context.Background(), dir, Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollectRowsErrors(t *testing.T) {
	_, err := CollectRows(context.Background(), t.TempDir(), Options{Workers: 1})
	assert.Error(t, err)

	dir, _ := initRepo(t, map[string]string{"a.txt": "1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CollectRows(ctx, dir, Options{Workers: 1})
	assert.Error(t, err)
}

func TestIndentDepth(t *testing.T) {
	assert.Equal(t, 0, indentDepth("x"))
	assert.Equal(t, 4, indentDepth("    x"))
	assert.Equal(t, 2, indentDepth("\t\tx"))
	assert.Equal(t, 3, indentDepth("   "))
}
