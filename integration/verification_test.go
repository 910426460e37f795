//go:build integration

// Package integration contains integration tests for locviz.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Ana", "GIT_AUTHOR_EMAIL=ana@example.com",
		"GIT_COMMITTER_NAME=Ana", "GIT_COMMITTER_EMAIL=ana@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// TestGenerateMatchesGit blames a small repository and checks the change log against git.
func TestGenerateMatchesGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := t.TempDir()
	git(t, repo, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "main.go"), []byte("package main\n\nfunc main() {\n}\n"), 0o644))
	git(t, repo, "add", ".")
	git(t, repo, "commit", "-q", "-m", "first")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "style.css"), []byte("body {\n  margin: 0;\n}\n"), 0o644))
	git(t, repo, "add", ".")
	git(t, repo, "commit", "-q", "-m", "second")

	out := filepath.Join(t.TempDir(), "loc.csv")
	_, _, err := runLocviz(t, repo, []string{"LOCVIZ_CACHE_BACKEND=none"}, "generate", "--output", "csv", "--output-file", out)
	require.NoError(t, err)

	// One row per tracked line
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, rows, 1+4+3)

	stdout, _, err := runLocviz(t, repo, []string{"LOCVIZ_CACHE_BACKEND=none"}, "stats", out, "--output", "json", "--fallback", "no")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			NumCommits    int    `json:"num_commits"`
			NumFiles      int    `json:"num_files"`
			LongestFile   string `json:"longest_file"`
			MaxFileLength int    `json:"max_file_length"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	logLines := strings.Split(git(t, repo, "log", "--format=%H"), "\n")
	assert.Equal(t, len(logLines), doc.Summary.NumCommits)
	assert.Equal(t, len(strings.Split(git(t, repo, "ls-files"), "\n")), doc.Summary.NumFiles)
	assert.Equal(t, "main.go", doc.Summary.LongestFile)
	assert.Equal(t, 4, doc.Summary.MaxFileLength)
}

// TestExampleStory checks that the narrative has one step per commit of the generated data.
func TestExampleStory(t *testing.T) {
	dir := t.TempDir()
	env := []string{"LOCVIZ_CACHE_BACKEND=none"}

	_, _, err := runLocviz(t, dir, env, "generate", "--example", "--example-commits", "12", "--output-file", "loc.csv")
	require.NoError(t, err)

	stdout, _, err := runLocviz(t, dir, env, "story", "--output", "json")
	require.NoError(t, err)

	var steps []struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &steps))
	require.Len(t, steps, 12)
	assert.Contains(t, steps[0].Text, "my first commit")
	assert.Contains(t, steps[11].Text, "another glorious commit")
}
