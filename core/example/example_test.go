package example

import (
	"testing"
	"time"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/core/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(Options{Commits: 10, Seed: 7})
	b := Generate(Options{Commits: 10, Seed: 7})
	assert.Equal(t, a, b)

	c := Generate(Options{Commits: 10, Seed: 8})
	assert.NotEqual(t, a, c)
}

func TestGenerateShape(t *testing.T) {
	rows := Generate(Options{Commits: 25, Seed: 1})
	require.NotEmpty(t, rows)

	commits := agg.ProcessCommits(rows, "")
	assert.LessOrEqual(t, len(commits), 25)
	for _, c := range commits {
		assert.GreaterOrEqual(t, c.TotalLines, 1)
		assert.False(t, c.Datetime.Before(defaultStart))
	}

	for i, r := range rows {
		assert.NotEmpty(t, r.Type)
		assert.GreaterOrEqual(t, r.Depth, 0)
		assert.GreaterOrEqual(t, r.Line, 1)
		assert.Equal(t, r.Datetime.Format(time.TimeOnly), r.Time)
		assert.Equal(t, 0, r.Date.Hour())
		if i > 0 && rows[i-1].Commit != r.Commit {
			assert.False(t, r.Datetime.Before(rows[i-1].Datetime), "commits are generated in time order")
		}
	}

	summary := stats.Compute(rows, commits)
	assert.Equal(t, len(commits), summary.NumCommits)
	assert.NotEqual(t, "Unknown", summary.LongestFile)
}

func TestGenerateEmpty(t *testing.T) {
	assert.Nil(t, Generate(Options{}))
	assert.Nil(t, Generate(Options{Commits: -3}))
}

func TestGenerateStart(t *testing.T) {
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := Generate(Options{Commits: 3, Seed: 2, Start: start})
	require.NotEmpty(t, rows)
	assert.False(t, rows[0].Datetime.Before(start))
	assert.Equal(t, 2020, rows[0].Datetime.Year())
}
