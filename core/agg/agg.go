// Package agg reconstructs commits from change-log rows.
package agg

import (
	"slices"
	"strings"

	"github.com/huangsam/locviz/schema"
)

// ProcessCommits groups rows by commit id in first-encountered order.
// Scalar fields come from the first row of each group, and each commit owns its rows.
// The result is not sorted by time; use SortByTime when chronology matters.
func ProcessCommits(rows []schema.Row, repoURL string) []schema.Commit {
	order := make([]string, 0)
	groups := make(map[string][]schema.Row)
	for _, r := range rows {
		if _, ok := groups[r.Commit]; !ok {
			order = append(order, r.Commit)
		}
		groups[r.Commit] = append(groups[r.Commit], r)
	}

	commits := make([]schema.Commit, 0, len(order))
	for _, id := range order {
		lines := groups[id]
		first := lines[0]
		commits = append(commits, schema.Commit{
			ID:         id,
			URL:        CommitURL(repoURL, id),
			Author:     first.Author,
			Date:       first.Date,
			Time:       first.Time,
			Timezone:   first.Timezone,
			Datetime:   first.Datetime,
			HourFrac:   float64(first.Datetime.Hour()) + float64(first.Datetime.Minute())/60,
			TotalLines: len(lines),
			Lines:      lines,
		})
	}
	return commits
}

// CommitURL derives the commit page URL from the repository base.
func CommitURL(repoURL, id string) string {
	if repoURL == "" {
		repoURL = schema.DefaultRepoURL
	}
	return strings.TrimSuffix(repoURL, "/") + "/commit/" + id
}

// SortByTime returns a copy of commits ordered by datetime. Equal datetimes keep dataset order.
func SortByTime(commits []schema.Commit) []schema.Commit {
	sorted := slices.Clone(commits)
	slices.SortStableFunc(sorted, func(a, b schema.Commit) int {
		return a.Datetime.Compare(b.Datetime)
	})
	return sorted
}

// SortByLines returns a copy of commits ordered by line count, largest first.
func SortByLines(commits []schema.Commit) []schema.Commit {
	sorted := slices.Clone(commits)
	slices.SortStableFunc(sorted, func(a, b schema.Commit) int {
		return b.TotalLines - a.TotalLines
	})
	return sorted
}

// Sort orders commits according to the given sort order.
func Sort(commits []schema.Commit, order schema.SortOrder) []schema.Commit {
	switch order {
	case schema.SortTime:
		return SortByTime(commits)
	case schema.SortLines:
		return SortByLines(commits)
	default:
		return commits
	}
}

// FlattenLines returns the rows of the given commits in commit order.
func FlattenLines(commits []schema.Commit) []schema.Row {
	n := 0
	for _, c := range commits {
		n += len(c.Lines)
	}
	rows := make([]schema.Row, 0, n)
	for _, c := range commits {
		rows = append(rows, c.Lines...)
	}
	return rows
}
