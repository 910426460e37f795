// Package stats derives the corpus-wide summary shown in the statistics panel.
package stats

import "github.com/huangsam/locviz/schema"

// Compute derives the summary from every row and commit of the loaded dataset.
// Busiest hour and day keep the first bucket reaching the strict maximum,
// iterating buckets in the order commits first populate them.
func Compute(rows []schema.Row, commits []schema.Commit) schema.Summary {
	s := schema.Summary{
		NumCommits:  len(commits),
		LongestFile: schema.UnknownFile,
	}

	fileOrder := make([]string, 0)
	fileCounts := make(map[string]int)
	for _, r := range rows {
		if _, ok := fileCounts[r.File]; !ok {
			fileOrder = append(fileOrder, r.File)
		}
		fileCounts[r.File]++
	}
	s.NumFiles = len(fileOrder)
	for _, f := range fileOrder {
		if fileCounts[f] > s.MaxFileLength {
			s.MaxFileLength = fileCounts[f]
			s.LongestFile = f
		}
	}

	s.BusiestHour = busiest(commits, func(c schema.Commit) int { return c.Datetime.Hour() })
	s.BusiestDay = busiest(commits, func(c schema.Commit) int { return int(c.Datetime.Weekday()) })
	s.TimeOfDay = schema.TimeOfDay(s.BusiestHour)
	s.DayOfWeek = schema.DayName(s.BusiestDay)
	return s
}

// busiest buckets commits by key and returns the first key with the strict maximum count.
// It returns 0 when there are no commits.
func busiest(commits []schema.Commit, key func(schema.Commit) int) int {
	order := make([]int, 0)
	counts := make(map[int]int)
	for _, c := range commits {
		k := key(c)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	best, bestCount := 0, 0
	for _, k := range order {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
