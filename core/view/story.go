package view

import (
	"fmt"

	"github.com/huangsam/locviz/schema"
)

const (
	firstCommitText = "my first commit, and it was glorious"
	laterCommitText = "another glorious commit"
	unknownValue    = "Unknown"
)

// BuildSteps turns each commit into one narrative block, in the given order.
func BuildSteps(commits []schema.Commit) []schema.Step {
	steps := make([]schema.Step, 0, len(commits))
	for i, c := range commits {
		link := laterCommitText
		if i == 0 {
			link = firstCommitText
		}
		files := c.NumFiles()
		steps = append(steps, schema.Step{
			Index:      i,
			CommitID:   c.ID,
			URL:        c.URL,
			LinkText:   link,
			Datetime:   c.Datetime,
			TotalLines: c.TotalLines,
			NumFiles:   files,
			Text: fmt.Sprintf("On %s, I made %s. I edited %d lines across %d files. "+
				"Then I looked over all I had made, and I saw that it was very good.",
				c.Datetime.Format(schema.StoryTimeLayout), link, c.TotalLines, files),
		})
	}
	return steps
}

// BuildTooltip fills the hover card for a commit.
// The raw time column wins over the formatted timestamp when present.
func BuildTooltip(c schema.Commit) schema.Tooltip {
	t := schema.Tooltip{
		CommitID: c.ID,
		URL:      c.URL,
		Date:     unknownValue,
		Time:     c.Time,
		Author:   c.Author,
		Lines:    c.TotalLines,
	}
	if !c.Datetime.IsZero() {
		t.Date = c.Datetime.Format(schema.FullDateLayout)
		if t.Time == "" {
			t.Time = c.Datetime.Format(schema.ClockLayout)
		}
	}
	if t.Time == "" {
		t.Time = unknownValue
	}
	if t.Author == "" {
		t.Author = unknownValue
	}
	return t
}

// CountText is the selection counter label.
func CountText(n int) string {
	return fmt.Sprintf("%d commits selected", n)
}
