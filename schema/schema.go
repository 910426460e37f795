// Package schema has models, enums and shared constants for all parts of locviz.
package schema

import "time"

// Row is one changed source line from the change-log table.
// Rows are immutable once parsed and are shared by reference with commits.
type Row struct {
	Commit   string    `json:"commit" yaml:"commit"`     // Commit identifier
	File     string    `json:"file" yaml:"file"`         // Path of the file containing the line
	Type     string    `json:"type" yaml:"type"`         // Category of the file, usually its language or extension
	Line     int       `json:"line" yaml:"line"`         // Line number within the file
	Depth    int       `json:"depth" yaml:"depth"`       // Indentation depth of the line
	Length   int       `json:"length" yaml:"length"`     // Character length of the line
	Author   string    `json:"author" yaml:"author"`     // Commit author
	Date     time.Time `json:"date" yaml:"date"`         // Day of the commit at midnight in the commit time zone
	Time     string    `json:"time" yaml:"time"`         // Raw time-of-day column
	Timezone string    `json:"timezone" yaml:"timezone"` // Raw time zone offset column
	Datetime time.Time `json:"datetime" yaml:"datetime"` // Full commit timestamp
}

// Commit is one logical change set reconstructed from its rows.
//
// Lines is the back-reference to the constituent rows. It is owned by the commit,
// never mutated after aggregation, and excluded from serialization by convention.
type Commit struct {
	ID         string    `json:"id" yaml:"id"`
	URL        string    `json:"url" yaml:"url"`
	Author     string    `json:"author" yaml:"author"`
	Date       time.Time `json:"date" yaml:"date"`
	Time       string    `json:"time" yaml:"time"`
	Timezone   string    `json:"timezone" yaml:"timezone"`
	Datetime   time.Time `json:"datetime" yaml:"datetime"`
	HourFrac   float64   `json:"hour_frac" yaml:"hour_frac"`     // Hour of day plus minutes/60, in [0,24)
	TotalLines int       `json:"total_lines" yaml:"total_lines"` // Always equal to len(Lines)
	Lines      []Row     `json:"-" yaml:"-"`
}

// NumFiles returns the number of distinct files touched by the commit.
func (c Commit) NumFiles() int {
	seen := make(map[string]struct{}, len(c.Lines))
	for _, r := range c.Lines {
		seen[r.File] = struct{}{}
	}
	return len(seen)
}

// Summary holds the corpus-wide statistics computed once from the unfiltered dataset.
type Summary struct {
	NumCommits    int    `json:"num_commits" yaml:"num_commits"`
	NumFiles      int    `json:"num_files" yaml:"num_files"`
	LongestFile   string `json:"longest_file" yaml:"longest_file"`
	MaxFileLength int    `json:"max_file_length" yaml:"max_file_length"`
	BusiestHour   int    `json:"busiest_hour" yaml:"busiest_hour"`
	TimeOfDay     string `json:"most_active_time" yaml:"most_active_time"`
	BusiestDay    int    `json:"busiest_day" yaml:"busiest_day"`
	DayOfWeek     string `json:"most_active_day" yaml:"most_active_day"`
}

// StatEntry is one labeled value of the statistics panel.
type StatEntry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}
