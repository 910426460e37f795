package schema

import "time"

// Region is a rectangle in plot (pixel) space produced by a brush gesture.
// X0/Y0 and X1/Y1 are opposite corners in any order.
type Region struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Point is one plotted commit.
type Point struct {
	CommitID string  `json:"commit" yaml:"commit"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	R        float64 `json:"r" yaml:"r"`
	Visible  bool    `json:"visible" yaml:"visible"`
	Selected bool    `json:"selected" yaml:"selected"`
}

// Tooltip holds the labeled fields shown while hovering a commit.
type Tooltip struct {
	CommitID string `json:"commit" yaml:"commit"`
	URL      string `json:"url" yaml:"url"`
	Date     string `json:"date" yaml:"date"`
	Time     string `json:"time" yaml:"time"`
	Author   string `json:"author" yaml:"author"`
	Lines    int    `json:"lines" yaml:"lines"`
}

// BreakdownEntry is the line count and share of one type within the effective row set.
type BreakdownEntry struct {
	Type      string  `json:"type" yaml:"type"`
	Count     int     `json:"count" yaml:"count"`
	Fraction  float64 `json:"fraction" yaml:"fraction"`
	Formatted string  `json:"formatted" yaml:"formatted"`
}

// LineUnit is one rendered unit of the file composition panel.
type LineUnit struct {
	Type  string `json:"type" yaml:"type"`
	Color string `json:"color" yaml:"color"`
}

// FileGroup is one file of the composition panel with one unit per row.
type FileGroup struct {
	Name  string     `json:"name" yaml:"name"`
	Lines int        `json:"lines" yaml:"lines"`
	Units []LineUnit `json:"units" yaml:"units"`
}

// SliderState is what the time slider panel displays.
type SliderState struct {
	Progress float64    `json:"progress" yaml:"progress"`
	Cutoff   *time.Time `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Display  string     `json:"display" yaml:"display"`
	AnyTime  bool       `json:"any_time" yaml:"any_time"`
}

// Step is one block of the scroll narrative.
type Step struct {
	Index      int       `json:"index" yaml:"index"`
	CommitID   string    `json:"commit" yaml:"commit"`
	URL        string    `json:"url" yaml:"url"`
	LinkText   string    `json:"link_text" yaml:"link_text"`
	Datetime   time.Time `json:"datetime" yaml:"datetime"`
	TotalLines int       `json:"total_lines" yaml:"total_lines"`
	NumFiles   int       `json:"num_files" yaml:"num_files"`
	Text       string    `json:"text" yaml:"text"`
	Active     bool      `json:"active" yaml:"active"`
}

// SelectionResult bundles the dependent views recomputed after a filter change.
type SelectionResult struct {
	Progress  float64          `json:"progress" yaml:"progress"`
	Cutoff    *time.Time       `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Region    *Region          `json:"region,omitempty" yaml:"region,omitempty"`
	Visible   int              `json:"visible" yaml:"visible"`
	Selected  int              `json:"selected" yaml:"selected"`
	Commits   []string         `json:"selected_commits" yaml:"selected_commits"`
	Breakdown []BreakdownEntry `json:"breakdown" yaml:"breakdown"`
}
