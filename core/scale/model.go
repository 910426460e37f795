package scale

import (
	"time"

	"github.com/huangsam/locviz/schema"
	"gonum.org/v1/gonum/floats"
)

// Radius range in pixels.
const (
	MinRadius = 2
	MaxRadius = 30
)

// Margin is the space around the plotting area.
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Layout is the size of the scatter plot in pixels.
type Layout struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Margin Margin  `json:"margin" yaml:"margin"`
}

// DefaultLayout returns a 1000x600 plot with room for axes on the left and bottom.
func DefaultLayout() Layout {
	return Layout{
		Width:  1000,
		Height: 600,
		Margin: Margin{Top: 20, Right: 30, Bottom: 50, Left: 60},
	}
}

// Left returns the leftmost usable pixel.
func (l Layout) Left() float64 { return l.Margin.Left }

// Right returns the rightmost usable pixel.
func (l Layout) Right() float64 { return l.Width - l.Margin.Right }

// Top returns the topmost usable pixel.
func (l Layout) Top() float64 { return l.Margin.Top }

// Bottom returns the bottommost usable pixel.
func (l Layout) Bottom() float64 { return l.Height - l.Margin.Bottom }

// Region returns the full usable plotting area.
func (l Layout) Region() schema.Region {
	return schema.Region{X0: l.Left(), Y0: l.Top(), X1: l.Right(), Y1: l.Bottom()}
}

// Model holds the scales used both to place points and to hit-test brushes.
type Model struct {
	X      *Time
	Y      *Linear
	R      *Sqrt
	Layout Layout
}

// NewModel builds the scales for a commit set.
// X spans the niced datetime extent, Y spans hours 0 to 24 bottom-up and R spans the line count extent.
func NewModel(commits []schema.Commit, layout Layout) *Model {
	t0, t1 := TimeExtent(commits)
	l0, l1 := LinesExtent(commits)
	return &Model{
		X:      NewTime(t0, t1, layout.Left(), layout.Right()).Nice(),
		Y:      NewLinear(0, 24, layout.Bottom(), layout.Top()),
		R:      NewSqrt(l0, l1, MinRadius, MaxRadius),
		Layout: layout,
	}
}

// Point returns the plotted center of a commit.
func (m *Model) Point(c schema.Commit) (x, y float64) {
	return m.X.Scale(c.Datetime), m.Y.Scale(c.HourFrac)
}

// Radius returns the plotted radius of a commit.
func (m *Model) Radius(c schema.Commit) float64 {
	return m.R.Scale(float64(c.TotalLines))
}

// NewProgress builds the slider scale mapping the un-niced datetime extent to [0, 100].
func NewProgress(commits []schema.Commit) *Time {
	t0, t1 := TimeExtent(commits)
	return NewTime(t0, t1, 0, 100)
}

// TimeExtent returns the earliest and latest commit datetimes.
// Both are zero for an empty set.
func TimeExtent(commits []schema.Commit) (time.Time, time.Time) {
	if len(commits) == 0 {
		return time.Time{}, time.Time{}
	}
	lo, hi := commits[0].Datetime, commits[0].Datetime
	for _, c := range commits[1:] {
		if c.Datetime.Before(lo) {
			lo = c.Datetime
		}
		if c.Datetime.After(hi) {
			hi = c.Datetime
		}
	}
	return lo, hi
}

// LinesExtent returns the smallest and largest line counts.
// Both are zero for an empty set.
func LinesExtent(commits []schema.Commit) (float64, float64) {
	if len(commits) == 0 {
		return 0, 0
	}
	counts := make([]float64, len(commits))
	for i, c := range commits {
		counts[i] = float64(c.TotalLines)
	}
	return floats.Min(counts), floats.Max(counts)
}
