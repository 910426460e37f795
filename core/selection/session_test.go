package selection

import (
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/core/scale"
	"github.com/huangsam/locviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	timeA = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	timeB = time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)
)

func exampleSession(t *testing.T, opts Options) *Session {
	t.Helper()
	rows := []schema.Row{
		{Commit: "a", File: "x.js", Type: "js", Datetime: timeA},
		{Commit: "a", File: "y.css", Type: "css", Datetime: timeA},
		{Commit: "b", File: "x.js", Type: "js", Datetime: timeB},
	}
	return NewSession(agg.ProcessCommits(rows, ""), opts)
}

// regionAround returns a small brush box centered on a commit's plotted point.
func regionAround(s *Session, id string) *schema.Region {
	c, err := s.Commit(id)
	if err != nil {
		panic(err)
	}
	x, y := s.HitModel().Point(c)
	return &schema.Region{X0: x - 5, Y0: y - 5, X1: x + 5, Y1: y + 5}
}

func TestBrushExampleScenario(t *testing.T) {
	s := exampleSession(t, Options{})

	s.Brush(regionAround(s, "a"))
	assert.Equal(t, 1, s.SelectionCount())
	assert.True(t, s.IsSelected("a"))
	assert.False(t, s.IsSelected("b"))

	breakdown := s.Breakdown()
	require.Len(t, breakdown, 2)
	assert.Equal(t, schema.BreakdownEntry{Type: "js", Count: 1, Fraction: 0.5, Formatted: "50.0%"}, breakdown[0])
	assert.Equal(t, schema.BreakdownEntry{Type: "css", Count: 1, Fraction: 0.5, Formatted: "50.0%"}, breakdown[1])

	res := s.Result()
	assert.Equal(t, []string{"a"}, res.Commits)
	assert.Equal(t, 2, res.Visible)
	assert.Equal(t, 1, res.Selected)
}

func TestSelectionCount(t *testing.T) {
	s := exampleSession(t, Options{})

	assert.Equal(t, 0, s.SelectionCount(), "no region selects nothing")
	assert.Equal(t, 2, s.VisibleCount())

	full := s.Layout().Region()
	s.Brush(&full)
	assert.Equal(t, s.VisibleCount(), s.SelectionCount())

	s.Brush(nil)
	assert.Equal(t, 0, s.SelectionCount())
	assert.Nil(t, s.Region())
}

func TestBrushReversedCornersAndInclusiveBounds(t *testing.T) {
	s := exampleSession(t, Options{})
	c, err := s.Commit("a")
	require.NoError(t, err)
	x, y := s.HitModel().Point(c)

	s.Brush(&schema.Region{X0: x, Y0: y, X1: x - 100, Y1: y - 100})
	assert.True(t, s.IsSelected("a"), "a point on the edge is inside")
	assert.Equal(t, &schema.Region{X0: x - 100, Y0: y - 100, X1: x, Y1: y}, s.Region())
}

func TestEmptySelectionClearsBreakdown(t *testing.T) {
	s := exampleSession(t, Options{})
	s.Brush(&schema.Region{X0: 0, Y0: 0, X1: 1, Y1: 1})

	assert.Equal(t, 0, s.SelectionCount())
	assert.Empty(t, s.Breakdown())
	assert.Empty(t, s.Files())
}

func TestBreakdownWithoutBrushUsesVisible(t *testing.T) {
	s := exampleSession(t, Options{})
	breakdown := s.Breakdown()
	require.Len(t, breakdown, 2)
	assert.Equal(t, "js", breakdown[0].Type)
	assert.Equal(t, 2, breakdown[0].Count)
	assert.Equal(t, "66.7%", breakdown[0].Formatted)
	assert.Equal(t, "33.3%", breakdown[1].Formatted)
}

func TestBreakdownSumsToOne(t *testing.T) {
	var rows []schema.Row
	types := []string{"go", "md", "go", "yaml", "go", "md", "sh"}
	for i, typ := range types {
		rows = append(rows, schema.Row{Type: typ, File: fmt.Sprintf("f%d", i)})
	}
	total := 0.0
	for _, e := range Breakdown(rows) {
		total += e.Fraction
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Empty(t, Breakdown(nil))
}

func TestSetProgress(t *testing.T) {
	s := exampleSession(t, Options{})
	s.Brush(regionAround(s, "a"))

	s.SetProgress(0)
	assert.Nil(t, s.Region(), "moving the slider clears the brush")
	assert.Equal(t, 0, s.SelectionCount())
	require.NotNil(t, s.Cutoff())
	assert.True(t, s.Cutoff().Equal(timeA))
	assert.True(t, s.IsVisible("a"))
	assert.False(t, s.IsVisible("b"))
	assert.Equal(t, 1, s.VisibleCount())

	slider := s.Slider()
	assert.False(t, slider.AnyTime)
	assert.Equal(t, "January 1, 2024 at 9:00 AM", slider.Display)

	s.SetProgress(100)
	assert.Nil(t, s.Cutoff())
	assert.Equal(t, 2, s.VisibleCount())
	assert.True(t, s.Slider().AnyTime)
	assert.Equal(t, schema.AnyTimeLabel, s.Slider().Display)
}

func TestSetProgressClamps(t *testing.T) {
	s := exampleSession(t, Options{})
	s.SetProgress(150)
	assert.Equal(t, 100.0, s.Progress())
	assert.Nil(t, s.Cutoff())

	s.SetProgress(-20)
	assert.Equal(t, 0.0, s.Progress())
	assert.Equal(t, 1, s.VisibleCount())
}

func TestCutoffIsMonotonic(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var rows []schema.Row
	for i := range 20 {
		dt := base.Add(time.Duration(i*i) * 7 * time.Hour)
		rows = append(rows, schema.Row{Commit: fmt.Sprintf("c%02d", i), File: "f.go", Type: "go", Datetime: dt})
	}
	s := NewSession(agg.ProcessCommits(rows, ""), Options{})

	prev := map[string]bool{}
	for p := 0.0; p <= 100; p += 2.5 {
		s.SetProgress(p)
		for id := range prev {
			assert.True(t, s.IsVisible(id), "commit %s disappeared at progress %.1f", id, p)
		}
		for _, c := range s.VisibleCommits() {
			prev[c.ID] = true
		}
	}
	assert.Len(t, prev, 20)
}

func TestBrushOnlySelectsVisible(t *testing.T) {
	s := exampleSession(t, Options{})
	s.SetProgress(0)
	full := s.Layout().Region()
	s.Brush(&full)
	assert.Equal(t, 1, s.SelectionCount())
	assert.False(t, s.IsSelected("b"))
}

func TestHitTestVisibleRebuildsScales(t *testing.T) {
	s := exampleSession(t, Options{HitTest: schema.HitTestVisible})
	assert.Same(t, s.Model(), s.HitModel())

	s.SetProgress(0)
	assert.NotSame(t, s.Model(), s.HitModel())

	// Only a is visible, so the rebuilt time domain is degenerate and a sits mid-plot.
	c, err := s.Commit("a")
	require.NoError(t, err)
	x, _ := s.HitModel().Point(c)
	assert.InDelta(t, (s.Layout().Left()+s.Layout().Right())/2, x, 1e-9)

	s.Brush(regionAround(s, "a"))
	assert.Equal(t, 1, s.SelectionCount())

	s.SetProgress(100)
	full := s.Layout().Region()
	s.Brush(&full)
	assert.Equal(t, 2, s.SelectionCount())
}

func TestVisibleModePointsMatchBrush(t *testing.T) {
	rows := []schema.Row{
		{Commit: "a", File: "x.js", Type: "js", Datetime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{Commit: "b", File: "x.js", Type: "js", Datetime: time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC)},
		{Commit: "c", File: "y.css", Type: "css", Datetime: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)},
	}
	s := NewSession(agg.ProcessCommits(rows, ""), Options{HitTest: schema.HitTestVisible})
	s.SetProgress(50)
	require.True(t, s.IsVisible("a"))
	require.False(t, s.IsVisible("c"))

	var plotted schema.Point
	for _, p := range s.Points() {
		if p.CommitID == "a" {
			plotted = p
		}
	}
	require.Equal(t, "a", plotted.CommitID)

	s.Brush(&schema.Region{X0: plotted.X - 3, Y0: plotted.Y - 3, X1: plotted.X + 3, Y1: plotted.Y + 3})
	assert.Equal(t, 1, s.SelectionCount())
	assert.True(t, s.IsSelected("a"))
}

func TestBrushData(t *testing.T) {
	s := exampleSession(t, Options{})
	s.BrushData(timeA.Add(-time.Hour), timeA.Add(time.Hour), 8, 10)
	assert.Equal(t, 1, s.SelectionCount())
	assert.True(t, s.IsSelected("a"))
}

func TestCommitLookup(t *testing.T) {
	s := exampleSession(t, Options{})
	_, err := s.Commit("missing")
	assert.ErrorIs(t, err, ErrUnknownCommit)
	assert.False(t, s.IsVisible("missing"))
}

func TestPoints(t *testing.T) {
	s := exampleSession(t, Options{Layout: scale.DefaultLayout()})
	points := s.Points()
	require.Len(t, points, 2)
	assert.Equal(t, "a", points[0].CommitID, "largest commit is drawn first")
	assert.InDelta(t, 30, points[0].R, 1e-9)
	assert.True(t, points[1].Visible)

	s.SetProgress(0)
	points = s.Points()
	assert.False(t, points[1].Visible)
}

func TestFiles(t *testing.T) {
	s := exampleSession(t, Options{})
	files := s.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "x.js", files[0].Name)
	assert.Equal(t, 2, files[0].Lines)
	require.Len(t, files[0].Units, 2)
	assert.Equal(t, schema.Tableau10[0], files[0].Units[0].Color)
	assert.Equal(t, "y.css", files[1].Name)
	assert.Equal(t, schema.Tableau10[1], files[1].Units[0].Color)

	// Colors stay stable across recomputations.
	s.Brush(regionAround(s, "b"))
	files = s.Files()
	require.Len(t, files, 1)
	assert.Equal(t, schema.Tableau10[0], files[0].Units[0].Color)
}

func TestColorScaleWraps(t *testing.T) {
	c := NewColorScale()
	for i := range 10 {
		assert.Equal(t, schema.Tableau10[i], c.Color(fmt.Sprintf("t%d", i)))
	}
	assert.Equal(t, schema.Tableau10[0], c.Color("t10"))
	assert.Equal(t, schema.Tableau10[3], c.Color("t3"))
	assert.Len(t, c.Domain(), 11)
}

func TestEmptySession(t *testing.T) {
	s := NewSession(nil, Options{})
	assert.Equal(t, 0, s.VisibleCount())
	s.SetProgress(50)
	assert.Equal(t, 0, s.VisibleCount())
	full := s.Layout().Region()
	s.Brush(&full)
	assert.Equal(t, 0, s.SelectionCount())
	assert.Empty(t, s.Breakdown())
	assert.Empty(t, s.Points())
}
