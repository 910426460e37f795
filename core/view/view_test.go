package view

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/core/selection"
	"github.com/huangsam/locviz/core/stats"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	timeA = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	timeB = time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)
)

func exampleRows() []schema.Row {
	return []schema.Row{
		{Commit: "a", File: "x.js", Type: "js", Author: "ana", Datetime: timeA, Time: "09:00:00"},
		{Commit: "a", File: "y.css", Type: "css", Author: "ana", Datetime: timeA, Time: "09:00:00"},
		{Commit: "b", File: "x.js", Type: "js", Author: "bo", Datetime: timeB},
	}
}

type recorder struct {
	stats     [][]schema.StatEntry
	scatter   [][]schema.Point
	tooltips  []schema.Tooltip
	shown     []bool
	highlight map[string]bool
	counts    []string
	breakdown [][]schema.BreakdownEntry
	files     [][]schema.FileGroup
	sliders   []schema.SliderState
	steps     []schema.Step
	active    map[int]bool
}

func (r *recorder) panels() Panels {
	r.highlight = map[string]bool{}
	r.active = map[int]bool{}
	return Panels{
		Stats:   func(e []schema.StatEntry) { r.stats = append(r.stats, e) },
		Scatter: func(p []schema.Point) { r.scatter = append(r.scatter, p) },
		Tooltip: func(t schema.Tooltip, visible bool) {
			r.tooltips = append(r.tooltips, t)
			r.shown = append(r.shown, visible)
		},
		Highlight: func(id string, on bool) { r.highlight[id] = on },
		Count:     func(text string, _ int) { r.counts = append(r.counts, text) },
		Breakdown: func(e []schema.BreakdownEntry) { r.breakdown = append(r.breakdown, e) },
		Files:     func(f []schema.FileGroup) { r.files = append(r.files, f) },
		Slider:    func(s schema.SliderState) { r.sliders = append(r.sliders, s) },
		Steps:     func(s []schema.Step) { r.steps = s },
		StepState: func(i int, on bool) { r.active[i] = on },
	}
}

func newCoordinator(t *testing.T, panels Panels, opener contract.URLOpener) *Coordinator {
	t.Helper()
	rows := exampleRows()
	commits := agg.ProcessCommits(rows, "https://example.com/repo")
	session := selection.NewSession(commits, selection.Options{})
	return New(session, stats.Compute(rows, commits), panels, opener)
}

func regionAround(t *testing.T, c *Coordinator, id string) *schema.Region {
	t.Helper()
	commit, err := c.session.Commit(id)
	require.NoError(t, err)
	x, y := c.session.HitModel().Point(commit)
	return &schema.Region{X0: x - 5, Y0: y - 5, X1: x + 5, Y1: y + 5}
}

func TestBuildSteps(t *testing.T) {
	commits := agg.ProcessCommits(exampleRows(), "https://example.com/repo")
	steps := BuildSteps(commits)
	require.Len(t, steps, 2)

	assert.Equal(t, "a", steps[0].CommitID)
	assert.Equal(t, firstCommitText, steps[0].LinkText)
	assert.Equal(t, "https://example.com/repo/commit/a", steps[0].URL)
	assert.Equal(t, 2, steps[0].NumFiles)
	assert.Equal(t,
		"On Monday, January 1, 2024 at 9:00 AM, I made my first commit, and it was glorious. "+
			"I edited 2 lines across 2 files. Then I looked over all I had made, and I saw that it was very good.",
		steps[0].Text)

	assert.Equal(t, laterCommitText, steps[1].LinkText)
	assert.Contains(t, steps[1].Text, "On Tuesday, January 2, 2024 at 2:00 PM, I made another glorious commit.")
	assert.Contains(t, steps[1].Text, "I edited 1 lines across 1 files.")
	assert.Equal(t, 1, steps[1].Index)

	assert.Empty(t, BuildSteps(nil))
}

func TestBuildTooltip(t *testing.T) {
	tests := []struct {
		name   string
		commit schema.Commit
		want   schema.Tooltip
	}{
		{
			name:   "raw time wins",
			commit: schema.Commit{ID: "a", Author: "ana", Time: "09:00:00", Datetime: timeA, TotalLines: 2},
			want:   schema.Tooltip{CommitID: "a", Date: "Monday, January 1, 2024", Time: "09:00:00", Author: "ana", Lines: 2},
		},
		{
			name:   "formatted time fallback",
			commit: schema.Commit{ID: "b", Datetime: timeB, TotalLines: 1},
			want:   schema.Tooltip{CommitID: "b", Date: "Tuesday, January 2, 2024", Time: "2:00:00 PM", Author: "Unknown", Lines: 1},
		},
		{
			name:   "missing timestamp",
			commit: schema.Commit{ID: "c"},
			want:   schema.Tooltip{CommitID: "c", Date: "Unknown", Time: "Unknown", Author: "Unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTooltip(tt.commit))
		})
	}
}

func TestCountText(t *testing.T) {
	assert.Equal(t, "0 commits selected", CountText(0))
	assert.Equal(t, "3 commits selected", CountText(3))
}

func TestCoordinatorInit(t *testing.T) {
	r := &recorder{}
	c := newCoordinator(t, r.panels(), nil)
	c.Init()

	require.Len(t, r.stats, 1)
	assert.Equal(t, schema.StatEntry{Label: schema.StatCommits, Value: "2"}, r.stats[0][0])
	require.Len(t, r.scatter, 1)
	assert.Len(t, r.scatter[0], 2)
	require.Len(t, r.sliders, 1)
	assert.True(t, r.sliders[0].AnyTime)
	assert.Equal(t, []string{"0 commits selected"}, r.counts)
	require.Len(t, r.files, 1)
	assert.Len(t, r.files[0], 2)
	assert.Len(t, r.steps, 2)
}

func TestCoordinatorNilPanels(t *testing.T) {
	c := newCoordinator(t, Panels{}, nil)
	assert.NotPanics(t, func() {
		c.Init()
		_, _ = c.Brush(schema.BrushEnd, nil)
		c.Slide(50)
		require.NoError(t, c.StepEnter(0))
		require.NoError(t, c.PointerEnter("a"))
	})
}

func TestCoordinatorBrush(t *testing.T) {
	r := &recorder{}
	c := newCoordinator(t, r.panels(), nil)

	for _, phase := range []schema.BrushPhase{schema.BrushStart, schema.BrushMove, schema.BrushEnd} {
		res, err := c.Brush(phase, regionAround(t, c, "a"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, res.Commits)
	}
	assert.Equal(t, []string{"1 commits selected", "1 commits selected", "1 commits selected"}, r.counts)

	last := r.breakdown[len(r.breakdown)-1]
	require.Len(t, last, 2)
	assert.Equal(t, "50.0%", last[0].Formatted)
	assert.Equal(t, "50.0%", last[1].Formatted)

	res, err := c.Brush(schema.BrushEnd, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Selected)
	assert.Equal(t, "0 commits selected", r.counts[len(r.counts)-1])

	_, err = c.Brush("drag", nil)
	assert.Error(t, err)
}

func TestCoordinatorBrushData(t *testing.T) {
	c := newCoordinator(t, Panels{}, nil)
	res := c.BrushData(contract.DataWindow{
		From:     timeA.Add(-time.Hour),
		To:       timeA.Add(time.Hour),
		HourFrom: 8,
		HourTo:   10,
	})
	assert.Equal(t, []string{"a"}, res.Commits)
}

func TestCoordinatorSlide(t *testing.T) {
	r := &recorder{}
	c := newCoordinator(t, r.panels(), nil)

	_, err := c.Brush(schema.BrushEnd, regionAround(t, c, "a"))
	require.NoError(t, err)

	res := c.Slide(0)
	assert.Equal(t, 0, res.Selected)
	assert.Nil(t, res.Region)
	assert.Equal(t, 1, res.Visible)
	assert.Equal(t, "0 commits selected", r.counts[len(r.counts)-1])

	slider := r.sliders[len(r.sliders)-1]
	assert.False(t, slider.AnyTime)
	require.NotNil(t, slider.Cutoff)

	files := r.files[len(r.files)-1]
	require.Len(t, files, 2)

	res = c.Slide(100)
	assert.Equal(t, 2, res.Visible)
	assert.True(t, c.Slider().AnyTime)
}

func TestCoordinatorPointer(t *testing.T) {
	r := &recorder{}
	c := newCoordinator(t, r.panels(), nil)

	require.NoError(t, c.PointerEnter("a"))
	assert.True(t, r.highlight["a"])
	assert.Equal(t, "ana", r.tooltips[0].Author)
	assert.True(t, r.shown[0])

	require.NoError(t, c.PointerLeave("a"))
	assert.False(t, r.highlight["a"])
	assert.False(t, r.shown[1])

	assert.ErrorIs(t, c.PointerEnter("zzz"), selection.ErrUnknownCommit)
	_, err := c.Tooltip("zzz")
	assert.ErrorIs(t, err, selection.ErrUnknownCommit)
}

func TestCoordinatorClick(t *testing.T) {
	var opened []string
	opener := contract.OpenerFunc(func(url string) error {
		opened = append(opened, url)
		return nil
	})
	c := newCoordinator(t, Panels{}, opener)

	require.NoError(t, c.Click("b"))
	assert.Equal(t, []string{"https://example.com/repo/commit/b"}, opened)
	assert.ErrorIs(t, c.Click("zzz"), selection.ErrUnknownCommit)

	failing := newCoordinator(t, Panels{}, contract.OpenerFunc(func(string) error { return errors.New("no browser") }))
	assert.EqualError(t, failing.Click("a"), "no browser")

	assert.Error(t, newCoordinator(t, Panels{}, nil).Click("a"))
}

func TestCoordinatorSteps(t *testing.T) {
	r := &recorder{}
	c := newCoordinator(t, r.panels(), nil)

	require.NoError(t, c.StepEnter(1))
	assert.True(t, r.active[1])
	assert.True(t, c.Steps()[1].Active)

	require.NoError(t, c.StepExit(1))
	assert.False(t, c.Steps()[1].Active)

	assert.Error(t, c.StepEnter(2))
	assert.Error(t, c.StepExit(-1))
}
