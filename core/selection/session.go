// Package selection owns the mutable view state: the time cutoff, the brush
// region and the aggregates that depend on them.
package selection

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/huangsam/locviz/core/scale"
	"github.com/huangsam/locviz/schema"
)

// ErrUnknownCommit is returned when a commit id is not part of the session.
var ErrUnknownCommit = errors.New("unknown commit")

// Options configure a session.
type Options struct {
	Layout  scale.Layout
	HitTest schema.HitTestMode
}

// Session is the view state of one loaded dataset.
// It is not safe for concurrent use; the view coordinator serializes access.
type Session struct {
	commits  []schema.Commit
	index    map[string]int
	layout   scale.Layout
	hitMode  schema.HitTestMode
	plot     *scale.Model
	hit      *scale.Model
	progress *scale.Time
	colors   *ColorScale

	position float64
	cutoff   *time.Time
	region   *schema.Region
	visible  []bool
	selected []bool
}

// NewSession creates a session over commits with every commit visible and nothing selected.
func NewSession(commits []schema.Commit, opts Options) *Session {
	if opts.Layout.Width == 0 || opts.Layout.Height == 0 {
		opts.Layout = scale.DefaultLayout()
	}
	if opts.HitTest == "" {
		opts.HitTest = schema.HitTestFull
	}
	s := &Session{
		commits:  commits,
		index:    make(map[string]int, len(commits)),
		layout:   opts.Layout,
		hitMode:  opts.HitTest,
		plot:     scale.NewModel(commits, opts.Layout),
		progress: scale.NewProgress(commits),
		colors:   NewColorScale(),
		position: schema.MaxProgress,
		visible:  make([]bool, len(commits)),
		selected: make([]bool, len(commits)),
	}
	for i, c := range commits {
		if _, ok := s.index[c.ID]; !ok {
			s.index[c.ID] = i
		}
		s.visible[i] = true
	}
	s.hit = s.plot
	return s
}

// Commits returns every commit in dataset order.
func (s *Session) Commits() []schema.Commit { return s.commits }

// Commit looks up a commit by id.
func (s *Session) Commit(id string) (schema.Commit, error) {
	i, ok := s.index[id]
	if !ok {
		return schema.Commit{}, fmt.Errorf("%w: %s", ErrUnknownCommit, id)
	}
	return s.commits[i], nil
}

// Model returns the scales built once from every commit.
func (s *Session) Model() *scale.Model { return s.plot }

// HitModel returns the scales used to hit-test brush regions.
func (s *Session) HitModel() *scale.Model { return s.hit }

// Layout returns the plot layout.
func (s *Session) Layout() scale.Layout { return s.layout }

// Colors returns the session's type color scale.
func (s *Session) Colors() *ColorScale { return s.colors }

// Progress returns the slider position in [0, 100].
func (s *Session) Progress() float64 { return s.position }

// Cutoff returns the current time cutoff, or nil when every commit is visible.
func (s *Session) Cutoff() *time.Time { return s.cutoff }

// Region returns the active brush region, or nil.
func (s *Session) Region() *schema.Region { return s.region }

// SetProgress moves the time slider. The position is clamped to [0, 100] and 100 removes the cutoff.
// Any brush selection is cleared.
func (s *Session) SetProgress(p float64) {
	if math.IsNaN(p) {
		p = schema.MaxProgress
	}
	p = math.Max(0, math.Min(schema.MaxProgress, p))
	s.position = p

	if p == schema.MaxProgress {
		s.cutoff = nil
	} else {
		cutoff := s.progress.Invert(p)
		s.cutoff = &cutoff
	}
	for i, c := range s.commits {
		s.visible[i] = s.cutoff == nil || !c.Datetime.After(*s.cutoff)
	}

	if s.hitMode == schema.HitTestVisible {
		s.hit = scale.NewModel(s.VisibleCommits(), s.layout)
	}
	s.Brush(nil)
}

// Brush selects the visible commits whose plotted point lies inside the region, bounds included.
// A nil region clears the selection.
func (s *Session) Brush(region *schema.Region) {
	if region == nil {
		s.region = nil
		clear(s.selected)
		return
	}
	n := region.Normalize()
	s.region = &n
	for i, c := range s.commits {
		x, y := s.hit.Point(c)
		s.selected[i] = s.visible[i] && n.Contains(x, y)
	}
}

// BrushData selects commits by data values: a datetime range and an hour-of-day range.
// The bounds are mapped through the hit-testing scales into a pixel region.
func (s *Session) BrushData(from, to time.Time, hourFrom, hourTo float64) {
	s.Brush(&schema.Region{
		X0: s.hit.X.Scale(from),
		Y0: s.hit.Y.Scale(hourFrom),
		X1: s.hit.X.Scale(to),
		Y1: s.hit.Y.Scale(hourTo),
	})
}

// IsVisible reports whether the commit with the given id passes the time cutoff.
func (s *Session) IsVisible(id string) bool {
	i, ok := s.index[id]
	return ok && s.visible[i]
}

// IsSelected reports whether the commit with the given id is inside the brush.
func (s *Session) IsSelected(id string) bool {
	i, ok := s.index[id]
	return ok && s.selected[i]
}

// VisibleCommits returns the commits passing the time cutoff in dataset order.
func (s *Session) VisibleCommits() []schema.Commit {
	return s.filter(s.visible)
}

// SelectedCommits returns the brushed commits in dataset order.
func (s *Session) SelectedCommits() []schema.Commit {
	return s.filter(s.selected)
}

// VisibleCount returns the number of commits passing the time cutoff.
func (s *Session) VisibleCount() int {
	return count(s.visible)
}

// SelectionCount returns the number of brushed commits. It is 0 without a brush region.
func (s *Session) SelectionCount() int {
	if s.region == nil {
		return 0
	}
	return count(s.selected)
}

// EffectiveCommits returns the brushed commits when a brush is active, else the visible commits.
func (s *Session) EffectiveCommits() []schema.Commit {
	if s.region != nil {
		return s.SelectedCommits()
	}
	return s.VisibleCommits()
}

// Points returns the plotted commits, largest first so that small circles are drawn on top.
// Points are placed with the hit-testing scales so that a brush drawn around a point selects it.
func (s *Session) Points() []schema.Point {
	points := make([]schema.Point, 0, len(s.commits))
	for i, c := range s.commits {
		x, y := s.hit.Point(c)
		points = append(points, schema.Point{
			CommitID: c.ID,
			X:        x,
			Y:        y,
			R:        s.hit.Radius(c),
			Visible:  s.visible[i],
			Selected: s.selected[i],
		})
	}
	lines := func(p schema.Point) int { return s.commits[s.index[p.CommitID]].TotalLines }
	slices.SortStableFunc(points, func(a, b schema.Point) int {
		return lines(b) - lines(a)
	})
	return points
}

// Slider returns the slider panel state.
func (s *Session) Slider() schema.SliderState {
	state := schema.SliderState{Progress: s.position, Cutoff: s.cutoff}
	if s.cutoff == nil {
		state.AnyTime = true
		state.Display = schema.AnyTimeLabel
		return state
	}
	state.Display = s.cutoff.Format(schema.SliderTimeLayout)
	return state
}

// Result bundles the filter state with its dependent counts and breakdown.
func (s *Session) Result() schema.SelectionResult {
	res := schema.SelectionResult{
		Progress:  s.position,
		Cutoff:    s.cutoff,
		Region:    s.region,
		Visible:   s.VisibleCount(),
		Selected:  s.SelectionCount(),
		Commits:   []string{},
		Breakdown: s.Breakdown(),
	}
	for _, c := range s.SelectedCommits() {
		res.Commits = append(res.Commits, c.ID)
	}
	return res
}

func (s *Session) filter(mask []bool) []schema.Commit {
	var out []schema.Commit
	for i, c := range s.commits {
		if mask[i] {
			out = append(out, c)
		}
	}
	return out
}

func count(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
