// Package view wires the selection engine to rendering panels and
// serializes the interaction events that drive it.
package view

import (
	"fmt"
	"slices"
	"sync"

	"github.com/huangsam/locviz/core/selection"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/sirupsen/logrus"
)

// Panels are the rendering targets. A nil sink is a missing target and is skipped.
type Panels struct {
	Stats     func(entries []schema.StatEntry)
	Scatter   func(points []schema.Point)
	Tooltip   func(tip schema.Tooltip, visible bool)
	Highlight func(id string, on bool)
	Count     func(text string, n int)
	Breakdown func(entries []schema.BreakdownEntry)
	Files     func(files []schema.FileGroup)
	Slider    func(state schema.SliderState)
	Steps     func(steps []schema.Step)
	StepState func(index int, active bool)
}

// Coordinator applies interaction events to a session and pushes the
// recomputed views to the panels. Events are applied one at a time.
type Coordinator struct {
	mu      sync.Mutex
	session *selection.Session
	summary schema.Summary
	panels  Panels
	opener  contract.URLOpener
	steps   []schema.Step
	log     logrus.FieldLogger
}

// New creates a coordinator. The story steps follow the session's commit order.
func New(session *selection.Session, summary schema.Summary, panels Panels, opener contract.URLOpener) *Coordinator {
	return &Coordinator{
		session: session,
		summary: summary,
		panels:  panels,
		opener:  opener,
		steps:   BuildSteps(session.Commits()),
		log:     contract.Logger,
	}
}

// Init renders every panel from the initial state.
func (c *Coordinator) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panels.Stats != nil {
		c.panels.Stats(c.summary.Entries())
	}
	c.pushPoints()
	if c.panels.Slider != nil {
		c.panels.Slider(c.session.Slider())
	}
	c.pushCount()
	c.pushBreakdown()
	c.pushFiles()
	if c.panels.Steps != nil {
		c.panels.Steps(slices.Clone(c.steps))
	}
}

// PointerEnter shows the tooltip for a commit and highlights its point.
func (c *Coordinator) PointerEnter(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.session.Commit(id)
	if err != nil {
		return err
	}
	if c.panels.Tooltip != nil {
		c.panels.Tooltip(BuildTooltip(commit), true)
	}
	if c.panels.Highlight != nil {
		c.panels.Highlight(id, true)
	}
	return nil
}

// PointerLeave hides the tooltip and removes the highlight.
func (c *Coordinator) PointerLeave(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.session.Commit(id)
	if err != nil {
		return err
	}
	if c.panels.Tooltip != nil {
		c.panels.Tooltip(BuildTooltip(commit), false)
	}
	if c.panels.Highlight != nil {
		c.panels.Highlight(id, false)
	}
	return nil
}

// Click opens the commit URL.
func (c *Coordinator) Click(id string) error {
	c.mu.Lock()
	commit, err := c.session.Commit(id)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if c.opener == nil {
		return fmt.Errorf("no URL opener configured for %s", commit.URL)
	}
	return c.opener.OpenURL(commit.URL)
}

// Brush applies a brush event. Every phase recomputes the selection from the region;
// a nil region clears it.
func (c *Coordinator) Brush(phase schema.BrushPhase, region *schema.Region) (schema.SelectionResult, error) {
	switch phase {
	case schema.BrushStart, schema.BrushMove, schema.BrushEnd:
	default:
		return schema.SelectionResult{}, fmt.Errorf("invalid brush phase %q", phase)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Brush(region)
	c.pushPoints()
	c.pushCount()
	c.pushBreakdown()
	return c.session.Result(), nil
}

// BrushData brushes by a datetime window and an hour-of-day range.
func (c *Coordinator) BrushData(w contract.DataWindow) schema.SelectionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.BrushData(w.From, w.To, w.HourFrom, w.HourTo)
	c.pushPoints()
	c.pushCount()
	c.pushBreakdown()
	return c.session.Result()
}

// Slide moves the time slider. The brush is cleared and every dependent view recomputed.
func (c *Coordinator) Slide(progress float64) schema.SelectionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.SetProgress(progress)
	c.pushPoints()
	if c.panels.Slider != nil {
		c.panels.Slider(c.session.Slider())
	}
	c.pushCount()
	c.pushBreakdown()
	c.pushFiles()
	return c.session.Result()
}

// StepEnter marks a narrative step active and logs its commit time.
func (c *Coordinator) StepEnter(index int) error {
	return c.setStep(index, true)
}

// StepExit marks a narrative step inactive.
func (c *Coordinator) StepExit(index int) error {
	return c.setStep(index, false)
}

func (c *Coordinator) setStep(index int, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.steps) {
		return fmt.Errorf("step %d out of range [0,%d)", index, len(c.steps))
	}
	c.steps[index].Active = active
	if active {
		c.log.WithFields(logrus.Fields{"step": index, "commit": c.steps[index].CommitID}).
			Info(c.steps[index].Datetime.String())
	}
	if c.panels.StepState != nil {
		c.panels.StepState(index, active)
	}
	return nil
}

// Tooltip returns the hover card for a commit without touching the panels.
func (c *Coordinator) Tooltip(id string) (schema.Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.session.Commit(id)
	if err != nil {
		return schema.Tooltip{}, err
	}
	return BuildTooltip(commit), nil
}

// Steps returns a copy of the narrative steps with their active flags.
func (c *Coordinator) Steps() []schema.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.steps)
}

// Summary returns the corpus statistics.
func (c *Coordinator) Summary() schema.Summary {
	return c.summary
}

// Result returns the current filter state and its dependent aggregates.
func (c *Coordinator) Result() schema.SelectionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Result()
}

// Breakdown returns the type breakdown of the effective commits.
func (c *Coordinator) Breakdown() []schema.BreakdownEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Breakdown()
}

// Files returns the file composition of the effective commits.
func (c *Coordinator) Files() []schema.FileGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Files()
}

// Points returns the scatter points with their visibility and selection flags.
func (c *Coordinator) Points() []schema.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Points()
}

// Slider returns the slider panel state.
func (c *Coordinator) Slider() schema.SliderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Slider()
}

// Commits returns every commit in dataset order.
func (c *Coordinator) Commits() []schema.Commit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Commits()
}

// EffectiveCommits returns the brushed commits when a brush is active, else the visible ones.
func (c *Coordinator) EffectiveCommits() []schema.Commit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.EffectiveCommits()
}

// Colors returns the type to color assignments made so far, in assignment order.
func (c *Coordinator) Colors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	colors := make(map[string]string)
	for _, typ := range c.session.Colors().Domain() {
		colors[typ] = c.session.Colors().Color(typ)
	}
	return colors
}

func (c *Coordinator) pushPoints() {
	if c.panels.Scatter != nil {
		c.panels.Scatter(c.session.Points())
	}
}

func (c *Coordinator) pushCount() {
	if c.panels.Count != nil {
		n := c.session.SelectionCount()
		c.panels.Count(CountText(n), n)
	}
}

func (c *Coordinator) pushBreakdown() {
	if c.panels.Breakdown != nil {
		c.panels.Breakdown(c.session.Breakdown())
	}
}

func (c *Coordinator) pushFiles() {
	if c.panels.Files != nil {
		c.panels.Files(c.session.Files())
	}
}
