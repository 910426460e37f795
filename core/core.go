// Package core orchestrates dataset loading, the view session and the command executors.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/core/example"
	"github.com/huangsam/locviz/core/scale"
	"github.com/huangsam/locviz/core/selection"
	"github.com/huangsam/locviz/core/stats"
	"github.com/huangsam/locviz/core/view"
	"github.com/huangsam/locviz/internal/blame"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/outwriter"
	"github.com/huangsam/locviz/schema"
	"github.com/sirupsen/logrus"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Dataset is one loaded change log with everything derived from it at load time.
type Dataset struct {
	Rows    []schema.Row
	Commits []schema.Commit
	Summary schema.Summary
	Info    schema.LoadInfo
}

// LoadDataset reads the configured source and derives commits and statistics.
// When the source cannot be loaded and fallback is enabled, a generated example dataset
// is used instead and the failure is logged as a warning.
func LoadDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Dataset, error) {
	start := time.Now()

	var (
		rowStore contract.CacheStore
		runStore contract.RunStore
	)
	if mgr != nil {
		rowStore = mgr.GetRowStore()
		runStore = mgr.GetRunStore()
	}

	runID := int64(-1)
	if runStore != nil {
		id, err := runStore.BeginRun(start, cfg.Source)
		if err != nil {
			contract.LogWarn("Failed to record run start", err)
		} else {
			runID = id
		}
	}

	endRun := func(info schema.LoadInfo, numRows int, summary schema.Summary) {
		if runID < 0 {
			return
		}
		if err := runStore.EndRun(runID, time.Now(), info, numRows, summary); err != nil {
			contract.LogWarn("Failed to record run end", err)
		}
	}

	rows, info, err := cachedLoadRows(ctx, cfg, rowStore)
	if err != nil {
		if ctx.Err() != nil || !cfg.Fallback {
			// Close the run so failed loads do not stay open
			endRun(info, 0, schema.Summary{})
			return nil, err
		}
		contract.LogWarn(fmt.Sprintf("Cannot load %s, using example data", cfg.Source), err)
		rows = example.Generate(exampleOptions(cfg))
		info = schema.LoadInfo{Source: cfg.Source, Fallback: true}
	}

	commits := agg.ProcessCommits(rows, cfg.RepoURL)
	ds := &Dataset{
		Rows:    rows,
		Commits: commits,
		Summary: stats.Compute(rows, commits),
		Info:    info,
	}
	ds.Info.Duration = time.Since(start)

	endRun(ds.Info, len(rows), ds.Summary)

	contract.LogInfo("Loaded dataset", logrus.Fields{
		"source":   ds.Info.Source,
		"rows":     len(rows),
		"commits":  len(commits),
		"cached":   ds.Info.Cached,
		"fallback": ds.Info.Fallback,
	})
	if !shouldSuppressHeader(ctx) {
		outwriter.WriteLoadHeader(os.Stderr, ds.Info, len(rows), len(commits), cfg)
	}
	return ds, nil
}

// NewCoordinator builds a view session over the dataset and applies the configured
// slider position and brush. Panels may be empty.
func NewCoordinator(ds *Dataset, cfg *contract.Config, panels view.Panels, opener contract.URLOpener) (*view.Coordinator, error) {
	layout := scale.DefaultLayout()
	if cfg.PlotWidth > 0 {
		layout.Width = float64(cfg.PlotWidth)
	}
	if cfg.PlotHeight > 0 {
		layout.Height = float64(cfg.PlotHeight)
	}
	session := selection.NewSession(ds.Commits, selection.Options{Layout: layout, HitTest: cfg.HitTest})
	c := view.New(session, ds.Summary, panels, opener)
	c.Init()

	if cfg.Progress < schema.MaxProgress {
		c.Slide(cfg.Progress)
	}
	switch {
	case cfg.Region != nil:
		if _, err := c.Brush(schema.BrushEnd, cfg.Region); err != nil {
			return nil, err
		}
	case cfg.Window != nil:
		c.BrushData(*cfg.Window)
	}
	return c, nil
}

// ExecuteStats prints the six corpus statistics.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteStats(ds.Summary, ds.Info, cfg)
}

// ExecuteCommits lists commits in the configured sort order.
func ExecuteCommits(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteCommits(limitCommits(agg.Sort(ds.Commits, cfg.Sort), cfg.Limit), cfg)
}

// ExecuteSelect applies the slider position and brush, then prints the selection and its breakdown.
func ExecuteSelect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	c, err := NewCoordinator(ds, cfg, view.Panels{}, nil)
	if err != nil {
		return err
	}
	commits := limitCommits(agg.Sort(c.EffectiveCommits(), cfg.Sort), cfg.Limit)
	return outwriter.WriteSelection(c.Result(), commits, cfg)
}

// ExecuteFiles prints the file composition of the effective commits.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	c, err := NewCoordinator(ds, cfg, view.Panels{}, nil)
	if err != nil {
		return err
	}
	files := c.Files()
	if cfg.Limit > 0 && len(files) > cfg.Limit {
		files = files[:cfg.Limit]
	}
	return outwriter.WriteFiles(files, cfg)
}

// ExecuteStory prints the scroll narrative, one step per commit in dataset order.
func ExecuteStory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	steps := view.BuildSteps(ds.Commits)
	if cfg.Limit > 0 && len(steps) > cfg.Limit {
		steps = steps[:cfg.Limit]
	}
	return outwriter.WriteStory(steps, cfg)
}

// ExecuteChart renders the interactive page to an HTML file and optionally opens it.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	c, err := NewCoordinator(ds, cfg, view.Panels{}, nil)
	if err != nil {
		return err
	}
	page := outwriter.ChartPage{
		Title:     filepath.Base(ds.Info.Source),
		Stats:     ds.Summary.Entries(),
		Commits:   ds.Commits,
		Points:    c.Points(),
		Slider:    c.Slider(),
		Breakdown: c.Breakdown(),
		Files:     c.Files(),
		Colors:    c.Colors(),
	}
	path, err := outwriter.WriteChart(page, cfg)
	if err != nil {
		return err
	}
	if cfg.Open {
		return contract.BrowserOpener{}.OpenURL(path)
	}
	return nil
}

// ExecuteGenerate produces a change log either from a git repository or synthetically.
func ExecuteGenerate(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	var (
		rows []schema.Row
		err  error
	)
	if cfg.Example {
		rows = example.Generate(exampleOptions(cfg))
	} else {
		rows, err = blame.CollectRows(ctx, cfg.Source, blame.Options{
			Workers:  cfg.Workers,
			Excludes: cfg.Excludes,
			TypeMode: cfg.TypeMode,
			Location: cfg.Location,
			Progress: !shouldSuppressHeader(ctx),
		})
		if err != nil {
			return err
		}
	}
	return outwriter.WriteRows(rows, cfg)
}

func exampleOptions(cfg *contract.Config) example.Options {
	return example.Options{
		Commits:  cfg.ExampleCommits,
		Seed:     cfg.ExampleSeed,
		TypeMode: cfg.TypeMode,
	}
}

func limitCommits(commits []schema.Commit, limit int) []schema.Commit {
	if limit > 0 && len(commits) > limit {
		return commits[:limit]
	}
	return commits
}
