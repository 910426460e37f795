package outwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// DefaultChartFile is where the chart page goes without --output-file.
const DefaultChartFile = "locviz.html"

const (
	selectedColor = "#ff6b6b"
	visibleColor  = "#4e79a7"
	maxBarFiles   = 30
)

// ChartPage is everything drawn on the HTML page.
type ChartPage struct {
	Title     string
	Stats     []schema.StatEntry
	Commits   []schema.Commit
	Points    []schema.Point
	Slider    schema.SliderState
	Breakdown []schema.BreakdownEntry
	Files     []schema.FileGroup
	Colors    map[string]string // type to palette color
}

// WriteChart renders the page to an HTML file and returns its absolute path.
func WriteChart(page ChartPage, cfg *contract.Config) (string, error) {
	path := cfg.OutputFile
	if path == "" {
		path = DefaultChartFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	err = writeWithFile(abs, func(w io.Writer) error {
		return RenderChart(w, page, cfg)
	}, "Wrote chart")
	return abs, err
}

// RenderChart writes the page HTML.
func RenderChart(w io.Writer, page ChartPage, cfg *contract.Config) error {
	p := components.NewPage()
	p.PageTitle = "locviz: " + page.Title
	p.AddCharts(
		buildScatter(page, cfg),
		buildBreakdownPie(page),
		buildFilesBar(page),
	)
	if err := p.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func chartInit(cfg *contract.Config) opts.Initialization {
	width, height := cfg.PlotWidth, cfg.PlotHeight
	if width <= 0 {
		width = contract.DefaultPlotWidth
	}
	if height <= 0 {
		height = contract.DefaultPlotHeight
	}
	return opts.Initialization{Width: fmt.Sprintf("%dpx", width), Height: fmt.Sprintf("%dpx", height)}
}

// buildScatter plots visible commits by time and hour of day. Brushed commits get their own series.
func buildScatter(page ChartPage, cfg *contract.Config) *charts.Scatter {
	byID := make(map[string]schema.Commit, len(page.Commits))
	for _, c := range page.Commits {
		byID[c.ID] = c
	}

	statParts := make([]string, 0, len(page.Stats))
	for _, s := range page.Stats {
		statParts = append(statParts, s.Label+": "+s.Value)
	}

	title := "Commits by time of day"
	if !page.Slider.AnyTime {
		title += " (up to " + page.Slider.Display + ")"
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit(cfg)),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: strings.Join(statParts, " | "),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Time of day", Type: "value", Min: 0, Max: 24}),
	)

	var visible, selected []opts.ScatterData
	for _, p := range page.Points {
		c, ok := byID[p.CommitID]
		if !ok || !p.Visible {
			continue
		}
		point := opts.ScatterData{
			Name:       c.ID,
			Value:      []any{c.Datetime.UnixMilli(), c.HourFrac, c.TotalLines},
			SymbolSize: max(1, int(p.R*2)),
		}
		if p.Selected {
			selected = append(selected, point)
		} else {
			visible = append(visible, point)
		}
	}
	scatter.AddSeries("Commits", visible, charts.WithItemStyleOpts(opts.ItemStyle{Color: visibleColor}))
	if len(selected) > 0 {
		scatter.AddSeries("Selected", selected, charts.WithItemStyleOpts(opts.ItemStyle{Color: selectedColor}))
	}
	return scatter
}

// buildBreakdownPie draws the line-type shares of the effective commits.
func buildBreakdownPie(page ChartPage) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Language breakdown"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	data := make([]opts.PieData, 0, len(page.Breakdown))
	for _, e := range page.Breakdown {
		data = append(data, opts.PieData{
			Name:      e.Type + " (" + e.Formatted + ")",
			Value:     e.Count,
			ItemStyle: &opts.ItemStyle{Color: page.Colors[e.Type]},
		})
	}
	pie.AddSeries("Lines", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

// buildFilesBar stacks each file's lines by type, largest files first.
func buildFilesBar(page ChartPage) *charts.Bar {
	files := page.Files
	if len(files) > maxBarFiles {
		files = files[:maxBarFiles]
	}

	names := make([]string, len(files))
	var types []string
	counts := make(map[string][]int)
	for i, f := range files {
		names[i] = f.Name
		for _, u := range f.Units {
			if _, ok := counts[u.Type]; !ok {
				types = append(types, u.Type)
				counts[u.Type] = make([]int, len(files))
			}
			counts[u.Type][i]++
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Files"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
	)
	bar.SetXAxis(names)
	for _, typ := range types {
		data := make([]opts.BarData, len(files))
		for i, n := range counts[typ] {
			data[i] = opts.BarData{Value: n}
		}
		bar.AddSeries(typ, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "lines"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: page.Colors[typ]}),
		)
	}
	return bar
}
