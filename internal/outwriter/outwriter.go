// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML encodes data as a YAML document with two-space indentation.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// writeStructured dispatches the JSON and YAML modes, which serialize the same value.
// It reports false for every other mode.
func writeStructured(cfg *contract.Config, data any) (bool, error) {
	switch cfg.Output {
	case schema.JSONOut:
		return true, writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, data)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return true, writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, data)
		}, "Wrote YAML")
	}
	return false, nil
}

// renderTable writes a right-aligned table with the given header.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// getMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and the width already taken by the other columns.
func getMaxTablePathWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Table borders, separators, and padding
	available := termWidth - reserved - 10
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// WriteLoadHeader prints one line describing where the dataset came from.
func WriteLoadHeader(w io.Writer, info schema.LoadInfo, numRows, numCommits int, cfg *contract.Config) {
	source := info.Source
	switch {
	case info.Fallback:
		source = "example data (" + info.Source + " unavailable)"
	case info.Cached:
		source += " (cached)"
	}
	_, _ = fmt.Fprintf(w, "📂 %s: %s rows, %s commits in %s\n",
		contract.Colorize(contract.LabelColor, source, cfg.UseColors),
		humanize.Comma(int64(numRows)),
		humanize.Comma(int64(numCommits)),
		info.Duration.Round(time.Millisecond),
	)
}

// typeColor returns a console color for a hex palette entry.
func typeColor(hex string) *color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return contract.MutedColor
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return contract.MutedColor
	}
	return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff))
}

func unsupportedOutput(cfg *contract.Config, what string) error {
	return fmt.Errorf("%s output is not supported for %s", cfg.Output, what)
}
