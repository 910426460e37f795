package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// nameParts splits an author name into parts with surrounding punctuation removed.
func nameParts(name string) []string {
	var parts []string
	for _, p := range strings.Fields(strings.Trim(name, "()\"'`")) {
		p = strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		if p = strings.TrimSuffix(p, "."); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// AbbreviateName shortens an author name for narrow table columns, e.g. "Samuel Huang" to "Samuel H".
// Single-word names and bot accounts are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return strings.Join(strings.Fields(trimmed), " ")
	}
	parts := nameParts(trimmed)
	switch len(parts) {
	case 0:
		return trimmed
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0])
}

// TimeOfDay maps an hour of day to its coarse label.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// DayName returns the weekday name for a 0=Sunday index, or "" when out of range.
func DayName(day int) string {
	if day < 0 || day >= len(DaysOfWeek) {
		return ""
	}
	return DaysOfWeek[day]
}

// FormatPercent formats a fraction as a percentage with one decimal place, e.g. "42.3%".
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

// Entries returns the six labeled statistics in display order.
func (s Summary) Entries() []StatEntry {
	return []StatEntry{
		{Label: StatCommits, Value: strconv.Itoa(s.NumCommits)},
		{Label: StatFiles, Value: strconv.Itoa(s.NumFiles)},
		{Label: StatLongestFile, Value: s.LongestFile},
		{Label: StatMaxFileLength, Value: fmt.Sprintf("%d lines", s.MaxFileLength)},
		{Label: StatActiveTime, Value: s.TimeOfDay},
		{Label: StatActiveDay, Value: s.DayOfWeek},
	}
}

// Normalize returns the region with X0 <= X1 and Y0 <= Y1.
func (r Region) Normalize() Region {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Contains reports whether (x, y) lies inside the region, bounds included.
func (r Region) Contains(x, y float64) bool {
	n := r.Normalize()
	return x >= n.X0 && x <= n.X1 && y >= n.Y0 && y <= n.Y1
}

// ErrInvalidRegion is returned for a malformed brush region.
var ErrInvalidRegion = errors.New("invalid region")

// ParseRegion parses "x0,y0,x1,y1" into a Region.
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: need 4 comma-separated numbers, got %q", ErrInvalidRegion, s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("%w: coordinate %q: %v", ErrInvalidRegion, p, err)
		}
		vals[i] = v
	}
	return Region{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, nil
}
