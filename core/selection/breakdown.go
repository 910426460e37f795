package selection

import (
	"slices"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/schema"
)

// Breakdown groups the rows of the effective commits by type in first-seen order.
// It is empty when the effective commit set is empty.
func (s *Session) Breakdown() []schema.BreakdownEntry {
	return Breakdown(agg.FlattenLines(s.EffectiveCommits()))
}

// Breakdown groups rows by type with counts and shares of the total.
func Breakdown(rows []schema.Row) []schema.BreakdownEntry {
	entries := []schema.BreakdownEntry{}
	if len(rows) == 0 {
		return entries
	}
	pos := make(map[string]int)
	for _, r := range rows {
		i, ok := pos[r.Type]
		if !ok {
			i = len(entries)
			pos[r.Type] = i
			entries = append(entries, schema.BreakdownEntry{Type: r.Type})
		}
		entries[i].Count++
	}
	for i := range entries {
		entries[i].Fraction = float64(entries[i].Count) / float64(len(rows))
		entries[i].Formatted = schema.FormatPercent(entries[i].Fraction)
	}
	return entries
}

// Files groups the rows of the effective commits by file, most lines first.
// Every row becomes one unit colored by its type.
func (s *Session) Files() []schema.FileGroup {
	rows := agg.FlattenLines(s.EffectiveCommits())
	groups := []schema.FileGroup{}
	pos := make(map[string]int)
	for _, r := range rows {
		i, ok := pos[r.File]
		if !ok {
			i = len(groups)
			pos[r.File] = i
			groups = append(groups, schema.FileGroup{Name: r.File})
		}
		groups[i].Units = append(groups[i].Units, schema.LineUnit{Type: r.Type, Color: s.colors.Color(r.Type)})
		groups[i].Lines++
	}
	slices.SortStableFunc(groups, func(a, b schema.FileGroup) int {
		return b.Lines - a.Lines
	})
	return groups
}
