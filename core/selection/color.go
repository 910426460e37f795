package selection

import "github.com/huangsam/locviz/schema"

// ColorScale assigns palette colors to line types in first-seen order.
// A type keeps its color for the lifetime of the scale; the palette wraps after ten types.
type ColorScale struct {
	assigned map[string]string
	order    []string
}

// NewColorScale creates an empty ordinal color scale over the Tableau10 palette.
func NewColorScale() *ColorScale {
	return &ColorScale{assigned: make(map[string]string)}
}

// Color returns the color for a type, assigning the next palette entry on first use.
func (c *ColorScale) Color(typ string) string {
	if col, ok := c.assigned[typ]; ok {
		return col
	}
	col := schema.Tableau10[len(c.order)%len(schema.Tableau10)]
	c.assigned[typ] = col
	c.order = append(c.order, typ)
	return col
}

// Domain returns the types seen so far in assignment order.
func (c *ColorScale) Domain() []string {
	return append([]string(nil), c.order...)
}
