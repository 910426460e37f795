package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/huangsam/locviz/core"
	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/core/view"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// commitEntry is one listed commit with its plot state.
type commitEntry struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Author     string  `json:"author"`
	Datetime   string  `json:"datetime"`
	TotalLines int     `json:"total_lines"`
	NumFiles   int     `json:"num_files"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	R          float64 `json:"r"`
	Visible    bool    `json:"visible"`
	Selected   bool    `json:"selected"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *toolHandler) session(request mcp.CallToolRequest) (*view.Coordinator, error) {
	id := request.GetString("session_id", "")
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	return c, nil
}

// addSession stores a coordinator under a new id, evicting the oldest sessions past maxSessions.
func (h *toolHandler) addSession(c *view.Coordinator) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = c
	h.order = append(h.order, id)
	for len(h.order) > maxSessions {
		delete(h.sessions, h.order[0])
		h.order = h.order[1:]
	}
	return id
}

func (h *toolHandler) handleLoadDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if src := request.GetString("source", ""); src != "" {
		cfg.Source = src
	}
	if mode := request.GetString("hit_test", ""); mode != "" {
		if _, ok := schema.ValidHitTestModes[schema.HitTestMode(mode)]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid hit_test %q", mode)), nil
		}
		cfg.HitTest = schema.HitTestMode(mode)
	}
	cfg.Fallback = request.GetBool("fallback", cfg.Fallback)

	ds, err := core.LoadDataset(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	c, err := core.NewCoordinator(ds, cfg, view.Panels{}, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session failed: %v", err)), nil
	}

	id := h.addSession(c)

	return jsonResult(map[string]any{
		"session_id": id,
		"source":     ds.Info,
		"rows":       len(ds.Rows),
		"commits":    len(ds.Commits),
		"stats":      ds.Summary.Entries(),
	})
}

func (h *toolHandler) handleGetStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c.Summary().Entries())
}

func (h *toolHandler) handleListCommits(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	order := schema.SortOrder(request.GetString("sort", string(schema.SortDataset)))
	if _, ok := schema.ValidSortOrders[order]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sort %q", order)), nil
	}

	points := make(map[string]schema.Point)
	for _, p := range c.Points() {
		points[p.CommitID] = p
	}
	commits := agg.Sort(c.Commits(), order)
	if l := request.GetInt("limit", 0); l > 0 && len(commits) > l {
		commits = commits[:l]
	}

	entries := make([]commitEntry, len(commits))
	for i, cm := range commits {
		p := points[cm.ID]
		entries[i] = commitEntry{
			ID:         cm.ID,
			URL:        cm.URL,
			Author:     cm.Author,
			Datetime:   cm.Datetime.Format(contract.DateTimeFormat),
			TotalLines: cm.TotalLines,
			NumFiles:   cm.NumFiles(),
			X:          p.X,
			Y:          p.Y,
			R:          p.R,
			Visible:    p.Visible,
			Selected:   p.Selected,
		}
	}
	return jsonResult(entries)
}

func (h *toolHandler) handleBrush(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	phase := schema.BrushPhase(request.GetString("phase", string(schema.BrushEnd)))

	var region *schema.Region
	args := request.GetArguments()
	_, hasX0 := args["x0"]
	_, hasY0 := args["y0"]
	_, hasX1 := args["x1"]
	_, hasY1 := args["y1"]
	switch {
	case hasX0 && hasY0 && hasX1 && hasY1:
		region = &schema.Region{
			X0: request.GetFloat("x0", 0),
			Y0: request.GetFloat("y0", 0),
			X1: request.GetFloat("x1", 0),
			Y1: request.GetFloat("y1", 0),
		}
	case hasX0 || hasY0 || hasX1 || hasY1:
		return mcp.NewToolResultError("a brush region needs all of x0, y0, x1 and y1"), nil
	}

	result, err := c.Brush(phase, region)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleSlide(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := c.Slide(request.GetFloat("progress", schema.MaxProgress))
	return jsonResult(map[string]any{
		"result": result,
		"slider": c.Slider(),
		"count":  view.CountText(result.Selected),
	})
}

func (h *toolHandler) handleGetBreakdown(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c.Breakdown())
}

func (h *toolHandler) handleGetFiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files := c.Files()
	if l := request.GetInt("limit", 0); l > 0 && len(files) > l {
		files = files[:l]
	}
	return jsonResult(files)
}

func (h *toolHandler) handleGetTooltip(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tip, err := c.Tooltip(request.GetString("commit", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tip)
}

func (h *toolHandler) handleGetStory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c.Steps())
}

func (h *toolHandler) handleCloseSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[id]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown session %q", id)), nil
	}
	delete(h.sessions, id)
	h.order = slices.DeleteFunc(h.order, func(s string) bool { return s == id })
	return mcp.NewToolResultText(fmt.Sprintf("closed session %s", id)), nil
}
