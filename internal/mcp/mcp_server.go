// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"sync"

	"github.com/huangsam/locviz/core/view"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the locviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"locviz Commit Explorer",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		mgr:      mgr,
		sessions: make(map[string]*view.Coordinator),
	}
	sessionArg := mcp.WithString("session_id", mcp.Description("Session returned by load_dataset."), mcp.Required())

	// --- 1. Tool: load_dataset ---
	s.AddTool(mcp.NewTool("load_dataset",
		mcp.WithDescription("Load a per-line change log (CSV or Parquet) and start an exploration session."),
		mcp.WithString("source", mcp.Description("Path to the change log. Defaults to the configured source.")),
		mcp.WithString("hit_test", mcp.Description("Scales used to hit-test brushes."), mcp.Enum("full", "visible")),
		mcp.WithBoolean("fallback", mcp.Description("Use generated example data when the source cannot be loaded.")),
	), h.handleLoadDataset)

	// --- 2. Tool: get_stats ---
	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Return the six corpus statistics of a session."),
		sessionArg,
	), h.handleGetStats)

	// --- 3. Tool: list_commits ---
	s.AddTool(mcp.NewTool("list_commits",
		mcp.WithDescription("List the commits of a session with their plotted points."),
		sessionArg,
		mcp.WithString("sort", mcp.Description("Ordering of the listing."), mcp.Enum("dataset", "time", "lines")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListCommits)

	// --- 4. Tool: brush ---
	s.AddTool(mcp.NewTool("brush",
		mcp.WithDescription("Select the visible commits inside a rectangle of plot pixels. Omit the corners to clear the selection."),
		sessionArg,
		mcp.WithString("phase", mcp.Description("Brush lifecycle stage. Defaults to 'end'."), mcp.Enum("start", "brush", "end")),
		mcp.WithNumber("x0", mcp.Description("First corner x.")),
		mcp.WithNumber("y0", mcp.Description("First corner y.")),
		mcp.WithNumber("x1", mcp.Description("Opposite corner x.")),
		mcp.WithNumber("y1", mcp.Description("Opposite corner y.")),
	), h.handleBrush)

	// --- 5. Tool: slide ---
	s.AddTool(mcp.NewTool("slide",
		mcp.WithDescription("Move the time slider (0 to 100). This clears any brush selection."),
		sessionArg,
		mcp.WithNumber("progress", mcp.Description("Slider position."), mcp.Required()),
	), h.handleSlide)

	// --- 6. Tool: get_breakdown ---
	s.AddTool(mcp.NewTool("get_breakdown",
		mcp.WithDescription("Return the line-type breakdown of the selected commits, or of the visible commits without a brush."),
		sessionArg,
	), h.handleGetBreakdown)

	// --- 7. Tool: get_files ---
	s.AddTool(mcp.NewTool("get_files",
		mcp.WithDescription("Return the file composition of the selected or visible commits."),
		sessionArg,
		mcp.WithNumber("limit", mcp.Description("Limit the number of files returned.")),
	), h.handleGetFiles)

	// --- 8. Tool: get_tooltip ---
	s.AddTool(mcp.NewTool("get_tooltip",
		mcp.WithDescription("Return the hover card of one commit."),
		sessionArg,
		mcp.WithString("commit", mcp.Description("Commit identifier."), mcp.Required()),
	), h.handleGetTooltip)

	// --- 9. Tool: get_story ---
	s.AddTool(mcp.NewTool("get_story",
		mcp.WithDescription("Return the scroll narrative, one step per commit."),
		sessionArg,
	), h.handleGetStory)

	// --- 10. Tool: close_session ---
	s.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Release a session and its dataset."),
		sessionArg,
	), h.handleCloseSession)

	return s
}

// StartMCPServer starts the locviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}

// maxSessions bounds the datasets held in memory. Loading past it evicts the oldest session.
const maxSessions = 16

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager

	mu       sync.RWMutex
	sessions map[string]*view.Coordinator
	order    []string // session ids, oldest first
}
