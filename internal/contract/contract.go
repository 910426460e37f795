// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/locviz/schema"
	"github.com/pkg/browser"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetRowStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking dataset loads.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, source string) (int64, error)

	// EndRun records the load outcome and the corpus statistics
	EndRun(runID int64, endTime time.Time, info schema.LoadInfo, numRows int, summary schema.Summary) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// Close closes the underlying connection
	Close() error
}

// URLOpener opens a commit URL in whatever the host considers a browser.
type URLOpener interface {
	OpenURL(url string) error
}

// BrowserOpener opens URLs with the system browser.
type BrowserOpener struct{}

// OpenURL implements URLOpener.
func (BrowserOpener) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// OpenerFunc adapts a plain function to URLOpener.
type OpenerFunc func(url string) error

// OpenURL implements URLOpener.
func (f OpenerFunc) OpenURL(url string) error {
	return f(url)
}
