// Package iocache is for caching parsed rows and tracking dataset loads.
package iocache

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// CacheStoreManager manages the row cache and the run store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	rows         contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetRowStore returns the row CacheStore.
func (mgr *CacheStoreManager) GetRowStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.rows
}

// GetRunStore returns the RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName rejects anything that is not a plain SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// driverFor maps a SQL backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("backend %s has no SQL driver", backend)
	}
}
