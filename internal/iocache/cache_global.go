package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// rowTable is the name of the table (or bolt bucket) for row caching.
const rowTable = "row_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the row cache and the run store.
// An empty runsBackend disables run tracking.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		rowStore, err := NewRowStore(cacheBackend, cacheConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize row caching: %w", err)
			return
		}

		if runsBackend == "" {
			runsBackend = schema.NoneBackend
		}
		runStore, err := NewRunStore(runsBackend, runsConnStr)
		if err != nil {
			_ = rowStore.Close()
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.rows = rowStore
		Manager.runs = runStore
	})

	return initErr
}

// NewRowStore opens the row cache for the backend.
func NewRowStore(backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if backend == schema.BoltBackend {
		return NewBoltStore(rowTable, connStr)
	}
	return NewCacheStore(rowTable, backend, connStr)
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.rows != nil {
			_ = Manager.rows.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache clears the row cache for the specified backend.
// File backends delete their file, SQL servers drop the table.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(connStr, contract.GetCacheDBFilePath())
	case schema.BoltBackend:
		return removeFile(connStr, contract.GetBoltDBFilePath())
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, rowTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRuns clears the run history for the specified backend.
func ClearRuns(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(connStr, contract.GetRunsDBFilePath())
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, runsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}

func removeFile(path, fallback string) error {
	if path == "" {
		path = fallback
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove database file %s: %w", path, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
