package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CacheStoreImpl handles durable storage operations using SQL database backends.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &CacheStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// openSQL opens and pings a SQL backend. defaultPath is used for SQLite
// when connStr is empty.
func openSQL(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, bolt, or none", backend)
	}

	var db *sql.DB
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = defaultPath
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// user:password@tcp(host:port)/dbname?parseTime=true
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// host=localhost port=5432 user=postgres password=secret dbname=locviz
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
// A missing key (or a disabled store) returns sql.ErrNoRows.
func (ps *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(ps.tableName, ps.backend), placeholder(ps.backend, 1))
	if err := ps.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ps *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}
	_, err := ps.db.Exec(ps.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ps *CacheStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ps.tableName, ps.backend)
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}

	if ps.backend == schema.NoneBackend || ps.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ps.tableName, ps.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ps.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", quotedTableName)
	if err := ps.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ps.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the backend for the on-disk size and falls back to a rough estimate.
func (ps *CacheStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 1000
	var size int64

	switch ps.backend {
	case schema.SQLiteBackend:
		row := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := ps.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, ps.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	}
	return estimate
}
