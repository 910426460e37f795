package iocache

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	bolt "go.etcd.io/bbolt"
)

// boltHeaderSize is the version (4 bytes) plus the timestamp (8 bytes) stored before each value.
const boltHeaderSize = 12

// BoltStore is a CacheStore backed by a single bbolt file.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	path   string
}

var _ contract.CacheStore = &BoltStore{} // Compile-time check

// NewBoltStore opens (or creates) the bolt file at path and ensures the bucket exists.
func NewBoltStore(bucket, path string) (*BoltStore, error) {
	if err := validateTableName(bucket); err != nil {
		return nil, err
	}
	if path == "" {
		path = contract.GetBoltDBFilePath()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache at %q: %w. Ensure the directory is writable and no other process holds the lock", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return &BoltStore{db: db, bucket: []byte(bucket), path: path}, nil
}

// Get retrieves a value by key. A missing key returns sql.ErrNoRows so callers
// can treat every backend alike.
func (bs *BoltStore) Get(key string) ([]byte, int, int64, error) {
	var value []byte
	var version int
	var ts int64
	err := bs.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		if b == nil {
			return sql.ErrNoRows
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return sql.ErrNoRows
		}
		var err error
		value, version, ts, err = decodeBoltValue(raw)
		return err
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set stores value with its version and timestamp.
func (bs *BoltStore) Set(key string, value []byte, version int, timestamp int64) error {
	return bs.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bs.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), encodeBoltValue(value, version, timestamp))
	})
}

// GetStatus scans the bucket for entry count and timestamp range.
func (bs *BoltStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.BoltBackend), Connected: true}
	var oldest, last int64
	err := bs.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			_, _, ts, err := decodeBoltValue(v)
			if err != nil {
				return err
			}
			if status.TotalEntries == 0 || ts < oldest {
				oldest = ts
			}
			if status.TotalEntries == 0 || ts > last {
				last = ts
			}
			status.TotalEntries++
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan bolt cache: %w", err)
	}
	if status.TotalEntries > 0 {
		status.OldestEntryTime = time.Unix(oldest, 0)
		status.LastEntryTime = time.Unix(last, 0)
	}
	if info, err := os.Stat(bs.path); err == nil {
		status.TableSizeBytes = info.Size()
	}
	return status, nil
}

// Close closes the bolt file.
func (bs *BoltStore) Close() error {
	if bs.db != nil {
		return bs.db.Close()
	}
	return nil
}

func encodeBoltValue(value []byte, version int, timestamp int64) []byte {
	buf := make([]byte, boltHeaderSize+len(value))
	binary.BigEndian.PutUint32(buf[0:4], uint32(version))
	binary.BigEndian.PutUint64(buf[4:12], uint64(timestamp))
	copy(buf[boltHeaderSize:], value)
	return buf
}

// decodeBoltValue copies the payload out because bolt memory is only valid inside the transaction.
func decodeBoltValue(raw []byte) ([]byte, int, int64, error) {
	if len(raw) < boltHeaderSize {
		return nil, 0, 0, errors.New("corrupt bolt cache entry")
	}
	version := int(binary.BigEndian.Uint32(raw[0:4]))
	ts := int64(binary.BigEndian.Uint64(raw[4:12]))
	value := make([]byte, len(raw)-boltHeaderSize)
	copy(value, raw[boltHeaderSize:])
	return value, version, ts, nil
}
