package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/huangsam/locviz/core/ingest"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/iocache"
	"github.com/huangsam/locviz/schema"
)

// currentCacheVersion defines the version of the cached row payload.
const currentCacheVersion = 1

// cachedLoadRows parses the source, reusing a cached parse of identical bytes when one exists.
func cachedLoadRows(ctx context.Context, cfg *contract.Config, store contract.CacheStore) ([]schema.Row, schema.LoadInfo, error) {
	info := schema.LoadInfo{Source: cfg.Source}

	data, err := os.ReadFile(cfg.Source)
	if err != nil {
		return nil, info, fmt.Errorf("failed to read %s: %w", cfg.Source, err)
	}
	info.Hash = sourceHash(data)

	if store == nil {
		rows, err := ingest.LoadFile(ctx, cfg.Source, ingestOptions(cfg))
		return rows, info, err
	}

	key := generateCacheKey(cfg, info.Hash)
	if rows := checkCacheHit(store, key); rows != nil {
		info.Cached = true
		return rows, info, nil
	}

	rows, err := computeAndStore(ctx, cfg, store, key)
	return rows, info, err
}

// checkCacheHit attempts to retrieve and validate a cached parse.
func checkCacheHit(store contract.CacheStore, key string) []schema.Row {
	payload, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil
	}
	data, err := iocache.Decompress(payload)
	if err != nil {
		return nil
	}
	var rows []schema.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}
	return rows
}

// computeAndStore parses the source and stores the rows in cache.
// A failed cache write does not fail the load.
func computeAndStore(ctx context.Context, cfg *contract.Config, store contract.CacheStore, key string) ([]schema.Row, error) {
	rows, err := ingest.LoadFile(ctx, cfg.Source, ingestOptions(cfg))
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return rows, nil
	}
	payload, err := iocache.Compress(data)
	if err != nil {
		return rows, nil
	}
	if err := store.Set(key, payload, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache parsed rows", err)
	}
	return rows, nil
}

// generateCacheKey combines the content hash with every option that changes the parse.
func generateCacheKey(cfg *contract.Config, hash string) string {
	key := fmt.Sprintf("%s:%s:%t:%s",
		hash,
		locationName(cfg.Location),
		cfg.ConvertTZ,
		cfg.TypeMode,
	)
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

// sourceHash is the content hash recorded for a source file.
func sourceHash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func locationName(loc *time.Location) string {
	if loc == nil {
		return time.UTC.String()
	}
	return loc.String()
}

func ingestOptions(cfg *contract.Config) ingest.Options {
	return ingest.Options{
		Location: cfg.Location,
		Convert:  cfg.ConvertTZ,
		TypeMode: cfg.TypeMode,
	}
}
