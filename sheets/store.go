package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/Luciana-papello/gestao-cs/config"
)

// Fetcher is the upstream a Store refreshes from. *Client satisfies it.
type Fetcher interface {
	FetchTab(ctx context.Context, sheetID, tab string) *Table
}

type cacheEntry struct {
	table     *Table
	fetchedAt time.Time
}

// Store is a TTL snapshot cache in front of the sheet fetcher. Reads within
// the TTL get a private copy of the cached snapshot; the first read past the
// TTL refetches. Concurrent identical refetches are allowed (last writer
// wins): a redundant fetch is cheap and cannot corrupt an aggregation because
// every reader works on its own copy.
//
// An optional Redis layer (when REDIS_ADDRESS is configured) lets snapshots
// survive process restarts and be shared across instances.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	fetcher Fetcher
	now     func() time.Time
}

func NewStore(fetcher Fetcher, ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		fetcher: fetcher,
		now:     time.Now,
	}
}

func cacheKey(sheetID, tab string) string {
	return "sheet:" + sheetID + ":" + tab
}

// Load returns the table for (sheetID, tab), from cache when fresh, otherwise
// refetched. The returned table is always a private copy.
func (s *Store) Load(ctx context.Context, sheetID, tab string) *Table {
	key := cacheKey(sheetID, tab)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.table.Copy()
	}

	if table := s.loadFromRedis(key); table != nil {
		return table.Copy()
	}

	table := s.fetcher.FetchTab(ctx, sheetID, tab)
	if !table.IsEmpty() {
		s.store(key, table)
	}
	return table.Copy()
}

func (s *Store) loadFromRedis(key string) *Table {
	var table Table
	found, err := config.GetRedisObject(key, &table)
	if err != nil {
		config.LogError(config.GetLogger(), "sheets/store.go", "loadFromRedis", "config.GetRedisObject", key, err)
		return nil
	}
	if !found || table.IsEmpty() {
		return nil
	}
	// Re-seed the memory layer so the TTL clock restarts locally.
	s.mu.Lock()
	s.entries[key] = cacheEntry{table: table.Copy(), fetchedAt: s.now()}
	s.mu.Unlock()
	return &table
}

func (s *Store) store(key string, table *Table) {
	s.mu.Lock()
	s.entries[key] = cacheEntry{table: table.Copy(), fetchedAt: s.now()}
	s.mu.Unlock()

	if err := config.SetRedisObject(key, table, s.ttl); err != nil {
		config.LogError(config.GetLogger(), "sheets/store.go", "store", "config.SetRedisObject", key, err)
	}
}

// Reset drops every cached snapshot so the next read refetches.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()

	if len(keys) > 0 {
		if err := config.RemoveRedisKey(keys...); err != nil {
			config.LogError(config.GetLogger(), "sheets/store.go", "Reset", "config.RemoveRedisKey", keys, err)
		}
	}
}
