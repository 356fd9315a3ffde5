package preprocess

import (
	"log/slog"
	"sync"

	"crashlens/internal/dataset"
)

// Cache memoizes Run results by dataset content fingerprint. It replaces the
// source system's implicit load-once module state with an explicit object the
// caller owns, which keeps staleness visible and tests isolated.
//
// The engine itself is single-threaded; the mutex only covers concurrent
// service construction in embedding environments and tests.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]*dataset.Dataset
}

// NewCache creates an empty preprocess cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]*dataset.Dataset)}
}

// Run returns the preprocessed form of ds, computing it at most once per
// distinct content fingerprint. The key is content identity, never wall
// clock time, so reloading identical source bytes hits the cache.
func (c *Cache) Run(ds *dataset.Dataset) *dataset.Dataset {
	key := ds.Fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if got, ok := c.entries[key]; ok {
		slog.Debug("preprocess cache hit", slog.Uint64("fingerprint", key))
		return got
	}

	out := Run(ds)
	c.entries[key] = out
	slog.Debug("preprocess cache store",
		slog.Uint64("fingerprint", key),
		slog.Int("rows", out.Rows()))
	return out
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
