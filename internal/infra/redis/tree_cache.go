package redis

import (
	"context"
	"errors"
	"time"

	"github.com/laborhours/api/pkg/domain/process"
)

const (
	treeCacheKey = "full"
	treeCacheTTL = 10 * time.Minute
)

// TreeCache caches the process reference tree. The tree changes only
// when an administrator reseeds it, so a short TTL plus explicit
// invalidation keeps reads off the database.
type TreeCache struct {
	cache *Cache[process.Tree]
}

// NewTreeCache creates a process tree cache.
func NewTreeCache(client *Client) *TreeCache {
	return &TreeCache{
		cache: MustNewCache[process.Tree](client, "process_tree", treeCacheTTL),
	}
}

// Get returns the cached tree, or ErrCacheMiss.
func (c *TreeCache) Get(ctx context.Context) (*process.Tree, error) {
	return c.cache.Get(ctx, treeCacheKey)
}

// Set stores the tree.
func (c *TreeCache) Set(ctx context.Context, tree process.Tree) error {
	return c.cache.Set(ctx, treeCacheKey, tree)
}

// Invalidate drops the cached tree.
func (c *TreeCache) Invalidate(ctx context.Context) error {
	err := c.cache.Delete(ctx, treeCacheKey)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	return nil
}
