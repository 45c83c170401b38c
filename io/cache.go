package io

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of entries kept by the header and halo
// caches. Consecutive planes usually reuse a handful of snapshots.
const DefaultCacheSize = 8

// loadingCache is an LRU cache which calls load on misses. Failed loads are
// not cached.
type loadingCache[K comparable, V any] struct {
	lru  *lru.Cache[K, V]
	load func(K) (V, error)

	hits, misses int
}

func newLoadingCache[K comparable, V any](
	size int, load func(K) (V, error),
) (*loadingCache[K, V], error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &loadingCache[K, V]{lru: c, load: load}, nil
}

func (c *loadingCache[K, V]) get(key K) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		return v, nil
	}
	c.misses++
	v, err := c.load(key)
	if err != nil {
		return v, err
	}
	c.lru.Add(key, v)
	return v, nil
}
