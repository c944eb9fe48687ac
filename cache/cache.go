// Copyright 2026 The Lanterman Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides bounded, process-wide caches: maps from a
// persisted URI to its resolved in-memory value, with the
// least-recently-used entry evicted on overflow. Recency is bumped on Get
// as well as Insert, via github.com/hashicorp/golang-lru/v2, the same
// package dolt wires in for its own node/index caches (see e.g.
// libraries/doltcore/sqle/statspro/scheduler_test.go).
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded, synchronized map from key K to value V.
type Cache[K comparable, V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[K, V]
}

// New creates a Cache that holds at most capacity entries, evicting the
// least-recently-used entry on overflow.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	l, err := lru.New[K, V](capacity)
	if err != nil {
		// Only returned by golang-lru when capacity <= 0; callers always
		// pass a fixed positive capacity, so this is a construction-time
		// invariant violation, not a runtime condition.
		panic(err)
	}
	return &Cache[K, V]{lru: l}
}

// Get returns the cached value for key, if present, and bumps its recency.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Insert installs value under key, evicting the least-recently-used entry
// if the cache is at capacity.
func (c *Cache[K, V]) Insert(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, value)
}

// GetOrInsert returns the cached value for key if present; otherwise it
// calls fill to materialize one, installs it, and returns it. fill runs
// without holding the cache's lock, since it may block on storage I/O.
func (c *Cache[K, V]) GetOrInsert(key K, fill func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fill()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Insert(key, v)
	return v, nil
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge empties the cache. Caches may be cleared at any time without
// semantic consequence — they hold derived, reconstructible state.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
