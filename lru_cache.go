// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import (
	"container/list"
	"sync"
)

// resultCache is a thread-safe LRU cache from formula text to rendered
// SQL. Translation is pure per Options, so cached results never go stale;
// the capacity bound only limits memory on workloads with many distinct
// formulas.
type resultCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*list.Element
	lruList  *list.List
}

// resultEntry is one formula-to-SQL pair in the LRU list.
type resultEntry struct {
	formula string
	sql     string
}

// newResultCache creates a cache holding at most capacity entries.
func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Load retrieves the SQL for a formula and marks it most recently used.
func (c *resultCache) Load(formula string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[formula]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*resultEntry).sql, true
	}
	return "", false
}

// Store adds or refreshes a translation. When the cache is at capacity the
// least recently used entry is evicted; Store reports whether that
// happened.
func (c *resultCache) Store(formula, sql string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[formula]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*resultEntry).sql = sql
		return false
	}

	evicted := false
	if c.lruList.Len() >= c.capacity {
		oldest := c.lruList.Back()
		if oldest != nil {
			c.lruList.Remove(oldest)
			delete(c.entries, oldest.Value.(*resultEntry).formula)
			evicted = true
		}
	}

	elem := c.lruList.PushFront(&resultEntry{formula: formula, sql: sql})
	c.entries[formula] = elem
	return evicted
}

// Clear removes all cached translations.
func (c *resultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lruList = list.New()
}

// Len returns the number of cached translations.
func (c *resultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lruList.Len()
}

// Delete removes one formula from the cache. Returns true if it was
// present.
func (c *resultCache) Delete(formula string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[formula]; ok {
		c.lruList.Remove(elem)
		delete(c.entries, formula)
		return true
	}
	return false
}
