// Copyright © 2025 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"sync/atomic"

	cacheimpl "github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
)

// Cache is a bounded, thread safe LRU cache
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, val V)
	// GetOrCreate returns the cached value, or stores and returns the result of create.
	// Concurrent callers that miss may all call create, so it must be a pure function.
	GetOrCreate(key K, create func() V) V
	Capacity() int
	Stats() (hits, misses uint64)
	Clear()
}

type cache[K comparable, V any] struct {
	lru      atomic.Pointer[cacheimpl.Cache[K, V]]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

func NewCache[K comparable, V any](conf *tdconf.CacheConfig, defs *tdconf.CacheConfig) Cache[K, V] {
	c := &cache[K, V]{
		capacity: confutil.IntMin(conf.Capacity, 1, *defs.Capacity),
	}
	c.Clear()
	return c
}

func (c *cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Load().Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *cache[K, V]) Set(key K, val V) {
	c.lru.Load().Set(key, val)
}

func (c *cache[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := create()
	c.Set(key, v)
	return v
}

// Clear swaps in a new empty LRU, as go-generics-cache has no clear of its own
func (c *cache[K, V]) Clear() {
	c.lru.Store(cacheimpl.New[K, V](cacheimpl.AsLRU[K, V](lru.WithCapacity(c.capacity))))
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *cache[K, V]) Capacity() int {
	return c.capacity
}

func (c *cache[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
