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
	"testing"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
	"github.com/stretchr/testify/assert"
)

func TestCacheEviction(t *testing.T) {
	c := NewCache[string, []byte](&tdconf.CacheConfig{}, &tdconf.CacheConfig{Capacity: confutil.P(1)})
	assert.Equal(t, 1, c.Capacity())

	c.Set("Person(string name)", []byte{0x01})
	v, ok := c.Get("Person(string name)")
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01}, v)

	c.Set("Mail(string contents)", []byte{0x02})
	v, ok = c.Get("Mail(string contents)")
	assert.True(t, ok)
	assert.Equal(t, []byte{0x02}, v)

	_, ok = c.Get("Person(string name)")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheGetOrCreate(t *testing.T) {
	c := NewCache[string, int](&tdconf.CacheConfig{}, tdconf.TypeHashCacheDefaults)
	calls := 0
	create := func() int { calls++; return 42 }

	assert.Equal(t, 42, c.GetOrCreate("a", create))
	assert.Equal(t, 42, c.GetOrCreate("a", create))
	assert.Equal(t, 1, calls)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheClear(t *testing.T) {
	c := NewCache[string, int](&tdconf.CacheConfig{Capacity: confutil.P(10)}, tdconf.TypeHashCacheDefaults)
	assert.Equal(t, 10, c.Capacity())

	c.Set("a", 1)
	_, _ = c.Get("a")
	c.Clear()
	hits, _ := c.Stats()
	assert.Zero(t, hits)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheMinCapacity(t *testing.T) {
	c := NewCache[string, int](&tdconf.CacheConfig{Capacity: confutil.P(0)}, tdconf.TypeHashCacheDefaults)
	assert.Equal(t, 1, c.Capacity())
}
