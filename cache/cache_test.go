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

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetPurge(t *testing.T) {
	c := New[int, string](4)
	for i := 0; i < 4; i++ {
		c.Insert(i, "v")
	}
	assert.Equal(t, 4, c.Len())

	for i := 0; i < 4; i++ {
		_, ok := c.Get(i)
		assert.True(t, ok)
	}

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok)
}

func TestEvictsOldestOnOverflow(t *testing.T) {
	c := New[int, int](2)
	c.Insert(1, 1)
	c.Insert(2, 2)
	c.Insert(3, 3) // evicts 1, the least-recently-used entry

	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(2)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestGetOrInsertFillsOnMiss(t *testing.T) {
	c := New[string, int](4)
	calls := 0
	fill := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrInsert("k", fill)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	v, err = c.GetOrInsert("k", fill)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls, "second call should hit the cache, not fill again")
}

func TestGetOrInsertPropagatesFillError(t *testing.T) {
	c := New[string, int](4)
	boom := errors.New("boom")
	_, err := c.GetOrInsert("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCapacityBound(t *testing.T) {
	const capacity = 64
	c := New[int, int](capacity)
	for i := 0; i < capacity*2; i++ {
		c.Insert(i, i)
	}
	assert.LessOrEqual(t, c.Len(), capacity)
}
