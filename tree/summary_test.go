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

package tree

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummariseBuffer(t *testing.T) {
	b, err := NewBuffer("hello", nil)
	require.NoError(t, err)
	s := Summarise(b)
	assert.Equal(t, "buffer:utf8_string", s.Kind)
	assert.Equal(t, b.Len(), s.Length)
	assert.False(t, s.IsReference())
}

func TestSummariseReference(t *testing.T) {
	ref := NewReference(URI("memory://slabs/slab-x"), 1, 4, 40)
	s := Summarise(ref)
	assert.True(t, s.IsReference())
	assert.Equal(t, "memory://slabs/slab-x", s.URI)
}

func TestSummariseTreeReflectsNSlabs(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	tr := EmptyTree(4)

	var err error
	for i := 0; i < 3; i++ {
		sl := newSlab([]Buffer{{Payload: []byte(fmt.Sprintf("s%d", i)), length: 1}})
		tr, err = PushSlab(ctx, ns, tr, sl)
		require.NoError(t, err)
	}

	s := Summarise(tr)
	assert.Equal(t, "tree", s.Kind)
	require.Len(t, s.Children, 3)
	for _, c := range s.Children {
		assert.Equal(t, 1, c.NSlabs)
	}
}

func TestSummariseLogHasRootAndTailChildren(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	lg := NewLog(4, 1024, 1<<20)
	lg, err := Append(ctx, ns, lg, "hi")
	require.NoError(t, err)

	s := Summarise(lg)
	assert.Equal(t, "log", s.Kind)
	require.Len(t, s.Children, 2)
}

func TestSummariseNeverDereferences(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	slab := newSlab([]Buffer{{Payload: []byte("x"), length: 1}})
	ref, err := ns.Persist(ctx, "memory://slabs", slab)
	require.NoError(t, err)

	s := Summarise(ref)
	assert.True(t, s.IsReference())
	assert.Empty(t, s.Children, "Summarise must not follow a reference's URI")
}
