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

	"github.com/wotbrew/lanterman/codec"
)

func testSpec() StorageSpec {
	return StorageSpec{
		SlabBaseURI: "memory://slabs",
		TreeBaseURI: "memory://trees",
		TailBaseURI: "memory://tails",
		LogBaseURI:  "memory://logs",
	}
}

func TestPersistTreeReplacesSubtreesWithReferences(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	lg := NewLog(2, 1024, 32)

	var err error
	for i := 0; i < 12; i++ {
		lg, err = Append(ctx, ns, lg, fmt.Sprintf("message-%02d", i))
		require.NoError(t, err)
	}

	persisted, err := PersistTree(ctx, ns, testSpec(), lg)
	require.NoError(t, err)

	out, ok := persisted.(Log)
	require.True(t, ok)

	// The root tree itself is written out and replaced by a reference.
	rootRef, ok := out.Root.(Reference)
	require.True(t, ok)
	assert.Equal(t, codec.TreeNode, rootRef.RefNodeKind)

	unreffed, err := ns.Unref(ctx, rootRef)
	require.NoError(t, err)
	root, ok := unreffed.(Tree)
	require.True(t, ok)
	for _, e := range root.Elements {
		_, isRef := e.Value.(Reference)
		assert.True(t, isRef, "expected sealed tree leaves to be replaced by references")
	}

	// The log-root tail itself is never externalized.
	assert.IsType(t, Tail{}, out.Tail)
}

func TestPersistTreePreservesMessageContent(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	lg := NewLog(2, 1024, 32)

	var err error
	for i := 0; i < 12; i++ {
		lg, err = Append(ctx, ns, lg, fmt.Sprintf("message-%02d", i))
		require.NoError(t, err)
	}
	before, err := Fetch(ctx, ns, lg, 0)
	require.NoError(t, err)

	persisted, err := PersistTree(ctx, ns, testSpec(), lg)
	require.NoError(t, err)

	after, err := Fetch(ctx, ns, persisted, 0)
	require.NoError(t, err)

	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].Str, after[i].Str)
	}
}

func TestPersistTreeOnBareTreeReturnsTreeReference(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	tr := EmptyTree(2)

	var err error
	for i := 0; i < 3; i++ {
		s := newSlab([]Buffer{{Payload: []byte(fmt.Sprintf("s%d", i)), Kind: codec.RawBytes, length: 1}})
		tr, err = PushSlab(ctx, ns, tr, s)
		require.NoError(t, err)
	}

	persisted, err := PersistTree(ctx, ns, testSpec(), tr)
	require.NoError(t, err)
	ref, ok := persisted.(Reference)
	require.True(t, ok)
	assert.Equal(t, codec.TreeNode, ref.RefNodeKind)

	msgs, err := Fetch(ctx, ns, persisted, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
}
