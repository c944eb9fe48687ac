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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotbrew/lanterman/codec"
)

func TestBufferIterableFlattensSlabsAndTails(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()

	tl := EmptyTail(1024)
	tl, err := AddToTail(ctx, ns, tl, []byte("a"))
	require.NoError(t, err)
	tl, err = AddToTail(ctx, ns, tl, "b")
	require.NoError(t, err)

	bufs, err := BufferIterable(ctx, ns, tl)
	require.NoError(t, err)
	require.Len(t, bufs, 2)
	assert.Equal(t, codec.RawBytes, bufs[0].Kind)
	assert.Equal(t, codec.UTF8String, bufs[1].Kind)
}

func TestBufferIterableFollowsReference(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()

	slab := newSlab([]Buffer{{Payload: []byte("ref-me"), Kind: codec.RawBytes, length: 1}})
	ref, err := ns.Persist(ctx, "memory://slabs", slab)
	require.NoError(t, err)

	bufs, err := BufferIterable(ctx, ns, ref)
	require.NoError(t, err)
	require.Len(t, bufs, 1)
	assert.Equal(t, []byte("ref-me"), bufs[0].Payload)
}

func TestBufferIterableFlattensEmbeddedNode(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()

	embedded := newSlab([]Buffer{{Payload: []byte("inside"), Kind: codec.RawBytes, length: 1}})
	b, err := NewBuffer(embedded, nil)
	require.NoError(t, err)

	tl := EmptyTail(1024)
	tl, err = addEntryToTail(tl, b)
	require.NoError(t, err)

	bufs, err := BufferIterable(ctx, ns, tl)
	require.NoError(t, err)
	require.Len(t, bufs, 1)
	assert.Equal(t, []byte("inside"), bufs[0].Payload)
	assert.Equal(t, codec.RawBytes, bufs[0].Kind)
}

func TestMessageIterableDecodesEachKind(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()

	tl := EmptyTail(1024)
	tl, err := AddToTail(ctx, ns, tl, []byte("raw"))
	require.NoError(t, err)
	tl, err = AddToTail(ctx, ns, tl, "str")
	require.NoError(t, err)
	tl, err = AddToTail(ctx, ns, tl, map[string]any{"k": "v"})
	require.NoError(t, err)

	msgs, err := MessageIterable(ctx, ns, tl)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, codec.RawBytes, msgs[0].Kind)
	assert.Equal(t, []byte("raw"), msgs[0].Bytes)

	assert.Equal(t, codec.UTF8String, msgs[1].Kind)
	assert.Equal(t, "str", msgs[1].Str)

	assert.Equal(t, codec.EncodedValue, msgs[2].Kind)
	assert.Equal(t, map[string]any{"k": "v"}, msgs[2].Value)
}
