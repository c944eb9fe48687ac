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

func roundTrip(t *testing.T, n Node) Node {
	t.Helper()
	data, kind, err := NodeToBytes(n)
	require.NoError(t, err)
	out, err := ReadNode(data, kind)
	require.NoError(t, err)
	return out
}

func TestBufferCodecRoundTrip(t *testing.T) {
	b := Buffer{Payload: []byte("hello"), Kind: codec.UTF8String, length: 1}
	out := roundTrip(t, b).(Buffer)
	assert.Equal(t, b.Payload, out.Payload)
	assert.Equal(t, b.Kind, out.Kind)
	assert.Equal(t, b.Len(), out.Len())
}

func TestSlabCodecRoundTrip(t *testing.T) {
	s := newSlab([]Buffer{
		{Payload: []byte("a"), Kind: codec.RawBytes, length: 1},
		{Payload: []byte("bcd"), Kind: codec.UTF8String, length: 1},
	})
	out := roundTrip(t, s).(Slab)
	assert.Equal(t, s.Len(), out.Len())
	assert.Equal(t, s.ByteCount(), out.ByteCount())
	assert.Equal(t, s.Buffers, out.Buffers)
}

func TestTailCodecRoundTrip(t *testing.T) {
	tl := EmptyTail(1024)
	tl, err := addEntryToTail(tl, Buffer{Payload: []byte("a"), Kind: codec.RawBytes, length: 1})
	require.NoError(t, err)
	tl, err = addEntryToTail(tl, Buffer{Payload: []byte("b"), Kind: codec.RawBytes, length: 1})
	require.NoError(t, err)

	out := roundTrip(t, tl).(Tail)
	assert.Equal(t, tl.Len(), out.Len())
	assert.Equal(t, tl.ByteCount(), out.ByteCount())
	assert.Equal(t, tl.Buffers, out.Buffers)
}

func TestTailCodecRoundTripWithNodes(t *testing.T) {
	inner := EmptyTail(64)
	inner, err := addEntryToTail(inner, Buffer{Payload: []byte("inner"), Kind: codec.RawBytes, length: 1})
	require.NoError(t, err)

	wrapped := wrapTail(inner, newSlab([]Buffer{{Payload: []byte("outer"), Kind: codec.RawBytes, length: 1}}))

	out := roundTrip(t, wrapped).(Tail)
	assert.Equal(t, wrapped.Len(), out.Len())
	require.Len(t, out.Nodes, 2)
	assert.IsType(t, Tail{}, out.Nodes[0])
	assert.IsType(t, Slab{}, out.Nodes[1])
}

func TestTreeCodecRoundTrip(t *testing.T) {
	tr := EmptyTree(4)
	s1 := newSlab([]Buffer{{Payload: []byte("a"), Kind: codec.RawBytes, length: 1}})
	tr, err := PushSlab(context.Background(), newFakeStore(), tr, s1)
	require.NoError(t, err)

	out := roundTrip(t, tr).(Tree)
	assert.Equal(t, tr.Len(), out.Len())
	assert.Equal(t, tr.ByteCount(), out.ByteCount())
	require.Len(t, out.Elements, 1)
	assert.Equal(t, tr.Elements[0].Offset, out.Elements[0].Offset)
	assert.Equal(t, tr.Elements[0].NSlabs, out.Elements[0].NSlabs)
}

func TestReferenceCodecRoundTrip(t *testing.T) {
	ref := NewReference(URI("memory://slabs/slab-abc"), codec.SlabNode, 3, 40)
	out := roundTrip(t, ref).(Reference)
	assert.Equal(t, ref.URI, out.URI)
	assert.Equal(t, ref.RefNodeKind, out.RefNodeKind)
	assert.Equal(t, ref.Len(), out.Len())
	assert.Equal(t, ref.ByteCount(), out.ByteCount())
}
