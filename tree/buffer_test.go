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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotbrew/lanterman/codec"
)

func TestNewBufferPassthrough(t *testing.T) {
	in := Buffer{Payload: []byte("x"), Kind: codec.RawBytes, length: 1}
	out, err := NewBuffer(in, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNewBufferRawBytes(t *testing.T) {
	b, err := NewBuffer([]byte("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, codec.RawBytes, b.Kind)
	assert.Equal(t, []byte("hello"), b.Payload)
	assert.Equal(t, 1, b.Len())
}

func TestNewBufferUTF8String(t *testing.T) {
	b, err := NewBuffer("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, codec.UTF8String, b.Kind)
	assert.Equal(t, []byte("hello"), b.Payload)
}

func TestNewBufferEncodedValueRequiresCodec(t *testing.T) {
	_, err := NewBuffer(42, nil)
	assert.Error(t, err)

	b, err := NewBuffer(42, codec.JSONValueCodec{})
	require.NoError(t, err)
	assert.Equal(t, codec.EncodedValue, b.Kind)
	assert.Equal(t, 1, b.Len())

	v, err := codec.JSONValueCodec{}.Decode(b.Payload)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestNewBufferEmbeddedNode(t *testing.T) {
	inner := newSlab([]Buffer{{Payload: []byte("a"), Kind: codec.RawBytes, length: 1}})
	b, err := NewBuffer(inner, nil)
	require.NoError(t, err)
	assert.Equal(t, codec.EmbeddedNode, b.Kind)
	assert.Equal(t, inner.Len(), b.Len())

	decoded, err := decodeEmbedded(b.Payload)
	require.NoError(t, err)
	slab, ok := decoded.(Slab)
	require.True(t, ok)
	assert.Equal(t, inner.Len(), slab.Len())
	assert.Equal(t, inner.Buffers, slab.Buffers)
}
