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

func TestFetchFromTailByOffset(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()

	tl := EmptyTail(1024)
	var err error
	for i := 0; i < 5; i++ {
		tl, err = AddToTail(ctx, ns, tl, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	msgs, err := Fetch(ctx, ns, tl, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m2", msgs[0].Str)
	assert.Equal(t, "m4", msgs[2].Str)
}

func TestFetchAcrossTreeElementBoundary(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	tr := EmptyTree(2)

	var err error
	for i := 0; i < 5; i++ {
		s := newSlab([]Buffer{{Payload: []byte(fmt.Sprintf("s%d", i)), length: 1}})
		tr, err = PushSlab(ctx, ns, tr, s)
		require.NoError(t, err)
	}

	for offset := 0; offset < 5; offset++ {
		msgs, err := Fetch(ctx, ns, tr, offset)
		require.NoError(t, err)
		require.Len(t, msgs, 5-offset, "offset %d", offset)
		for i, m := range msgs {
			assert.Equal(t, []byte(fmt.Sprintf("s%d", offset+i)), m.Bytes)
		}
	}
}

func TestFetchOffsetPastEndReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	tr := EmptyTree(2)
	s := newSlab([]Buffer{{Payload: []byte("a"), length: 1}})
	tr, err := PushSlab(ctx, ns, tr, s)
	require.NoError(t, err)

	msgs, err := Fetch(ctx, ns, tr, 100)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestFetchThroughPersistedTreeReference(t *testing.T) {
	ctx := context.Background()
	ns := newFakeStore()
	tr := EmptyTree(2)

	var err error
	for i := 0; i < 3; i++ {
		s := newSlab([]Buffer{{Payload: []byte(fmt.Sprintf("s%d", i)), length: 1}})
		tr, err = PushSlab(ctx, ns, tr, s)
		require.NoError(t, err)
	}

	ref, err := ns.Persist(ctx, "memory://trees", tr)
	require.NoError(t, err)

	msgs, err := Fetch(ctx, ns, ref, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte("s1"), msgs[0].Bytes)
}
