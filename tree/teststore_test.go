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

	"github.com/wotbrew/lanterman/codec"
	"github.com/wotbrew/lanterman/hash"
)

// fakeStore is a minimal, hermetic NodeStore for tree package unit tests: an
// in-process map standing in for a blob.Store plus caches, with no I/O.
type fakeStore struct {
	blobs map[string][]byte
	kinds map[string]codec.NodeKind
	vc    codec.ValueCodec
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blobs: make(map[string][]byte),
		kinds: make(map[string]codec.NodeKind),
		vc:    codec.JSONValueCodec{},
	}
}

func (s *fakeStore) ValueCodec() codec.ValueCodec { return s.vc }

func (s *fakeStore) Persist(_ context.Context, baseURI string, value Node) (Reference, error) {
	data, kind, err := NodeToBytes(value)
	if err != nil {
		return Reference{}, err
	}
	uri := fmt.Sprintf("%s/%s-%s", baseURI, kind, hash.Of(data))
	s.blobs[uri] = data
	s.kinds[uri] = kind
	return NewReference(URI(uri), kind, value.Len(), value.ByteCount()), nil
}

func (s *fakeStore) Unref(_ context.Context, ref Reference) (Node, error) {
	data, ok := s.blobs[string(ref.URI)]
	if !ok {
		return nil, fmt.Errorf("fakeStore: no such blob %s", ref.URI)
	}
	return ReadNode(data, s.kinds[string(ref.URI)])
}
