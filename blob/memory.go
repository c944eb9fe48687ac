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

package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/wotbrew/lanterman/codec"
)

// MemoryStore is the in-memory scheme driver, grounded in noms' original
// blobstore.NewInMemoryBlobstore (go/store/blobstore/blobstore_test.go):
// a map guarded by a mutex, with no eviction of its own (the bounded node
// caches in package cache are what bound memory use at the mlog layer).
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	kind map[string]codec.NodeKind
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
		kind: make(map[string]codec.NodeKind),
	}
}

func (s *MemoryStore) Persist(_ context.Context, baseURI string, kind codec.NodeKind, value []byte) (URI, error) {
	key := contentKey(kind, value)
	uri := URI(fmt.Sprintf("%s/%s", baseURI, key))

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(value))
	copy(buf, value)
	s.data[string(uri)] = buf
	s.kind[string(uri)] = kind
	return uri, nil
}

func (s *MemoryStore) Reference(_ context.Context, uri URI) (Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kind, ok := s.kind[string(uri)]
	if !ok {
		return nil, &Error{Op: "reference", URI: uri, Err: fmt.Errorf("no such blob")}
	}
	return &memoryHandle{store: s, uri: uri, kind: kind}, nil
}

type memoryHandle struct {
	store *MemoryStore
	uri   URI
	kind  codec.NodeKind
}

func (h *memoryHandle) URI() URI              { return h.uri }
func (h *memoryHandle) Kind() codec.NodeKind  { return h.kind }
func (h *memoryHandle) Value(_ context.Context) ([]byte, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.data[string(h.uri)]
	if !ok {
		return nil, &Error{Op: "value", URI: h.uri, Kind: h.kind, Err: fmt.Errorf("no such blob")}
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}
