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

// Package blob is the durable reference store collaborator: an abstract
// persist/reference interface, plus three concrete drivers (memory,
// filesystem, S3) selected by URI scheme. This package, and everything
// beneath it, is a collaborator — the tree and mlog packages only ever see
// the Store interface.
package blob

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wotbrew/lanterman/codec"
	"github.com/wotbrew/lanterman/hash"
)

// URI addresses a single persisted blob.
type URI string

// Handle materializes a previously persisted value, blocking on storage I/O
// as needed.
type Handle interface {
	URI() URI
	Kind() codec.NodeKind
	Value(ctx context.Context) ([]byte, error)
}

// Store is the abstract durable reference store: persist(base_uri, value,
// kind_hint) -> uri, and reference(uri) -> handle.
type Store interface {
	// Persist writes value under baseURI, content-addressed, and returns its
	// URI.
	Persist(ctx context.Context, baseURI string, kind codec.NodeKind, value []byte) (URI, error)
	// Reference resolves uri to a Handle without necessarily reading its
	// bytes yet.
	Reference(ctx context.Context, uri URI) (Handle, error)
}

// Error is the StorageError kind: a wrapped failure from the blob store
// (network, I/O, permission), annotated with the node kind and URI where
// available.
type Error struct {
	Op   string
	Kind codec.NodeKind
	URI  URI
	Err  error
}

func (e *Error) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("blob: %s %s (%s): %v", e.Op, e.URI, e.Kind, e.Err)
	}
	return fmt.Sprintf("blob: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func contentKey(kind codec.NodeKind, value []byte) string {
	return fmt.Sprintf("%s-%s", kind, hash.Of(value))
}

// Multi dispatches Persist/Reference across a set of Store drivers keyed by
// URI scheme, e.g. {"memory": mem, "file": fs, "s3": s3}. This is the Store
// a mlog.Log is normally configured with, mirroring how dolt's chunk stores
// are selected by the scheme of a database spec (go/store/spec).
type Multi struct {
	byScheme map[string]Store
}

// NewMulti builds a Multi from a scheme -> driver map.
func NewMulti(byScheme map[string]Store) *Multi {
	return &Multi{byScheme: byScheme}
}

func (m *Multi) driverFor(rawURI string) (Store, string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, "", fmt.Errorf("blob: invalid URI %q: %w", rawURI, err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "memory"
	}
	s, ok := m.byScheme[scheme]
	if !ok {
		return nil, "", fmt.Errorf("blob: no driver registered for scheme %q", scheme)
	}
	return s, scheme, nil
}

func (m *Multi) Persist(ctx context.Context, baseURI string, kind codec.NodeKind, value []byte) (URI, error) {
	s, _, err := m.driverFor(baseURI)
	if err != nil {
		return "", err
	}
	return s.Persist(ctx, baseURI, kind, value)
}

func (m *Multi) Reference(ctx context.Context, uri URI) (Handle, error) {
	s, _, err := m.driverFor(string(uri))
	if err != nil {
		return nil, err
	}
	return s.Reference(ctx, uri)
}
