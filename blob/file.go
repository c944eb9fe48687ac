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
	"io"
	"net/url"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/wotbrew/lanterman/codec"
)

// FileStore is the filesystem scheme driver. It is built on
// github.com/go-git/go-billy rather than the bare os package, so that a
// lanterman deployment can swap in billy's in-memory or chroot filesystems
// for tests without touching this driver.
type FileStore struct {
	fs billy.Filesystem
}

// NewFileStore roots a FileStore at dir on the local disk.
func NewFileStore(dir string) (*FileStore, error) {
	return &FileStore{fs: osfs.New(dir)}, nil
}

// NewFileStoreOn wraps an already-constructed billy.Filesystem, e.g.
// memfs.New() for hermetic tests.
func NewFileStoreOn(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

func (s *FileStore) pathFor(baseURI string, key string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", fmt.Errorf("blob: invalid file URI %q: %w", baseURI, err)
	}
	dir := u.Path
	if dir == "" {
		dir = u.Opaque
	}
	if dir == "" {
		dir = "."
	}
	return dir + "/" + key, nil
}

func (s *FileStore) Persist(_ context.Context, baseURI string, kind codec.NodeKind, value []byte) (URI, error) {
	key := contentKey(kind, value)
	path, err := s.pathFor(baseURI, key)
	if err != nil {
		return "", err
	}

	dir := billy.Filesystem(s.fs)
	_ = dir.MkdirAll(pathDir(path), 0755)

	f, err := s.fs.Create(path)
	if err != nil {
		return "", &Error{Op: "persist", Kind: kind, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(value); err != nil {
		return "", &Error{Op: "persist", Kind: kind, Err: err}
	}
	return URI(fmt.Sprintf("%s/%s", baseURI, key)), nil
}

func (s *FileStore) Reference(_ context.Context, uri URI) (Handle, error) {
	return &fileHandle{store: s, uri: uri}, nil
}

func pathDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

type fileHandle struct {
	store *FileStore
	uri   URI
}

func (h *fileHandle) URI() URI             { return h.uri }
func (h *fileHandle) Kind() codec.NodeKind { return kindFromURI(h.uri) }

func (h *fileHandle) Value(_ context.Context) ([]byte, error) {
	u, err := url.Parse(string(h.uri))
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	f, err := h.store.fs.Open(path)
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	return data, nil
}

// kindFromURI recovers the NodeKind tag that contentKey embedded in the
// blob's filename, e.g. ".../tree-<hash>" -> TreeNode.
func kindFromURI(uri URI) codec.NodeKind {
	s := string(uri)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			s = s[i+1:]
			break
		}
	}
	for _, k := range []codec.NodeKind{codec.SlabNode, codec.TailNode, codec.TreeNode, codec.BufferNode, codec.ReferenceNode} {
		if len(s) > len(k.String()) && s[:len(k.String())] == k.String() {
			return k
		}
	}
	return codec.BufferNode
}
