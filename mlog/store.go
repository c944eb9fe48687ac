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

package mlog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wotbrew/lanterman/blob"
	"github.com/wotbrew/lanterman/cache"
	"github.com/wotbrew/lanterman/codec"
	"github.com/wotbrew/lanterman/tree"
)

// store implements tree.NodeStore by wiring a blob.Store to three bounded
// caches (one per persisted node shape) and the configured ValueCodec.
// Slabs, tails, and trees get independent caches since they are resolved
// by different access patterns: slabs and tails are read back whole on
// fetch, while trees are walked element by element.
type store struct {
	blob  blob.Store
	vc    codec.ValueCodec
	log   *logrus.Logger
	slabs *cache.Cache[blob.URI, tree.Node]
	tails *cache.Cache[blob.URI, tree.Node]
	trees *cache.Cache[blob.URI, tree.Node]
}

func newStore(b blob.Store, vc codec.ValueCodec, log *logrus.Logger) *store {
	return &store{
		blob:  b,
		vc:    vc,
		log:   log,
		slabs: cache.New[blob.URI, tree.Node](slabCacheCapacity),
		tails: cache.New[blob.URI, tree.Node](tailCacheCapacity),
		trees: cache.New[blob.URI, tree.Node](treeCacheCapacity),
	}
}

func (s *store) ValueCodec() codec.ValueCodec { return s.vc }

func (s *store) cacheFor(kind codec.NodeKind) *cache.Cache[blob.URI, tree.Node] {
	switch kind {
	case codec.SlabNode:
		return s.slabs
	case codec.TailNode:
		return s.tails
	case codec.TreeNode:
		return s.trees
	default:
		return nil
	}
}

// Persist implements tree.NodeStore. It serializes value, writes it
// through the blob store under baseURI, and installs the in-memory value
// into the appropriate cache keyed by the resulting URI — a Persist is
// always immediately followed by at least one Unref-shaped use in
// practice (the caller just built value and wants to keep using it), so
// priming the cache here avoids an avoidable round trip.
func (s *store) Persist(ctx context.Context, baseURI string, value tree.Node) (tree.Reference, error) {
	data, kind, err := tree.NodeToBytes(value)
	if err != nil {
		return tree.Reference{}, &DecodeError{Kind: kind, Err: err}
	}

	blobURI, err := s.blob.Persist(ctx, baseURI, kind, data)
	if err != nil {
		s.log.WithFields(logrus.Fields{"kind": kind.String(), "base_uri": baseURI}).WithError(err).Error("mlog: persist failed")
		return tree.Reference{}, &StorageError{Op: "persist", Kind: kind, Err: err}
	}

	if c := s.cacheFor(kind); c != nil {
		c.Insert(blobURI, value)
	}

	ref := tree.NewReference(tree.URI(blobURI), kind, value.Len(), value.ByteCount())
	s.log.WithFields(logrus.Fields{"kind": kind.String(), "uri": string(blobURI)}).Debug("mlog: persisted node")
	return ref, nil
}

// Unref implements tree.NodeStore. It consults the cache selected by
// ref's kind, falling back to the blob store and a tree.ReadNode decode
// on a miss.
func (s *store) Unref(ctx context.Context, ref tree.Reference) (tree.Node, error) {
	blobURI := blob.URI(ref.URI)
	c := s.cacheFor(ref.RefNodeKind)
	if c == nil {
		return nil, fmt.Errorf("mlog: cannot resolve reference of kind %s", ref.RefNodeKind)
	}

	return c.GetOrInsert(blobURI, func() (tree.Node, error) {
		h, err := s.blob.Reference(ctx, blobURI)
		if err != nil {
			s.log.WithFields(logrus.Fields{"kind": ref.RefNodeKind.String(), "uri": string(blobURI)}).WithError(err).Error("mlog: reference failed")
			return nil, &StorageError{Op: "reference", Kind: ref.RefNodeKind, URI: string(blobURI), Err: err}
		}
		data, err := h.Value(ctx)
		if err != nil {
			return nil, &StorageError{Op: "value", Kind: ref.RefNodeKind, URI: string(blobURI), Err: err}
		}
		n, err := tree.ReadNode(data, ref.RefNodeKind)
		if err != nil {
			return nil, &DecodeError{Kind: ref.RefNodeKind, Err: err}
		}
		return n, nil
	})
}

func (s *store) treeStorageSpec(o Options) tree.StorageSpec {
	return tree.StorageSpec{
		SlabBaseURI: o.Storage.SlabBaseURI,
		TreeBaseURI: o.Storage.TreeBaseURI,
		TailBaseURI: o.Storage.TailBaseURI,
		LogBaseURI:  o.Storage.LogBaseURI,
	}
}
