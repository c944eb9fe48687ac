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

	"github.com/wotbrew/lanterman/codec"
)

// NodeStore is the seam through which the core reaches the blob store and
// its bounded caches, without importing those collaborator packages
// directly. The mlog package's unexported store type implements this by
// wiring together a blob.Store,
// three cache.Cache instances, and a codec.ValueCodec.
type NodeStore interface {
	// Unref materializes the node a Reference stands for, consulting the
	// appropriate bounded cache first and falling back to the blob store
	// on a miss.
	Unref(ctx context.Context, ref Reference) (Node, error)

	// Persist writes value's bytes under baseURI and returns a Reference to
	// it, installing it into the appropriate cache.
	Persist(ctx context.Context, baseURI string, value Node) (Reference, error)

	// ValueCodec returns the codec used for the encoded_value buffer kind.
	ValueCodec() codec.ValueCodec
}

// Unref resolves node to a concrete (non-Reference) node, fetching through
// ns if necessary. If node is not a reference, it is returned unchanged.
func Unref(ctx context.Context, ns NodeStore, node Node) (Node, error) {
	ref, ok := node.(Reference)
	if !ok {
		return node, nil
	}
	return ns.Unref(ctx, ref)
}
