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
	"github.com/wotbrew/lanterman/d"
)

// Log is the root container: a tree root paired with a live tail and the
// slab-sealing threshold. Log implements Node itself, so a whole log can be
// pushed into another log as a single embedded_node buffer.
type Log struct {
	Root             Node // always a Tree, or a Reference(tree) once persisted
	Tail             Tail
	OptimalSlabBytes int
}

func (Log) isNode() {}

func (l Log) Len() int       { return l.Root.Len() + l.Tail.Len() }
func (l Log) ByteCount() int { return codec.LogOverhead + l.Root.ByteCount() + l.Tail.ByteCount() }

// NewLog constructs an empty Log: an empty tree root and an empty tail.
func NewLog(branchingFactor, maxInlineBytes, optimalSlabBytes int) Log {
	return Log{
		Root:             EmptyTree(branchingFactor),
		Tail:             EmptyTail(maxInlineBytes),
		OptimalSlabBytes: optimalSlabBytes,
	}
}

// Append routes x into lg's tail: if the tail's byte count has already
// reached optimal_slab_bytes, it is first sealed into a slab and pushed
// into the tree root, leaving a fresh empty tail. x is then added to the
// tail whatever its size, so a single Append seals at most once while
// optimal_slab_bytes exceeds an empty tail's byte count.
func Append(ctx context.Context, ns NodeStore, lg Log, x any) (Log, error) {
	for lg.Tail.ByteCount() >= lg.OptimalSlabBytes {
		sealed, err := sealTail(ctx, ns, lg)
		if err != nil {
			return Log{}, err
		}
		lg = sealed
	}

	newTail, err := AddToTail(ctx, ns, lg.Tail, x)
	if err != nil {
		return Log{}, err
	}
	lg.Tail = newTail
	return lg, nil
}

// sealTail flattens lg's current tail into a slab, pushes it into the
// (possibly referenced) tree root, and installs a fresh empty tail.
func sealTail(ctx context.Context, ns NodeStore, lg Log) (Log, error) {
	slab, err := NodeToSlab(ctx, ns, lg.Tail)
	if err != nil {
		return Log{}, err
	}

	rootNode, err := Unref(ctx, ns, lg.Root)
	if err != nil {
		return Log{}, err
	}
	rootTree, ok := rootNode.(Tree)
	d.PanicIfFalse(ok)

	newRoot, err := PushSlab(ctx, ns, rootTree, slab)
	if err != nil {
		return Log{}, err
	}

	lg.Root = newRoot
	lg.Tail = EmptyTail(lg.Tail.MaxInlineBytes)
	return lg, nil
}
