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

// Package tree implements the layered node model — Buffer, Slab, Tail,
// Tree, Reference, and Log — and the mutation/persistence algebra built on
// top of it: append, push_slab, add_to_tail, buffer and message
// enumeration, offset fetch, and the persistence walk. This package is the
// core of the log; everything it needs from a durable store or a value
// codec arrives through the NodeStore interface in store.go, never
// through a concrete import of the blob or codec collaborator packages'
// drivers.
//
// This mirrors the shape of dolt's go/store/prolly/tree package: a tagged
// node type, a NodeStore seam for chunk materialization, and a persistent,
// right-growing tree over sealed leaves.
package tree

import "github.com/wotbrew/lanterman/codec"

// URI addresses a persisted node. It is a plain string here (rather than an
// import of package blob) so that package tree — the core — has no
// compile-time dependency on the concrete blob store drivers.
type URI string

// Node is the common interface every node variant satisfies: the two
// derived aggregates every node carries.
type Node interface {
	// Len is the number of logical messages this node contains.
	Len() int
	// ByteCount is this node's total serialized size (payload + framing).
	ByteCount() int

	isNode()
}

// empty reports whether n carries zero messages. Used by add_to_tail,
// which treats an empty argument as a no-op.
func empty(n Node) bool {
	return n == nil || n.Len() == 0
}

// Buffer is the leaf payload: a byte sequence plus a decoding hint.
type Buffer struct {
	Payload []byte
	Kind    codec.BufferKind
	length  int // 1 for raw/string/encoded_value; the embedded node's length for embedded_node
}

func (Buffer) isNode() {}

// Len implements Node.
func (b Buffer) Len() int { return b.length }

// ByteCount implements Node.
func (b Buffer) ByteCount() int { return codec.BufferOverhead + len(b.Payload) }

// Slab is a sealed, ordered group of buffers with a fixed byte footprint.
// It never grows after creation.
type Slab struct {
	Buffers   []Buffer
	length    int
	byteCount int
}

func (Slab) isNode() {}

func (s Slab) Len() int       { return s.length }
func (s Slab) ByteCount() int { return s.byteCount }

func newSlab(buffers []Buffer) Slab {
	s := Slab{Buffers: buffers, byteCount: codec.SlabOverhead}
	for _, b := range buffers {
		s.length += b.Len()
		s.byteCount += b.ByteCount()
	}
	return s
}

// Tail is the mutable frontier of the log: a bounded inline byte
// accumulator that promotes overflow into sub-tails and slabs.
type Tail struct {
	Nodes          []Node
	Buffers        []Buffer
	InlineBytes    int
	MaxInlineBytes int
	length         int
	byteCount      int
}

func (Tail) isNode() {}

func (t Tail) Len() int       { return t.length }
func (t Tail) ByteCount() int { return t.byteCount }

// EmptyTail constructs a fresh, empty Tail bounded by maxInlineBytes.
func EmptyTail(maxInlineBytes int) Tail {
	return Tail{
		MaxInlineBytes: maxInlineBytes,
		byteCount:      codec.TailOverhead,
	}
}

func (t Tail) recomputed() Tail {
	t.length = 0
	t.byteCount = codec.TailOverhead
	for _, n := range t.Nodes {
		t.length += n.Len()
		t.byteCount += n.ByteCount()
	}
	for _, b := range t.Buffers {
		t.length += b.Len()
		t.byteCount += b.ByteCount()
	}
	return t
}

// TreeElement is a single branch of a Tree: the offset at which Value
// begins, its own aggregates, and nslabs, the number of slab-equivalent
// leaves beneath it.
type TreeElement struct {
	Offset    int
	Length    int
	ByteCount int
	NSlabs    int
	Value     Node // Slab, Reference(slab|tree), or Tree
}

func elementFor(offset int, nslabs int, value Node) TreeElement {
	return TreeElement{
		Offset:    offset,
		Length:    value.Len(),
		ByteCount: value.ByteCount(),
		NSlabs:    nslabs,
		Value:     value,
	}
}

// Tree is the persistent, right-growing B+-like structure whose leaves are
// slabs or references to slabs.
type Tree struct {
	BranchingFactor int
	Elements        []TreeElement
	length          int
	byteCount       int
}

func (Tree) isNode() {}

func (t Tree) Len() int       { return t.length }
func (t Tree) ByteCount() int { return t.byteCount }

// EmptyTree constructs a tree with no elements, bounded by branchingFactor.
func EmptyTree(branchingFactor int) Tree {
	return Tree{BranchingFactor: branchingFactor, byteCount: codec.TreeOverhead}
}

func (t Tree) recomputed() Tree {
	t.length = 0
	t.byteCount = codec.TreeOverhead
	for _, e := range t.Elements {
		t.length += e.Length
		t.byteCount += e.ByteCount + codec.TreeElementOverhead
	}
	return t
}

// TreeCount returns the total nslabs across this tree's top-level elements,
// i.e. the number of slab-equivalent leaves reachable from it.
func (t Tree) TreeCount() int {
	n := 0
	for _, e := range t.Elements {
		n += e.NSlabs
	}
	return n
}

// Reference is an opaque handle to a persisted node: its URI, cached
// aggregates, and the kind of node it stands for.
type Reference struct {
	URI         URI
	RefNodeKind codec.NodeKind
	length      int
	byteCount   int
}

func (Reference) isNode() {}

func (r Reference) Len() int       { return r.length }
func (r Reference) ByteCount() int { return r.byteCount + codec.RefOverhead }

// NewReference builds a Reference to a persisted node of the given kind,
// caching its aggregates so they remain available without dereferencing.
func NewReference(uri URI, kind codec.NodeKind, length, byteCount int) Reference {
	return Reference{URI: uri, RefNodeKind: kind, length: length, byteCount: byteCount}
}
