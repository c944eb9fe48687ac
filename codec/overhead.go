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

// Package codec hosts the low-level wire-framing primitives and the
// pluggable value codec that the tree and mlog packages build node
// serialization on top of. It mirrors the role of dolt's
// go/store/prolly/message package: the byte-level framing lives here, while
// the concrete node assembly (which needs the node types themselves) lives
// in the tree package.
package codec

// Overhead constants. Each is a fixed small positive integer contributed by
// this package's framing; the algorithms in tree and mlog never depend on
// their specific values, only on them being fixed.
const (
	BufferOverhead      = 4
	SlabOverhead        = 8
	TailOverhead        = 12
	TreeOverhead        = 8
	TreeElementOverhead = 24
	LogOverhead         = 16
	RefOverhead         = 20
)

// BufferKind tags the decoding hint carried by a Buffer.
type BufferKind uint8

const (
	RawBytes BufferKind = iota
	UTF8String
	EncodedValue
	EmbeddedNode
)

func (k BufferKind) String() string {
	switch k {
	case RawBytes:
		return "raw_bytes"
	case UTF8String:
		return "utf8_string"
	case EncodedValue:
		return "encoded_value"
	case EmbeddedNode:
		return "embedded_node"
	default:
		return "unknown_buffer_kind"
	}
}

// NodeKind tags which node variant a Reference stands for, and is the
// "kind_hint" passed to a blob.Store on persist.
type NodeKind uint8

const (
	BufferNode NodeKind = iota
	SlabNode
	TailNode
	TreeNode
	ReferenceNode
	LogNode
)

func (k NodeKind) String() string {
	switch k {
	case BufferNode:
		return "buffer"
	case SlabNode:
		return "slab"
	case TailNode:
		return "tail"
	case TreeNode:
		return "tree"
	case ReferenceNode:
		return "reference"
	case LogNode:
		return "log"
	default:
		return "unknown_node_kind"
	}
}
