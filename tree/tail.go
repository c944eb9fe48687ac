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

// AddToTail accepts any value — already a Node, or a raw value to be
// wrapped via NewBuffer — and returns the Tail that results from adding it.
//
// A Log is always routed through NewBuffer's embedded_node wrapping
// rather than being streamed or nested directly: it is the one Node
// variant meant to be pushed into another log as a single opaque unit,
// not flattened buffer by buffer.
func AddToTail(ctx context.Context, ns NodeStore, tail Tail, x any) (Tail, error) {
	var n Node
	if _, isLog := x.(Log); isLog {
		b, err := NewBuffer(x, ns.ValueCodec())
		if err != nil {
			return Tail{}, err
		}
		n = b
	} else if asNode, ok := x.(Node); ok {
		n = asNode
	} else {
		b, err := NewBuffer(x, ns.ValueCodec())
		if err != nil {
			return Tail{}, err
		}
		n = b
	}
	return addNodeToTail(ctx, ns, tail, n)
}

// addNodeToTail implements the general node case: an empty node is a
// no-op, a Buffer delegates to addEntryToTail, a node that still fits
// under the inline budget is streamed in one buffer at a time, and
// anything else wraps the existing tail as an inner node.
func addNodeToTail(ctx context.Context, ns NodeStore, tail Tail, n Node) (Tail, error) {
	if empty(n) {
		return tail, nil
	}
	if buf, ok := n.(Buffer); ok {
		return addEntryToTail(tail, buf)
	}

	if tail.InlineBytes+n.ByteCount() <= tail.MaxInlineBytes {
		buffers, err := BufferIterable(ctx, ns, n)
		if err != nil {
			return Tail{}, err
		}
		for _, b := range buffers {
			tail, err = addEntryToTail(tail, b)
			if err != nil {
				return Tail{}, err
			}
		}
		return tail, nil
	}

	return wrapTail(tail, n), nil
}

// wrapTail installs n as a sibling child of the existing tail, resetting
// inline_bytes to just the framing overhead.
func wrapTail(tail Tail, n Node) Tail {
	wrapped := Tail{
		Nodes:          []Node{tail, n},
		MaxInlineBytes: tail.MaxInlineBytes,
		InlineBytes:    codec.TailOverhead,
	}
	return wrapped.recomputed()
}

// addEntryToTail decides among three cases for a single Buffer entry.
func addEntryToTail(tail Tail, buf Buffer) (Tail, error) {
	// Case 1: too big to inline at all — wrap in a singleton slab and
	// install it via wrapTail directly. This is what addNodeToTail's wrap
	// branch would do anyway, since a slab.ByteCount() this large can never
	// fit under max_inline_bytes.
	if len(buf.Payload) > tail.MaxInlineBytes {
		slab := newSlab([]Buffer{buf})
		return wrapTail(tail, slab), nil
	}

	// Case 2: fits alone, but would overflow the current inline budget —
	// shift the existing tail into nodes and start a fresh inline buffer
	// run with just this entry.
	if tail.InlineBytes+len(buf.Payload) > tail.MaxInlineBytes {
		shifted := Tail{
			Nodes:          []Node{tail},
			Buffers:        []Buffer{buf},
			MaxInlineBytes: tail.MaxInlineBytes,
			InlineBytes:    codec.TailOverhead + buf.ByteCount(),
		}
		return shifted.recomputed(), nil
	}

	// Case 3: fits.
	tail.Buffers = append(append([]Buffer(nil), tail.Buffers...), buf)
	tail.InlineBytes += buf.ByteCount()
	return tail.recomputed(), nil
}

// NodeToSlab flattens any node into a Slab by collecting its buffer
// stream.
func NodeToSlab(ctx context.Context, ns NodeStore, n Node) (Slab, error) {
	buffers, err := BufferIterable(ctx, ns, n)
	if err != nil {
		return Slab{}, err
	}
	return newSlab(buffers), nil
}
