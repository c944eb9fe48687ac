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
)

// BufferIterable produces the ordered stream of Buffer leaves under node.
// It is eager (collected into a slice) rather than a true lazy generator —
// see DESIGN.md — but callers only ever see it through Message, which is
// what the public API exposes.
func BufferIterable(ctx context.Context, ns NodeStore, node Node) ([]Buffer, error) {
	var out []Buffer
	if err := collectBuffers(ctx, ns, node, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectBuffers(ctx context.Context, ns NodeStore, node Node, out *[]Buffer) error {
	switch v := node.(type) {
	case Buffer:
		*out = append(*out, v)
		return nil
	case Slab:
		for _, b := range v.Buffers {
			if err := collectBuffer(ctx, ns, b, out); err != nil {
				return err
			}
		}
		return nil
	case Tail:
		for _, n := range v.Nodes {
			if err := collectBuffers(ctx, ns, n, out); err != nil {
				return err
			}
		}
		for _, b := range v.Buffers {
			if err := collectBuffer(ctx, ns, b, out); err != nil {
				return err
			}
		}
		return nil
	case Tree:
		for _, e := range v.Elements {
			if err := collectBuffers(ctx, ns, e.Value, out); err != nil {
				return err
			}
		}
		return nil
	case Reference:
		target, err := ns.Unref(ctx, v)
		if err != nil {
			return err
		}
		return collectBuffers(ctx, ns, target, out)
	case Log:
		if err := collectBuffers(ctx, ns, v.Root, out); err != nil {
			return err
		}
		return collectBuffers(ctx, ns, v.Tail, out)
	default:
		return fmt.Errorf("tree: cannot iterate buffers of node type %T", node)
	}
}

// collectBuffer appends b to out, unless b is an embedded_node buffer, in
// which case it decodes the node it carries and recurses into its own
// buffer stream instead. Shared by the Slab and Tail cases of
// collectBuffers so an embedded log reached through either path flattens
// the same way.
func collectBuffer(ctx context.Context, ns NodeStore, b Buffer, out *[]Buffer) error {
	if b.Kind != codec.EmbeddedNode {
		*out = append(*out, b)
		return nil
	}
	embedded, err := decodeEmbedded(b.Payload)
	if err != nil {
		return fmt.Errorf("tree: decoding embedded node: %w", err)
	}
	return collectBuffers(ctx, ns, embedded, out)
}

// Message is the decoded payload of one Buffer, tagged as a sum over raw
// bytes, decoded strings, and decoded values (embedded_node buffers never
// surface a Message of their own — they are recursed into, flattening
// their constituent messages in place).
type Message struct {
	Kind  codec.BufferKind
	Bytes []byte // valid when Kind == RawBytes
	Str   string // valid when Kind == UTF8String
	Value any    // valid when Kind == EncodedValue
}

// MessageIterable decodes each buffer in node's buffer stream per its kind.
func MessageIterable(ctx context.Context, ns NodeStore, node Node) ([]Message, error) {
	buffers, err := BufferIterable(ctx, ns, node)
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(buffers))
	for _, b := range buffers {
		m, err := decodeMessage(ctx, ns, b)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func decodeMessage(ctx context.Context, ns NodeStore, b Buffer) (Message, error) {
	switch b.Kind {
	case codec.RawBytes:
		return Message{Kind: codec.RawBytes, Bytes: b.Payload}, nil
	case codec.UTF8String:
		return Message{Kind: codec.UTF8String, Str: string(b.Payload)}, nil
	case codec.EncodedValue:
		v, err := ns.ValueCodec().Decode(b.Payload)
		if err != nil {
			return Message{}, fmt.Errorf("tree: decoding value: %w", err)
		}
		return Message{Kind: codec.EncodedValue, Value: v}, nil
	default:
		// embedded_node buffers are flattened away by BufferIterable and
		// never reach decodeMessage directly.
		return Message{}, fmt.Errorf("tree: unexpected buffer kind %v at message decode", b.Kind)
	}
}
