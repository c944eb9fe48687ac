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
	"fmt"

	"github.com/wotbrew/lanterman/codec"
)

// NewBuffer normalizes x into a Buffer:
//   - a Buffer is returned unchanged
//   - a []byte becomes a raw_bytes buffer
//   - a string becomes a utf8_string buffer
//   - any other Node is serialized and wrapped as an embedded_node buffer,
//     so whole sub-logs can be pushed as single buffer entries
//   - anything else is encoded with vc and wrapped as an encoded_value buffer
func NewBuffer(x any, vc codec.ValueCodec) (Buffer, error) {
	switch v := x.(type) {
	case Buffer:
		return v, nil
	case []byte:
		return Buffer{Payload: v, Kind: codec.RawBytes, length: 1}, nil
	case string:
		return Buffer{Payload: []byte(v), Kind: codec.UTF8String, length: 1}, nil
	case Node:
		payload, kind, err := NodeToBytes(v)
		if err != nil {
			return Buffer{}, fmt.Errorf("tree: encoding embedded node: %w", err)
		}
		framed := append([]byte{byte(kind)}, payload...)
		return Buffer{Payload: framed, Kind: codec.EmbeddedNode, length: v.Len()}, nil
	default:
		if vc == nil {
			return Buffer{}, fmt.Errorf("tree: no ValueCodec configured for value of type %T", x)
		}
		payload, err := vc.Encode(x)
		if err != nil {
			return Buffer{}, fmt.Errorf("tree: encoding value: %w", err)
		}
		return Buffer{Payload: payload, Kind: codec.EncodedValue, length: 1}, nil
	}
}

// decodeEmbedded splits an embedded_node buffer's framed payload back into
// its NodeKind tag and node bytes, and parses the node.
func decodeEmbedded(payload []byte) (Node, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("tree: truncated embedded node header")
	}
	kind := codec.NodeKind(payload[0])
	return ReadNode(payload[1:], kind)
}
