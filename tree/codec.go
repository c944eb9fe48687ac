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
	"encoding/binary"
	"fmt"

	"github.com/wotbrew/lanterman/codec"
)

// NodeToBytes serializes n to bytes and reports which NodeKind it is. The
// wire format is a plain length-prefixed/varint framing rather than a
// generated flatbuffers schema — see DESIGN.md for why flatbuffers itself
// isn't wired in.
func NodeToBytes(n Node) ([]byte, codec.NodeKind, error) {
	switch v := n.(type) {
	case Buffer:
		return encodeBuffer(v), codec.BufferNode, nil
	case Slab:
		b, err := encodeSlab(v)
		return b, codec.SlabNode, err
	case Tail:
		b, err := encodeTail(v)
		return b, codec.TailNode, err
	case Tree:
		b, err := encodeTree(v)
		return b, codec.TreeNode, err
	case Reference:
		return encodeReference(v), codec.ReferenceNode, nil
	case Log:
		b, err := encodeLog(v)
		return b, codec.LogNode, err
	default:
		return nil, 0, fmt.Errorf("tree: cannot encode node of type %T", n)
	}
}

// ReadNode parses data as a node of the given kind, the inverse of
// NodeToBytes.
func ReadNode(data []byte, kind codec.NodeKind) (Node, error) {
	switch kind {
	case codec.BufferNode:
		return decodeBuffer(data)
	case codec.SlabNode:
		return decodeSlab(data)
	case codec.TailNode:
		return decodeTail(data)
	case codec.TreeNode:
		return decodeTree(data)
	case codec.ReferenceNode:
		return decodeReference(data)
	case codec.LogNode:
		return decodeLog(data)
	default:
		return nil, fmt.Errorf("tree: unknown node kind %v", kind)
	}
}

// --- framing helpers -------------------------------------------------

func putUvarint(buf []byte, v uint64) []byte {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], v)
	return append(buf, scratch[:n]...)
}

func takeUvarint(buf []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, nil, fmt.Errorf("tree: malformed varint")
	}
	return v, buf[n:], nil
}

func putBytes(buf []byte, data []byte) []byte {
	buf = putUvarint(buf, uint64(len(data)))
	return append(buf, data...)
}

func takeBytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := takeUvarint(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n {
		return nil, nil, fmt.Errorf("tree: truncated buffer")
	}
	return rest[:n], rest[n:], nil
}

// --- Buffer ------------------------------------------------------------

func encodeBuffer(b Buffer) []byte {
	buf := make([]byte, 0, len(b.Payload)+8)
	buf = append(buf, byte(b.Kind))
	buf = putUvarint(buf, uint64(b.length))
	buf = putBytes(buf, b.Payload)
	return buf
}

func decodeBuffer(data []byte) (Buffer, error) {
	if len(data) < 1 {
		return Buffer{}, fmt.Errorf("tree: truncated buffer header")
	}
	kind := codec.BufferKind(data[0])
	rest := data[1:]
	length, rest, err := takeUvarint(rest)
	if err != nil {
		return Buffer{}, err
	}
	payload, _, err := takeBytes(rest)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{Payload: payload, Kind: kind, length: int(length)}, nil
}

// --- Slab ----------------------------------------------------------------

func encodeSlab(s Slab) ([]byte, error) {
	buf := putUvarint(nil, uint64(len(s.Buffers)))
	for _, b := range s.Buffers {
		buf = putBytes(buf, encodeBuffer(b))
	}
	return buf, nil
}

func decodeSlab(data []byte) (Slab, error) {
	count, rest, err := takeUvarint(data)
	if err != nil {
		return Slab{}, err
	}
	buffers := make([]Buffer, 0, count)
	for i := uint64(0); i < count; i++ {
		var raw []byte
		raw, rest, err = takeBytes(rest)
		if err != nil {
			return Slab{}, err
		}
		b, err := decodeBuffer(raw)
		if err != nil {
			return Slab{}, err
		}
		buffers = append(buffers, b)
	}
	return newSlab(buffers), nil
}

// --- Tail ------------------------------------------------------------------

func encodeTail(t Tail) ([]byte, error) {
	buf := putUvarint(nil, uint64(len(t.Nodes)))
	for _, n := range t.Nodes {
		nb, kind, err := NodeToBytes(n)
		if err != nil {
			return nil, err
		}
		buf = append(buf, byte(kind))
		buf = putBytes(buf, nb)
	}
	buf = putUvarint(buf, uint64(len(t.Buffers)))
	for _, b := range t.Buffers {
		buf = putBytes(buf, encodeBuffer(b))
	}
	buf = putUvarint(buf, uint64(t.InlineBytes))
	buf = putUvarint(buf, uint64(t.MaxInlineBytes))
	return buf, nil
}

func decodeTail(data []byte) (Tail, error) {
	nodeCount, rest, err := takeUvarint(data)
	if err != nil {
		return Tail{}, err
	}
	nodes := make([]Node, 0, nodeCount)
	for i := uint64(0); i < nodeCount; i++ {
		if len(rest) < 1 {
			return Tail{}, fmt.Errorf("tree: truncated tail node header")
		}
		kind := codec.NodeKind(rest[0])
		rest = rest[1:]
		var raw []byte
		raw, rest, err = takeBytes(rest)
		if err != nil {
			return Tail{}, err
		}
		n, err := ReadNode(raw, kind)
		if err != nil {
			return Tail{}, err
		}
		nodes = append(nodes, n)
	}

	bufCount, rest, err := takeUvarint(rest)
	if err != nil {
		return Tail{}, err
	}
	buffers := make([]Buffer, 0, bufCount)
	for i := uint64(0); i < bufCount; i++ {
		var raw []byte
		raw, rest, err = takeBytes(rest)
		if err != nil {
			return Tail{}, err
		}
		b, err := decodeBuffer(raw)
		if err != nil {
			return Tail{}, err
		}
		buffers = append(buffers, b)
	}

	inlineBytes, rest, err := takeUvarint(rest)
	if err != nil {
		return Tail{}, err
	}
	maxInlineBytes, _, err := takeUvarint(rest)
	if err != nil {
		return Tail{}, err
	}

	t := Tail{Nodes: nodes, Buffers: buffers, InlineBytes: int(inlineBytes), MaxInlineBytes: int(maxInlineBytes)}
	return t.recomputed(), nil
}

// --- Tree --------------------------------------------------------------------

// encodeTree frames the per-element {offset, length, byte_count, nslabs}
// metadata as four parallel uvarint tables via codec.WriteUvarintSlice,
// ahead of the elements' own kind-tagged value bytes.
func encodeTree(t Tree) ([]byte, error) {
	buf := putUvarint(nil, uint64(t.BranchingFactor))
	n := len(t.Elements)
	buf = putUvarint(buf, uint64(n))

	offsets := make([]uint64, n)
	lengths := make([]uint64, n)
	byteCounts := make([]uint64, n)
	nslabs := make([]uint64, n)
	for i, e := range t.Elements {
		offsets[i] = uint64(e.Offset)
		lengths[i] = uint64(e.Length)
		byteCounts[i] = uint64(e.ByteCount)
		nslabs[i] = uint64(e.NSlabs)
	}
	buf = codec.WriteUvarintSlice(buf, offsets)
	buf = codec.WriteUvarintSlice(buf, lengths)
	buf = codec.WriteUvarintSlice(buf, byteCounts)
	buf = codec.WriteUvarintSlice(buf, nslabs)

	for _, e := range t.Elements {
		vb, kind, err := NodeToBytes(e.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, byte(kind))
		buf = putBytes(buf, vb)
	}
	return buf, nil
}

// decodeTree is the inverse of encodeTree. It reads the four parallel
// subtree-count tables back via codec.ReadUvarintSlice, then sanity-checks
// the length and byte_count tables with codec.SumUvarintSlice against the
// aggregate recomputed from the decoded elements' own values, catching a
// corrupted or truncated table that would otherwise only surface as a
// silently wrong Len()/ByteCount() much later.
func decodeTree(data []byte) (Tree, error) {
	branchingFactor, rest, err := takeUvarint(data)
	if err != nil {
		return Tree{}, err
	}
	count, rest, err := takeUvarint(rest)
	if err != nil {
		return Tree{}, err
	}
	n := int(count)

	offsets, consumed := codec.ReadUvarintSlice(n, rest)
	rest = rest[consumed:]
	lengths, consumed := codec.ReadUvarintSlice(n, rest)
	rest = rest[consumed:]
	byteCounts, consumed := codec.ReadUvarintSlice(n, rest)
	rest = rest[consumed:]
	nslabs, consumed := codec.ReadUvarintSlice(n, rest)
	rest = rest[consumed:]

	elements := make([]TreeElement, 0, n)
	for i := 0; i < n; i++ {
		if len(rest) < 1 {
			return Tree{}, fmt.Errorf("tree: truncated element header")
		}
		kind := codec.NodeKind(rest[0])
		rest = rest[1:]
		var raw []byte
		raw, rest, err = takeBytes(rest)
		if err != nil {
			return Tree{}, err
		}
		value, err := ReadNode(raw, kind)
		if err != nil {
			return Tree{}, err
		}
		elements = append(elements, elementFor(int(offsets[i]), int(nslabs[i]), value))
	}
	t := Tree{BranchingFactor: int(branchingFactor), Elements: elements}
	t = t.recomputed()

	if codec.SumUvarintSlice(lengths) != uint64(t.length) {
		return Tree{}, fmt.Errorf("tree: decoded length table sums to %d, want %d", codec.SumUvarintSlice(lengths), t.length)
	}
	wantByteCount := uint64(t.byteCount) - uint64(codec.TreeOverhead) - uint64(n)*uint64(codec.TreeElementOverhead)
	if codec.SumUvarintSlice(byteCounts) != wantByteCount {
		return Tree{}, fmt.Errorf("tree: decoded byte_count table sums to %d, want %d", codec.SumUvarintSlice(byteCounts), wantByteCount)
	}

	return t, nil
}

// --- Reference -----------------------------------------------------------------

func encodeReference(r Reference) []byte {
	buf := []byte{byte(r.RefNodeKind)}
	buf = putBytes(buf, []byte(r.URI))
	buf = putUvarint(buf, uint64(r.length))
	buf = putUvarint(buf, uint64(r.byteCount))
	return buf
}

func decodeReference(data []byte) (Reference, error) {
	if len(data) < 1 {
		return Reference{}, fmt.Errorf("tree: truncated reference header")
	}
	kind := codec.NodeKind(data[0])
	rest := data[1:]
	uriBytes, rest, err := takeBytes(rest)
	if err != nil {
		return Reference{}, err
	}
	length, rest, err := takeUvarint(rest)
	if err != nil {
		return Reference{}, err
	}
	byteCount, _, err := takeUvarint(rest)
	if err != nil {
		return Reference{}, err
	}
	return Reference{URI: URI(uriBytes), RefNodeKind: kind, length: int(length), byteCount: int(byteCount)}, nil
}

// --- Log -------------------------------------------------------------------

func encodeLog(l Log) ([]byte, error) {
	rootBytes, rootKind, err := NodeToBytes(l.Root)
	if err != nil {
		return nil, err
	}
	tailBytes, tailKind, err := NodeToBytes(l.Tail)
	if err != nil {
		return nil, err
	}

	buf := []byte{byte(rootKind)}
	buf = putBytes(buf, rootBytes)
	buf = append(buf, byte(tailKind))
	buf = putBytes(buf, tailBytes)
	buf = putUvarint(buf, uint64(l.OptimalSlabBytes))
	return buf, nil
}

func decodeLog(data []byte) (Log, error) {
	if len(data) < 1 {
		return Log{}, fmt.Errorf("tree: truncated log root header")
	}
	rootKind := codec.NodeKind(data[0])
	rest := data[1:]
	rootBytes, rest, err := takeBytes(rest)
	if err != nil {
		return Log{}, err
	}
	root, err := ReadNode(rootBytes, rootKind)
	if err != nil {
		return Log{}, err
	}

	if len(rest) < 1 {
		return Log{}, fmt.Errorf("tree: truncated log tail header")
	}
	tailKind := codec.NodeKind(rest[0])
	rest = rest[1:]
	tailBytes, rest, err := takeBytes(rest)
	if err != nil {
		return Log{}, err
	}
	tailNode, err := ReadNode(tailBytes, tailKind)
	if err != nil {
		return Log{}, err
	}
	tail, ok := tailNode.(Tail)
	if !ok {
		return Log{}, fmt.Errorf("tree: log tail decoded to unexpected type %T", tailNode)
	}

	optimalSlabBytes, _, err := takeUvarint(rest)
	if err != nil {
		return Log{}, err
	}

	return Log{Root: root, Tail: tail, OptimalSlabBytes: int(optimalSlabBytes)}, nil
}
