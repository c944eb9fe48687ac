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

package codec

import "encoding/binary"

// WriteUvarintSlice appends each of vs as a varint to buf, returning the
// grown slice. Used to frame the per-element {offset, length, byte_count,
// nslabs} metadata a Tree stores, mirroring message.WriteSubtreeCounts.
func WriteUvarintSlice(buf []byte, vs []uint64) []byte {
	var scratch [binary.MaxVarintLen64]byte
	for _, v := range vs {
		n := binary.PutUvarint(scratch[:], v)
		buf = append(buf, scratch[:n]...)
	}
	return buf
}

// ReadUvarintSlice reads n varints from buf, returning the decoded values and
// the number of bytes consumed.
func ReadUvarintSlice(n int, buf []byte) ([]uint64, int) {
	out := make([]uint64, n)
	consumed := 0
	for i := 0; i < n; i++ {
		v, sz := binary.Uvarint(buf[consumed:])
		out[i] = v
		consumed += sz
	}
	return out, consumed
}

// SumUvarintSlice totals vs, used to sanity-check a decoded subtree-count
// table against a node's own aggregate length.
func SumUvarintSlice(vs []uint64) uint64 {
	var sum uint64
	for _, v := range vs {
		sum += v
	}
	return sum
}
