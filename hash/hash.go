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

// Package hash implements the content-addressing scheme used to name
// persisted nodes: a fixed-width digest, rendered as a lowercase base32
// string, computed over a node's serialized bytes so that structurally
// equal nodes always share an address.
package hash

import (
	"encoding/base32"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// ByteLen is the width of a Hash in bytes.
const ByteLen = 20

// StringLen is the width of a Hash's canonical string encoding.
const StringLen = 32 // ByteLen * 8 / 5, base32 with no padding

// encoding matches noms' historical choice of a base32-hex alphabet
// (digits before letters) so hashes sort lexicographically the same way
// their underlying bytes do.
var encoding = base32.NewEncoding("0123456789abcdefghijklmnopqrstuv").WithPadding(base32.NoPadding)

// Hash is a content address: the digest of a node's serialized bytes.
type Hash [ByteLen]byte

var emptyHash Hash

// Of computes the content address of data.
func Of(data []byte) Hash {
	full := blake2b.Sum512(data)
	var h Hash
	copy(h[:], full[:ByteLen])
	return h
}

// Parse decodes s into a Hash, panicking if s is not a well-formed hash
// string. Used at call sites that already validated s, e.g. round-tripping
// a URI's hash suffix.
func Parse(s string) Hash {
	h, ok := MaybeParse(s)
	if !ok {
		panic("hash: invalid hash string: " + s)
	}
	return h
}

// MaybeParse decodes s into a Hash, reporting whether s was well-formed.
func MaybeParse(s string) (Hash, bool) {
	if len(s) != StringLen {
		return emptyHash, false
	}
	decoded, err := encoding.DecodeString(s)
	if err != nil || len(decoded) != ByteLen {
		return emptyHash, false
	}
	var h Hash
	copy(h[:], decoded)
	return h, true
}

// String renders h as its canonical base32 form.
func (h Hash) String() string {
	return encoding.EncodeToString(h[:])
}

// IsEmpty reports whether h is the zero hash.
func (h Hash) IsEmpty() bool {
	return h == emptyHash
}

// Less reports whether h sorts before other, byte-wise.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// Compare returns -1, 0, or 1 as h is less than, equal to, or greater than
// other.
func (h Hash) Compare(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Slice is a sortable sequence of Hash values.
type Slice []Hash

func (s Slice) Len() int           { return len(s) }
func (s Slice) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Equals reports whether s and other contain the same hashes in the same
// order.
func (s Slice) Equals(other Slice) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

var _ sort.Interface = Slice(nil)
