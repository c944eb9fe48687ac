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

// Summary is an inspection structure: length, byte_count, tree element
// counts, and reference URIs, recursively over a node's immediate
// structure. It never dereferences a Reference — it reports the URI and
// lets the caller decide whether to follow it.
type Summary struct {
	Kind      string
	Length    int
	ByteCount int
	NSlabs    int // meaningful on a TreeElement-derived Summary
	URI       string
	Children  []Summary
}

// Summarise builds the Summary for node without performing any I/O.
func Summarise(node Node) Summary {
	switch v := node.(type) {
	case Buffer:
		return Summary{Kind: "buffer:" + v.Kind.String(), Length: v.Len(), ByteCount: v.ByteCount()}

	case Slab:
		s := Summary{Kind: "slab", Length: v.Len(), ByteCount: v.ByteCount()}
		for _, b := range v.Buffers {
			s.Children = append(s.Children, Summarise(b))
		}
		return s

	case Tail:
		s := Summary{Kind: "tail", Length: v.Len(), ByteCount: v.ByteCount()}
		for _, n := range v.Nodes {
			s.Children = append(s.Children, Summarise(n))
		}
		for _, b := range v.Buffers {
			s.Children = append(s.Children, Summarise(b))
		}
		return s

	case Tree:
		s := Summary{Kind: "tree", Length: v.Len(), ByteCount: v.ByteCount()}
		for _, e := range v.Elements {
			child := Summarise(e.Value)
			child.NSlabs = e.NSlabs
			s.Children = append(s.Children, child)
		}
		return s

	case Reference:
		return Summary{
			Kind:      "ref:" + v.RefNodeKind.String(),
			Length:    v.Len(),
			ByteCount: v.ByteCount(),
			URI:       string(v.URI),
		}

	case Log:
		return Summary{
			Kind:      "log",
			Length:    v.Len(),
			ByteCount: v.ByteCount(),
			Children:  []Summary{Summarise(v.Root), Summarise(v.Tail)},
		}

	default:
		return Summary{Kind: "unknown"}
	}
}

// IsReference reports whether s describes a Reference node.
func (s Summary) IsReference() bool {
	return len(s.Kind) > 4 && s.Kind[:4] == "ref:"
}
