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

// PushSlab is the central tree-building algorithm: a right-growing,
// order-preserving, height-balanced push of a freshly sealed leaf
// (ordinarily a Slab, but the leaf-upgrade case recurses with whatever
// node already occupied a leaf position) into t.
//
// Precondition: leaf.Len() > 0.
func PushSlab(ctx context.Context, ns NodeStore, t Tree, leaf Node) (Tree, error) {
	d.PanicIfFalse(leaf.Len() > 0)

	// (a) empty tree
	if len(t.Elements) == 0 {
		t.Elements = []TreeElement{elementFor(0, 1, leaf)}
		return t.recomputed(), nil
	}

	if isBalanced(t.Elements) {
		// (b) perfectly balanced: widen this level, or reparent if full.
		if len(t.Elements) < t.BranchingFactor {
			t.Elements = append(append([]TreeElement(nil), t.Elements...), elementFor(t.Len(), 1, leaf))
			return t.recomputed(), nil
		}

		child := elementFor(0, t.TreeCount(), t)
		reparented := Tree{BranchingFactor: t.BranchingFactor, Elements: []TreeElement{child}}
		return PushSlab(ctx, ns, reparented.recomputed(), leaf)
	}

	// (c) unbalanced: descend into the last (in-progress) element.
	return descendAndPush(ctx, ns, t, leaf)
}

// isBalanced reports whether every element of elements carries the same
// nslabs — the balance invariant holding exactly, not just a "last
// element may be smaller" allowance.
func isBalanced(elements []TreeElement) bool {
	if len(elements) == 0 {
		return true
	}
	want := elements[0].NSlabs
	for _, e := range elements {
		if e.NSlabs != want {
			return false
		}
	}
	return true
}

func descendAndPush(ctx context.Context, ns NodeStore, t Tree, leaf Node) (Tree, error) {
	lastIdx := len(t.Elements) - 1
	last := t.Elements[lastIdx]
	value := last.Value

	if ref, ok := value.(Reference); ok && ref.RefNodeKind == codec.TreeNode {
		materialized, err := ns.Unref(ctx, ref)
		if err != nil {
			return Tree{}, err
		}
		value = materialized
	}

	switch v := value.(type) {
	case Tree:
		updated, err := PushSlab(ctx, ns, v, leaf)
		if err != nil {
			return Tree{}, err
		}
		newLast := elementFor(last.Offset, last.NSlabs+1, updated)
		t.Elements = replaceLast(t.Elements, newLast)
		return t.recomputed(), nil

	default:
		// value is a Slab or a Reference(slab): the last element is a leaf.
		// Upgrade it by seeding a new inner tree with the existing leaf,
		// then the incoming one.
		inner := EmptyTree(t.BranchingFactor)
		inner, err := PushSlab(ctx, ns, inner, value)
		if err != nil {
			return Tree{}, err
		}
		inner, err = PushSlab(ctx, ns, inner, leaf)
		if err != nil {
			return Tree{}, err
		}
		newLast := elementFor(last.Offset, 2, inner)
		t.Elements = replaceLast(t.Elements, newLast)
		return t.recomputed(), nil
	}
}

func replaceLast(elements []TreeElement, newLast TreeElement) []TreeElement {
	out := append([]TreeElement(nil), elements[:len(elements)-1]...)
	return append(out, newLast)
}
