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

// Fetch returns the messages at positions [offset, length) of node. For a
// Tree it performs a single left-to-right scan of elements to find the one
// covering offset, recurses into it with the remaining offset, and
// concatenates the full message streams of every element after it. For any
// other node it decodes the full message stream and skips offset entries.
func Fetch(ctx context.Context, ns NodeStore, node Node, offset int) ([]Message, error) {
	resolved, err := resolveTreeReference(ctx, ns, node)
	if err != nil {
		return nil, err
	}

	if t, ok := resolved.(Tree); ok {
		return fetchTree(ctx, ns, t, offset)
	}

	msgs, err := MessageIterable(ctx, ns, resolved)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(msgs) {
		return []Message{}, nil
	}
	return msgs[offset:], nil
}

// resolveTreeReference materializes node if it is specifically a
// Reference(tree), so fetchTree can use the element-scan fast path across a
// persisted subtree. References to slabs or tails are left alone;
// MessageIterable already knows how to dereference them generically.
func resolveTreeReference(ctx context.Context, ns NodeStore, node Node) (Node, error) {
	ref, ok := node.(Reference)
	if !ok || ref.RefNodeKind != codec.TreeNode {
		return node, nil
	}
	return ns.Unref(ctx, ref)
}

func fetchTree(ctx context.Context, ns NodeStore, t Tree, offset int) ([]Message, error) {
	if offset < 0 {
		offset = 0
	}

	for i, e := range t.Elements {
		if offset >= e.Offset+e.Length {
			continue
		}

		var out []Message
		sub, err := Fetch(ctx, ns, e.Value, offset-e.Offset)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)

		for _, rest := range t.Elements[i+1:] {
			full, err := Fetch(ctx, ns, rest.Value, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, full...)
		}
		return out, nil
	}

	// offset is at or past the tree's total length.
	return []Message{}, nil
}
