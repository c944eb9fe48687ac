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

	"golang.org/x/sync/errgroup"

	"github.com/wotbrew/lanterman/d"
)

// StorageSpec names the four base URIs persisted nodes are written under.
// They may all point at the same physical location.
type StorageSpec struct {
	SlabBaseURI string
	TreeBaseURI string
	TailBaseURI string
	LogBaseURI  string
}

// PersistTree replaces in-memory subtrees beneath node with references,
// writing them to durable storage via ns. Sibling children are persisted
// in parallel; the whole call is a join point — no partially-persisted
// result is ever observable.
func PersistTree(ctx context.Context, ns NodeStore, spec StorageSpec, node Node) (Node, error) {
	return persistNode(ctx, ns, spec, node, false)
}

// persistNode walks node top-down. logRoot is true only for the tail that
// belongs directly to the Log being persisted — the one mutable surface
// kept inline rather than externalized.
func persistNode(ctx context.Context, ns NodeStore, spec StorageSpec, node Node, logRoot bool) (Node, error) {
	switch v := node.(type) {
	case Log:
		return persistLog(ctx, ns, spec, v)
	case Tree:
		return persistTreeNode(ctx, ns, spec, v)
	case Slab:
		return ns.Persist(ctx, spec.SlabBaseURI, v)
	case Tail:
		return persistTail(ctx, ns, spec, v, logRoot)
	case Reference:
		return v, nil
	default:
		return nil, fmt.Errorf("tree: cannot persist node of type %T", node)
	}
}

func persistLog(ctx context.Context, ns NodeStore, spec StorageSpec, lg Log) (Node, error) {
	var newRoot Node
	var newTail Node

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := persistNode(gctx, ns, spec, lg.Root, false)
		if err != nil {
			return err
		}
		newRoot = r
		return nil
	})
	g.Go(func() error {
		t, err := persistNode(gctx, ns, spec, lg.Tail, true)
		if err != nil {
			return err
		}
		newTail = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tailNode, ok := newTail.(Tail)
	d.PanicIfFalse(ok) // the log-root tail is never externalized into a Reference

	return Log{Root: newRoot, Tail: tailNode, OptimalSlabBytes: lg.OptimalSlabBytes}, nil
}

func persistTreeNode(ctx context.Context, ns NodeStore, spec StorageSpec, t Tree) (Node, error) {
	if len(t.Elements) == 0 {
		return t, nil
	}

	newElements := make([]TreeElement, len(t.Elements))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range t.Elements {
		i, e := i, e
		g.Go(func() error {
			p, err := persistNode(gctx, ns, spec, e.Value, false)
			if err != nil {
				return err
			}
			newElements[i] = elementFor(e.Offset, e.NSlabs, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	persisted := Tree{BranchingFactor: t.BranchingFactor, Elements: newElements}.recomputed()
	return ns.Persist(ctx, spec.TreeBaseURI, persisted)
}

// persistTail implements the log-root asymmetry: the log-root's tail is
// never externalized, but its inner nodes (which may already contain
// large, genuinely sealed sub-slabs) are still recursively persisted. Any
// other tail is written out and replaced by a reference.
func persistTail(ctx context.Context, ns NodeStore, spec StorageSpec, t Tail, logRoot bool) (Node, error) {
	if !logRoot {
		return ns.Persist(ctx, spec.TailBaseURI, t)
	}

	newNodes := make([]Node, len(t.Nodes))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range t.Nodes {
		i, n := i, n
		g.Go(func() error {
			p, err := persistNode(gctx, ns, spec, n, false)
			if err != nil {
				return err
			}
			newNodes[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.Nodes = newNodes
	return t.recomputed(), nil
}
