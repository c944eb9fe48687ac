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

// Package mlog is the public surface of the message log: Options,
// structured error kinds, and a Log type that wraps the persistent,
// immutable tree package into something a caller can Append to and Fetch
// from without ever touching a NodeStore, a Reference, or a node variant
// directly.
package mlog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wotbrew/lanterman/tree"
)

// Log is a durable, append-only, content-addressed message log. The zero
// value is not usable; construct one with Empty. A *Log is safe for
// concurrent use: Append, Fetch, PersistTree, and Summarise all take an
// internal lock around the otherwise-immutable tree.Log value they wrap.
type Log struct {
	mu    sync.Mutex
	opts  Options
	ns    *store
	inner tree.Log
}

// Empty validates opts, filling in defaults for anything left unset, and
// returns a new, empty Log ready to Append to.
func Empty(opts Options) (*Log, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ns := newStore(opts.Store, opts.ValueCodec, opts.Logger)
	return &Log{
		opts:  opts,
		ns:    ns,
		inner: tree.NewLog(opts.BranchingFactor, opts.MaxInlineBytes, opts.OptimalSlabBytes),
	}, nil
}

// Append adds each of xs to the log's tail, in order, sealing the tail
// into the tree as many times as the optimal slab byte budget demands.
// Values may be raw bytes, strings, anything the configured ValueCodec
// can encode, or another *Log (embedded whole, as a single node).
func (l *Log) Append(ctx context.Context, xs ...any) (err error) {
	defer recoverInvariantViolation(&err)

	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.inner
	for _, x := range xs {
		if sub, ok := x.(*Log); ok {
			x = sub.snapshot()
		}
		next, appendErr := tree.Append(ctx, l.ns, cur, x)
		if appendErr != nil {
			return appendErr
		}
		cur = next
	}
	l.inner = cur
	return nil
}

// snapshot returns the current immutable tree.Log value underlying l,
// suitable for embedding into another Log via Append.
func (l *Log) snapshot() tree.Log {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner
}

// Len returns the total number of messages appended to the log so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Len()
}

// ByteCount returns the log's total serialized size, tail included.
func (l *Log) ByteCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.ByteCount()
}

// Messages decodes every message currently in the log, in append order.
func (l *Log) Messages(ctx context.Context) ([]tree.Message, error) {
	return l.Fetch(ctx, 0)
}

// Fetch returns the messages at positions [offset, Len()) of the log.
func (l *Log) Fetch(ctx context.Context, offset int) (msgs []tree.Message, err error) {
	defer recoverInvariantViolation(&err)

	cur := l.snapshot()
	return tree.Fetch(ctx, l.ns, cur, offset)
}

// PersistTree replaces every in-memory subtree of the log's root with a
// reference to durable storage, writing through the Store configured on
// Empty. The log's live tail is never externalized, so subsequent Appends
// continue to operate on plain in-memory nodes; only its already-sealed
// descendants are written out. Persisted siblings are written in
// parallel and this call is a join point — callers never observe a
// partially-persisted log.
func (l *Log) PersistTree(ctx context.Context) (err error) {
	defer recoverInvariantViolation(&err)

	l.mu.Lock()
	defer l.mu.Unlock()

	spec := l.ns.treeStorageSpec(l.opts)
	persisted, persistErr := tree.PersistTree(ctx, l.ns, spec, l.inner)
	if persistErr != nil {
		return persistErr
	}

	lg, ok := persisted.(tree.Log)
	if !ok {
		return &ConfigurationError{Field: "Storage", Msg: "persisting a log must yield a log"}
	}
	l.inner = lg
	return nil
}

// Summarise returns an inspection structure describing the log's current
// shape — lengths, byte counts, tree element counts, and the URIs of any
// already-persisted subtrees — without performing any I/O.
func (l *Log) Summarise() tree.Summary {
	return tree.Summarise(l.snapshot())
}

// Logger returns the logrus.Logger this Log reports diagnostics to.
func (l *Log) Logger() *logrus.Logger {
	return l.opts.Logger
}
