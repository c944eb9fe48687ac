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

package mlog

import (
	"github.com/sirupsen/logrus"

	"github.com/wotbrew/lanterman/blob"
	"github.com/wotbrew/lanterman/codec"
)

const (
	defaultBranchingFactor  = 2048
	minBranchingFactor      = 2
	defaultMaxInlineBytes   = 4096
	minMaxInlineBytes       = 512
	defaultOptimalSlabBytes = 524288
	minOptimalSlabBytes     = 1024

	slabCacheCapacity = 64
	tailCacheCapacity = 64
	treeCacheCapacity = 128
)

// Options configures a Log's structural budgets and its collaborators.
// The zero value is not directly usable — call Empty, which fills in every
// unset field with its default and validates the rest.
type Options struct {
	// BranchingFactor bounds how many elements a single tree level may
	// hold before it reparents under a new root. Defaults to 2048, and
	// must be at least 2.
	BranchingFactor int

	// MaxInlineBytes bounds how large the tail's inline buffer run may
	// grow before an entry is promoted into a sub-node. Defaults to
	// 4096, and must be at least 512.
	MaxInlineBytes int

	// OptimalSlabBytes is the byte threshold at which Append seals the
	// current tail into a slab and pushes it into the tree. Defaults to
	// 524288, and must be at least 1024.
	OptimalSlabBytes int

	// Store persists and resolves slabs, tails, and trees once they
	// leave the live tail. Required.
	Store blob.Store

	// ValueCodec encodes and decodes application values carried in
	// encoded_value buffers. Defaults to codec.JSONValueCodec{}.
	ValueCodec codec.ValueCodec

	// Storage names the base URIs new slabs, tails, trees, and logs are
	// written under. Defaults to "memory://slabs", "memory://trees",
	// "memory://tails", and "memory://logs" respectively.
	Storage StorageSpec

	// Logger receives structured diagnostics for persist operations and
	// for failures resolving a reference; append, seal, and fetch are not
	// logged. Defaults to logrus.StandardLogger().
	Logger *logrus.Logger
}

// StorageSpec names the base URIs persisted nodes are written under. It
// mirrors tree.StorageSpec so Options doesn't require callers to import
// the tree package directly.
type StorageSpec struct {
	SlabBaseURI string
	TreeBaseURI string
	TailBaseURI string
	LogBaseURI  string
}

func (o Options) withDefaults() Options {
	if o.BranchingFactor == 0 {
		o.BranchingFactor = defaultBranchingFactor
	}
	if o.MaxInlineBytes == 0 {
		o.MaxInlineBytes = defaultMaxInlineBytes
	}
	if o.OptimalSlabBytes == 0 {
		o.OptimalSlabBytes = defaultOptimalSlabBytes
	}
	if o.ValueCodec == nil {
		o.ValueCodec = codec.JSONValueCodec{}
	}
	if o.Storage.SlabBaseURI == "" {
		o.Storage.SlabBaseURI = "memory://slabs"
	}
	if o.Storage.TreeBaseURI == "" {
		o.Storage.TreeBaseURI = "memory://trees"
	}
	if o.Storage.TailBaseURI == "" {
		o.Storage.TailBaseURI = "memory://tails"
	}
	if o.Storage.LogBaseURI == "" {
		o.Storage.LogBaseURI = "memory://logs"
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

func (o Options) validate() error {
	if o.BranchingFactor < minBranchingFactor {
		return &ConfigurationError{Field: "BranchingFactor", Msg: "must be at least 2"}
	}
	if o.MaxInlineBytes < minMaxInlineBytes {
		return &ConfigurationError{Field: "MaxInlineBytes", Msg: "must be at least 512"}
	}
	if o.OptimalSlabBytes < minOptimalSlabBytes {
		return &ConfigurationError{Field: "OptimalSlabBytes", Msg: "must be at least 1024"}
	}
	if o.Store == nil {
		return &ConfigurationError{Field: "Store", Msg: "must not be nil"}
	}
	return nil
}
