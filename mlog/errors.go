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
	"fmt"

	"github.com/wotbrew/lanterman/codec"
	"github.com/wotbrew/lanterman/d"
)

// ConfigurationError signals that an Options value was invalid and could
// not be turned into a usable Log — an out-of-range budget or a missing
// Store. PersistTree also returns one if persisting the log does not
// yield a log. StorageSpec schemes are not checked here.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mlog: configuration: %s: %s", e.Field, e.Msg)
}

// StorageError wraps a failure surfaced by the underlying blob.Store —
// network, I/O, or permission — annotated with enough context (the node
// kind and URI, where known) to diagnose without re-deriving it from the
// blob package's own error type.
type StorageError struct {
	Op   string
	Kind codec.NodeKind
	URI  string
	Err  error
}

func (e *StorageError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("mlog: storage: %s %s (%s): %v", e.Op, e.URI, e.Kind, e.Err)
	}
	return fmt.Sprintf("mlog: storage: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DecodeError signals that bytes read back from storage, or a value
// passed through the configured ValueCodec, could not be parsed into a
// node or application value.
type DecodeError struct {
	Kind codec.NodeKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mlog: decode: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InvariantViolation re-exports tree/d's programming-error panic value so
// callers recovering it (e.g. in tests) don't need to import package d
// directly.
type InvariantViolation = d.InvariantViolation

// recoverInvariantViolation recovers a panic raised by the tree package's
// internal assertions and turns it back into a returned error, so a
// caller of Append, Fetch, or PersistTree never observes a panic for an
// internal aggregate mismatch. Invalid Options are reported separately,
// as a ConfigurationError returned by Empty.
func recoverInvariantViolation(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("mlog: %v", r)
	}
}
