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

// Package d provides small assertion and error-wrapping helpers used
// throughout lanterman to signal invariant violations and to carry a root
// cause through layers of construction without losing its identity.
package d

import "fmt"

// PanicIfTrue panics if b is true. Used to guard invariants that must never
// hold, e.g. a tree whose balance has diverged.
func PanicIfTrue(b bool) {
	if b {
		panic(InvariantViolation{})
	}
}

// PanicIfFalse panics if b is false. Used to guard invariants that must
// always hold.
func PanicIfFalse(b bool) {
	if !b {
		panic(InvariantViolation{})
	}
}

// PanicIfError panics if err is non-nil, wrapping it so the cause survives.
func PanicIfError(err error) {
	if err != nil {
		panic(Wrap(err))
	}
}

// PanicIfNotType panics unless v's concrete type matches one of types. It
// returns v for convenient chaining at call sites that narrow an any value.
func PanicIfNotType(v error, types ...error) error {
	if !causeInTypes(v, types...) {
		panic(fmt.Sprintf("unexpected type %T", v))
	}
	return v
}

func causeInTypes(v error, types ...error) bool {
	for _, t := range types {
		if fmt.Sprintf("%T", v) == fmt.Sprintf("%T", t) {
			return true
		}
	}
	return false
}

// InvariantViolation signals that an internal aggregate (length, byte_count,
// nslabs, or balance) has diverged from the subtree it describes. It is a
// programming error in lanterman itself, not a caller mistake, and is meant
// to be fatal outside of tests.
type InvariantViolation struct {
	Msg string
}

func (e InvariantViolation) Error() string {
	if e.Msg == "" {
		return "invariant violation"
	}
	return "invariant violation: " + e.Msg
}

// wrappedError pairs an error with a message while preserving the original
// as its Cause, so callers can still type-switch on the root error.
type wrappedError struct {
	msg   string
	cause error
}

func (w wrappedError) Error() string { return w.msg + ": " + w.cause.Error() }
func (w wrappedError) Cause() error  { return w.cause }
func (w wrappedError) Unwrap() error { return w.cause }

// Wrap attaches a generic wrapping identity to err, preserving Cause(). If
// err is nil, Wrap returns nil. If err is already a wrappedError, it is
// returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if we, ok := err.(wrappedError); ok {
		return we
	}
	return wrappedError{msg: "lanterman", cause: err}
}

// Unwrap returns the root cause of err if it implements Cause() error or the
// standard Unwrap() error, otherwise it returns err itself.
func Unwrap(err error) error {
	for {
		type causer interface{ Cause() error }
		if c, ok := err.(causer); ok {
			err = c.Cause()
			continue
		}
		type unwrapper interface{ Unwrap() error }
		if u, ok := err.(unwrapper); ok {
			if inner := u.Unwrap(); inner != nil {
				err = inner
				continue
			}
		}
		return err
	}
}

// Try runs f and recovers any panic, returning it as an error. Used in tests
// to assert that a code path raises an InvariantViolation without crashing
// the test binary.
func Try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	f()
	return nil
}
