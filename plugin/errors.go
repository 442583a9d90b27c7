// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the plugin-layer error taxonomy of spec.md §7
// ("Plugin: BadConfig(message), InitFailed, plus wrapped user-error text").
type ErrorKind int

const (
	ErrBadConfig ErrorKind = iota
	ErrInitFailed
	ErrCapabilityNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadConfig:
		return "BadConfig"
	case ErrInitFailed:
		return "InitFailed"
	case ErrCapabilityNotSupported:
		return "CapabilityNotSupported"
	default:
		return "Unknown"
	}
}

// Error is the plugin-layer error type, following the same
// one-type-per-spec-group, wrapped-error shape as event.CodecError and
// table.Error.
type Error struct {
	Kind    ErrorKind
	Message string
	inner   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("plugin: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("plugin: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.inner }

func BadConfig(msg string, cause error) *Error {
	return &Error{Kind: ErrBadConfig, Message: msg, inner: cause}
}

func InitFailed(cause error) *Error {
	return &Error{Kind: ErrInitFailed, inner: cause}
}

func CapabilityNotSupported(which string) *Error {
	return &Error{Kind: ErrCapabilityNotSupported, Message: which}
}

// FailureReason selects a non-default status code for an error crossing the
// ABI boundary (spec.md §7 "a separate FailureReason enum maps directly to
// status codes... attached as context to any error"). The zero value maps
// to StatusFailure, the ordinary case.
type FailureReason int32

const (
	FailureReasonFailure FailureReason = iota
	FailureReasonTimeout
	FailureReasonEOF
	FailureReasonNotSupported
)

// Status converts a FailureReason to the Code an ABI trampoline should
// return for it.
func (r FailureReason) Status() Code {
	switch r {
	case FailureReasonTimeout:
		return StatusTimeout
	case FailureReasonEOF:
		return StatusEOF
	case FailureReasonNotSupported:
		return StatusNotSupported
	default:
		return StatusFailure
	}
}

type reasonedError struct {
	err    error
	reason FailureReason
}

func (e *reasonedError) Error() string { return e.err.Error() }
func (e *reasonedError) Unwrap() error { return e.err }

// WithReason attaches reason to err as context, without replacing it —
// errors.Unwrap still reaches the original cause. A nil err returns nil.
func WithReason(err error, reason FailureReason) error {
	if err == nil {
		return nil
	}
	return &reasonedError{err: err, reason: reason}
}

// ReasonOf extracts the FailureReason attached by WithReason, defaulting to
// FailureReasonFailure (StatusFailure) when none was attached.
func ReasonOf(err error) FailureReason {
	var re *reasonedError
	if errors.As(err, &re) {
		return re.reason
	}
	return FailureReasonFailure
}
