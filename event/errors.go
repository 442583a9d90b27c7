// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import "fmt"

// CodecError is the error type returned by field and event decoding. It
// groups the failure taxonomy from the wire codec: every shortage of bytes,
// regardless of which field type triggered it, becomes a TruncatedField (or
// TruncatedEvent at the event-framing level).
type CodecError struct {
	Kind    CodecErrorKind
	Wanted  int
	Got     int
	Field   string // set by NamedField when wrapping an inner error with context
	inner   error
	message string
}

// CodecErrorKind distinguishes the taxonomy named in spec.md §3.2 and §7.
type CodecErrorKind int

const (
	ErrTruncatedField CodecErrorKind = iota
	ErrTruncatedEvent
	ErrMissingNul
	ErrOddPairItemCount
	ErrInvalidLength
	ErrInvalidDynDiscriminant
	ErrUnsupportedEventType
	ErrOther
)

func (k CodecErrorKind) String() string {
	switch k {
	case ErrTruncatedField:
		return "TruncatedField"
	case ErrTruncatedEvent:
		return "TruncatedEvent"
	case ErrMissingNul:
		return "MissingNul"
	case ErrOddPairItemCount:
		return "OddPairItemCount"
	case ErrInvalidLength:
		return "InvalidLength"
	case ErrInvalidDynDiscriminant:
		return "InvalidDynDiscriminant"
	case ErrUnsupportedEventType:
		return "UnsupportedEventType"
	default:
		return "Other"
	}
}

func (e *CodecError) Error() string {
	prefix := ""
	if e.Field != "" {
		prefix = e.Field + ": "
	}
	switch e.Kind {
	case ErrTruncatedField:
		return fmt.Sprintf("%s%s: wanted %d bytes, got %d", prefix, e.Kind, e.Wanted, e.Got)
	case ErrTruncatedEvent:
		return fmt.Sprintf("%s%s: wanted %d bytes, got %d", prefix, e.Kind, e.Wanted, e.Got)
	case ErrUnsupportedEventType:
		return fmt.Sprintf("%sunsupported event type %d", prefix, e.Wanted)
	case ErrOther:
		return prefix + e.message
	default:
		return prefix + e.Kind.String()
	}
}

func (e *CodecError) Unwrap() error { return e.inner }

func truncatedField(wanted, got int) *CodecError {
	return &CodecError{Kind: ErrTruncatedField, Wanted: wanted, Got: got}
}

func truncatedEvent(wanted, got int) *CodecError {
	return &CodecError{Kind: ErrTruncatedEvent, Wanted: wanted, Got: got}
}

func missingNul() *CodecError {
	return &CodecError{Kind: ErrMissingNul}
}

func oddPairItemCount(n int) *CodecError {
	return &CodecError{Kind: ErrOddPairItemCount, Wanted: n}
}

func invalidLength(message string) *CodecError {
	return &CodecError{Kind: ErrInvalidLength, message: message}
}

func invalidDynDiscriminant(tag byte) *CodecError {
	return &CodecError{Kind: ErrInvalidDynDiscriminant, Wanted: int(tag)}
}

func unsupportedEventType(t EventType) *CodecError {
	return &CodecError{Kind: ErrUnsupportedEventType, Wanted: int(t)}
}

// NamedField wraps err with the name of the schema field that produced it,
// so a caller decoding a whole event gets "arg3: TruncatedField..." instead
// of a bare positional failure. It is a no-op if err is nil.
func NamedField(name string, err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CodecError); ok {
		clone := *ce
		clone.Field = name
		clone.inner = err
		return &clone
	}
	return &CodecError{Kind: ErrOther, Field: name, inner: err, message: err.Error()}
}
