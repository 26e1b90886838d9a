// Package types contains shared type definitions and constants
// used on both sides of the foreign-call boundary.
package types

import (
	"errors"
	"fmt"
)

// Status is the result code returned by every bridge entry point.
//
// The numeric values are part of the ABI. Foreign callers compare against
// them directly, so existing values must never be renumbered.
type Status int32

const (
	// StatusOK reports that the output buffer holds the complete result
	StatusOK Status = iota // 0
	// StatusInvalidArgument reports a null pointer, an out-of-range guest
	// region or an input larger than the configured limit
	StatusInvalidArgument // 1
	// StatusInvalidAddress reports an address input whose length is not AddressLength
	StatusInvalidAddress // 2
	// StatusBufferTooSmall reports that the size cell now holds the
	// required size and the call can be retried with a larger buffer
	StatusBufferTooSmall // 3
	// StatusSerializationFailure reports that the result could not be encoded
	StatusSerializationFailure // 4
	// StatusExternalServiceFailure reports that the program encoder or
	// the resource decoder returned an error
	StatusExternalServiceFailure // 5
	// StatusInternal reports a panic contained at the boundary
	StatusInternal // 6
)

var statusText = map[Status]string{
	StatusOK:                     "ok",
	StatusInvalidArgument:        "invalid argument",
	StatusInvalidAddress:         "invalid address",
	StatusBufferTooSmall:         "buffer too small",
	StatusSerializationFailure:   "serialization failure",
	StatusExternalServiceFailure: "external service failure",
	StatusInternal:               "internal error",
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("unknown status %d", int32(s))
}

// Valid reports whether s is one of the defined status codes.
func (s Status) Valid() bool {
	_, ok := statusText[s]
	return ok
}

// Retryable reports whether the same call can succeed with a larger buffer.
func (s Status) Retryable() bool {
	return s == StatusBufferTooSmall
}

// StatusOf maps an error from the taxonomy to its status code.
// A nil error maps to StatusOK; unknown errors map to StatusInternal.
func StatusOf(err error) Status {
	var tooSmall *BufferTooSmallError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &tooSmall):
		return StatusBufferTooSmall
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrInvalidAddress):
		return StatusInvalidAddress
	case errors.Is(err, ErrSerialization):
		return StatusSerializationFailure
	case errors.Is(err, ErrExternalService):
		return StatusExternalServiceFailure
	default:
		return StatusInternal
	}
}
