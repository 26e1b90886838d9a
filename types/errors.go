package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the bridge error taxonomy. Callers should wrap them
// with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	// ErrInvalidArgument indicates a null pointer or an unusable memory region.
	ErrInvalidArgument = errors.New("ffibridge: invalid argument")

	// ErrInvalidAddress indicates an address input of the wrong length.
	ErrInvalidAddress = errors.New("ffibridge: invalid address")

	// ErrSerialization indicates that a result could not be encoded.
	ErrSerialization = errors.New("ffibridge: serialization failure")

	// ErrExternalService indicates a failure reported by the program
	// encoder or the resource decoder.
	ErrExternalService = errors.New("ffibridge: external service failure")
)

// BufferTooSmallError reports that an output buffer cannot hold the result.
type BufferTooSmallError struct {
	Required  uint64
	Available uint64
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("ffibridge: not enough space in output buffer (required: %d, available: %d)", e.Required, e.Available)
}

// IsBufferTooSmall checks whether err is a BufferTooSmallError and returns it.
func IsBufferTooSmall(err error) (*BufferTooSmallError, bool) {
	var e *BufferTooSmallError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
