// Package ffi implements the buffer handoff protocol used to return
// variable-length results into caller-owned memory.
//
// A caller passes a buffer and a size cell. On entry the size cell holds
// the buffer capacity; on exit it holds the size the result requires,
// whether or not the result fit. Data is copied only when it fits, so a
// caller that receives a buffer-too-small status can allocate exactly the
// reported size and repeat the call.
package ffi

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/ffibridge/types"
)

// OutBuffer is a caller-owned output region paired with its size cell.
//
// Implementations validate the region once, when they are constructed,
// and never touch memory outside it afterwards.
type OutBuffer interface {
	// Capacity returns the capacity the size cell held at construction.
	Capacity() uint64
	// SetSize overwrites the size cell.
	SetSize(n uint64) error
	// Write copies p to the start of the buffer. It fails with a
	// BufferTooSmallError if p exceeds the capacity.
	Write(p []byte) error
}

// Pass hands data to the caller through out.
func Pass(data []byte, out OutBuffer) error {
	if out == nil {
		return fmt.Errorf("%w: nil out buffer", types.ErrInvalidArgument)
	}
	capacity := out.Capacity()
	required := uint64(len(data))
	if err := out.SetSize(required); err != nil {
		return err
	}
	if required > capacity {
		return &types.BufferTooSmallError{Required: required, Available: capacity}
	}
	if required == 0 {
		return nil
	}
	return out.Write(data)
}

// MarshalJSON materializes v as JSON text for Pass. Failures wrap
// types.ErrSerialization.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return data, nil
}

// Reset records an empty result in the size cell.
func Reset(out OutBuffer) error {
	if out == nil {
		return fmt.Errorf("%w: nil out buffer", types.ErrInvalidArgument)
	}
	return out.SetSize(0)
}

// overlaps reports whether [a, a+alen) and [b, b+blen) share a byte.
func overlaps(a, alen, b, blen uint64) bool {
	if alen == 0 || blen == 0 {
		return false
	}
	return a < b+blen && b < a+alen
}
