package ffi

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/govm-net/ffibridge/types"
)

// RawBuffer is an OutBuffer over memory owned by a foreign caller.
type RawBuffer struct {
	data     unsafe.Pointer
	size     *uintptr
	capacity uintptr
}

var _ OutBuffer = (*RawBuffer)(nil)

// NewRawBuffer wraps a caller buffer and its size cell. The capacity is
// read from the size cell exactly once, here.
func NewRawBuffer(data unsafe.Pointer, size *uintptr) (*RawBuffer, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: null out_data", types.ErrInvalidArgument)
	}
	if size == nil {
		return nil, fmt.Errorf("%w: null out_size", types.ErrInvalidArgument)
	}
	capacity := *size
	cell := uint64(uintptr(unsafe.Pointer(size)))
	if overlaps(uint64(uintptr(data)), uint64(capacity), cell, uint64(unsafe.Sizeof(capacity))) {
		return nil, fmt.Errorf("%w: out_size lies inside out_data", types.ErrInvalidArgument)
	}
	return &RawBuffer{data: data, size: size, capacity: capacity}, nil
}

func (b *RawBuffer) Capacity() uint64 {
	return uint64(b.capacity)
}

func (b *RawBuffer) SetSize(n uint64) error {
	if n > uint64(math.MaxInt) {
		return &types.BufferTooSmallError{Required: n, Available: uint64(b.capacity)}
	}
	*b.size = uintptr(n)
	return nil
}

func (b *RawBuffer) Write(p []byte) error {
	if uint64(len(p)) > uint64(b.capacity) {
		return &types.BufferTooSmallError{Required: uint64(len(p)), Available: uint64(b.capacity)}
	}
	if len(p) == 0 {
		return nil
	}
	copy(unsafe.Slice((*byte)(b.data), len(p)), p)
	return nil
}

// InputBytes views n bytes of caller memory starting at ptr.
//
// The view is only valid for the duration of the call; anything that must
// outlive it has to be copied. A null pointer is accepted only when n is 0.
func InputBytes(ptr unsafe.Pointer, n uintptr) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, fmt.Errorf("%w: null input with length %d", types.ErrInvalidArgument, n)
	}
	if uint64(n) > uint64(math.MaxInt32) {
		return nil, fmt.Errorf("%w: input length %d too large", types.ErrInvalidArgument, n)
	}
	return unsafe.Slice((*byte)(ptr), int(n)), nil
}
