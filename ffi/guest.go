package ffi

import (
	"fmt"
	"math"
	"reflect"

	"github.com/govm-net/ffibridge/types"
	"github.com/tetratelabs/wazero/api"
)

// sizeCellLen is the width of a guest size cell (little-endian u32).
const sizeCellLen = 4

// GuestBuffer is an OutBuffer inside the linear memory of a WebAssembly guest.
// Offset 0 is treated as a null pointer.
type GuestBuffer struct {
	mem      api.Memory
	ptr      uint32
	sizePtr  uint32
	capacity uint32
}

var _ OutBuffer = (*GuestBuffer)(nil)

// NewGuestBuffer wraps the guest region starting at ptr whose capacity is
// stored in the u32 cell at sizePtr.
func NewGuestBuffer(mem api.Memory, ptr, sizePtr uint32) (*GuestBuffer, error) {
	if !hasMemory(mem) {
		return nil, fmt.Errorf("%w: guest has no memory", types.ErrInvalidArgument)
	}
	if ptr == 0 {
		return nil, fmt.Errorf("%w: null out_data", types.ErrInvalidArgument)
	}
	if sizePtr == 0 {
		return nil, fmt.Errorf("%w: null out_size", types.ErrInvalidArgument)
	}
	capacity, ok := mem.ReadUint32Le(sizePtr)
	if !ok {
		return nil, fmt.Errorf("%w: out_size %d outside guest memory", types.ErrInvalidArgument, sizePtr)
	}
	if uint64(ptr)+uint64(capacity) > uint64(mem.Size()) {
		return nil, fmt.Errorf("%w: out_data [%d, +%d) outside guest memory of %d bytes",
			types.ErrInvalidArgument, ptr, capacity, mem.Size())
	}
	if overlaps(uint64(ptr), uint64(capacity), uint64(sizePtr), sizeCellLen) {
		return nil, fmt.Errorf("%w: out_size lies inside out_data", types.ErrInvalidArgument)
	}
	return &GuestBuffer{mem: mem, ptr: ptr, sizePtr: sizePtr, capacity: capacity}, nil
}

func (b *GuestBuffer) Capacity() uint64 {
	return uint64(b.capacity)
}

func (b *GuestBuffer) SetSize(n uint64) error {
	if n > math.MaxUint32 {
		// The guest cannot represent the size, let alone allocate it.
		if !b.mem.WriteUint32Le(b.sizePtr, math.MaxUint32) {
			return fmt.Errorf("%w: out_size not writable", types.ErrInvalidArgument)
		}
		return &types.BufferTooSmallError{Required: n, Available: uint64(b.capacity)}
	}
	if !b.mem.WriteUint32Le(b.sizePtr, uint32(n)) {
		return fmt.Errorf("%w: out_size not writable", types.ErrInvalidArgument)
	}
	return nil
}

func (b *GuestBuffer) Write(p []byte) error {
	if uint64(len(p)) > uint64(b.capacity) {
		return &types.BufferTooSmallError{Required: uint64(len(p)), Available: uint64(b.capacity)}
	}
	if !b.mem.Write(b.ptr, p) {
		return fmt.Errorf("%w: out_data not writable", types.ErrInvalidArgument)
	}
	return nil
}

// GuestBytes views n bytes of guest memory starting at ptr. The view is
// only valid until the guest runs again.
func GuestBytes(mem api.Memory, ptr, n uint32) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if !hasMemory(mem) {
		return nil, fmt.Errorf("%w: guest has no memory", types.ErrInvalidArgument)
	}
	if ptr == 0 {
		return nil, fmt.Errorf("%w: null input with length %d", types.ErrInvalidArgument, n)
	}
	data, ok := mem.Read(ptr, n)
	if !ok {
		return nil, fmt.Errorf("%w: input [%d, +%d) outside guest memory", types.ErrInvalidArgument, ptr, n)
	}
	return data, nil
}

// hasMemory reports whether mem is backed by a memory instance. A guest
// without memory may hand out a nil pointer inside a non-nil interface.
func hasMemory(mem api.Memory) bool {
	if mem == nil {
		return false
	}
	v := reflect.ValueOf(mem)
	return v.Kind() != reflect.Pointer || !v.IsNil()
}
