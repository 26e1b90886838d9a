package ffi

import (
	"unsafe"

	"github.com/govm-net/ffibridge/types"
)

// DefaultCollectSize is the first buffer size Collect offers.
const DefaultCollectSize = 256

// Call is a bridge operation that writes its result into out.
type Call func(out OutBuffer) types.Status

// Collect runs call against a Go-allocated buffer the way a foreign caller
// would: offer a buffer, and if the call reports buffer-too-small,
// allocate the size left in the size cell and call again once.
func Collect(call Call) ([]byte, types.Status) {
	return CollectSize(DefaultCollectSize, call)
}

// CollectSize is Collect with an explicit first buffer size.
func CollectSize(initial int, call Call) ([]byte, types.Status) {
	data, required, status := collectOnce(initial, call)
	if !status.Retryable() {
		return data, status
	}
	data, _, status = collectOnce(int(required), call)
	return data, status
}

func collectOnce(n int, call Call) ([]byte, uintptr, types.Status) {
	if n < 1 {
		n = 1
	}
	buf := make([]byte, n)
	size := uintptr(n)
	out, err := NewRawBuffer(unsafe.Pointer(&buf[0]), &size)
	if err != nil {
		return nil, 0, types.StatusOf(err)
	}
	status := call(out)
	if status != types.StatusOK {
		return nil, size, status
	}
	if size > uintptr(len(buf)) {
		return nil, size, types.StatusInternal
	}
	return buf[:size], size, status
}
