package main

import (
	"unsafe"

	"github.com/govm-net/ffibridge/bridge"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
)

// withOut validates the caller's out descriptor and runs fn against it.
// An invalid descriptor is reported without touching caller memory.
func withOut(outData unsafe.Pointer, outSize *uintptr, fn func(ffi.OutBuffer) types.Status) types.Status {
	out, err := ffi.NewRawBuffer(outData, outSize)
	if err != nil {
		return types.StatusOf(err)
	}
	return fn(out)
}

func encodeTransferProgram(addr unsafe.Pointer, addrLen uintptr, coins uint64, outData unsafe.Pointer, outSize *uintptr) types.Status {
	return withOut(outData, outSize, func(out ffi.OutBuffer) types.Status {
		if addr == nil {
			_ = ffi.Reset(out)
			return types.StatusInvalidArgument
		}
		input, err := ffi.InputBytes(addr, addrLen)
		if err != nil {
			_ = ffi.Reset(out)
			return types.StatusOf(err)
		}
		return bridge.Default().EncodeTransferProgram(input, coins, out)
	})
}

func getAllowedScripts(outData unsafe.Pointer, outSize *uintptr) types.Status {
	return withOut(outData, outSize, bridge.Default().GetAllowedScripts)
}

func decodeAccountStateBlob(blob unsafe.Pointer, blobLen uintptr, outData unsafe.Pointer, outSize *uintptr) types.Status {
	return withOut(outData, outSize, func(out ffi.OutBuffer) types.Status {
		input, err := ffi.InputBytes(blob, blobLen)
		if err != nil {
			_ = ffi.Reset(out)
			return types.StatusOf(err)
		}
		return bridge.Default().DecodeAccountStateBlob(input, out)
	})
}

func statusText(code int32, outData unsafe.Pointer, outSize *uintptr) types.Status {
	return withOut(outData, outSize, func(out ffi.OutBuffer) types.Status {
		return bridge.Default().StatusText(types.Status(code), out)
	})
}
