// Package host exposes the bridge to WebAssembly guests as a wazero host
// module.
//
// Guest pointers are offsets into the calling module's linear memory, with
// offset 0 meaning null. Output size cells are little-endian u32 values.
// Every function returns the types.Status of the call as an i32.
package host

import (
	"context"
	"fmt"

	bridgeapi "github.com/govm-net/ffibridge/api"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import module guests use.
const ModuleName = "ffibridge"

// Exported function names.
const (
	FuncEncodeTransferProgram  = "encode_transfer_program"
	FuncGetAllowedScripts      = "get_allowed_scripts"
	FuncDecodeAccountStateBlob = "decode_account_state_blob"
	FuncStatusText             = "status_text"
)

// NewModuleBuilder returns a builder for the host module backed by b.
func NewModuleBuilder(r wazero.Runtime, b bridgeapi.Bridge) wazero.HostModuleBuilder {
	builder := r.NewHostModuleBuilder(ModuleName)

	builder.NewFunctionBuilder().
		WithParameterNames("addrPtr", "addrLen", "coins", "outPtr", "outSizePtr").
		WithResultNames("status").
		WithFunc(func(_ context.Context, m api.Module, addrPtr, addrLen uint32, coins uint64, outPtr, outSizePtr uint32) int32 {
			return call(m, outPtr, outSizePtr, func(mem api.Memory, out ffi.OutBuffer) types.Status {
				if addrPtr == 0 {
					return fail(out, fmt.Errorf("%w: null address", types.ErrInvalidArgument))
				}
				addr, err := ffi.GuestBytes(mem, addrPtr, addrLen)
				if err != nil {
					return fail(out, err)
				}
				return b.EncodeTransferProgram(addr, coins, out)
			})
		}).
		Export(FuncEncodeTransferProgram)

	builder.NewFunctionBuilder().
		WithParameterNames("outPtr", "outSizePtr").
		WithResultNames("status").
		WithFunc(func(_ context.Context, m api.Module, outPtr, outSizePtr uint32) int32 {
			return call(m, outPtr, outSizePtr, func(_ api.Memory, out ffi.OutBuffer) types.Status {
				return b.GetAllowedScripts(out)
			})
		}).
		Export(FuncGetAllowedScripts)

	builder.NewFunctionBuilder().
		WithParameterNames("blobPtr", "blobLen", "outPtr", "outSizePtr").
		WithResultNames("status").
		WithFunc(func(_ context.Context, m api.Module, blobPtr, blobLen, outPtr, outSizePtr uint32) int32 {
			return call(m, outPtr, outSizePtr, func(mem api.Memory, out ffi.OutBuffer) types.Status {
				blob, err := ffi.GuestBytes(mem, blobPtr, blobLen)
				if err != nil {
					return fail(out, err)
				}
				return b.DecodeAccountStateBlob(blob, out)
			})
		}).
		Export(FuncDecodeAccountStateBlob)

	builder.NewFunctionBuilder().
		WithParameterNames("code", "outPtr", "outSizePtr").
		WithResultNames("status").
		WithFunc(func(_ context.Context, m api.Module, code int32, outPtr, outSizePtr uint32) int32 {
			return call(m, outPtr, outSizePtr, func(_ api.Memory, out ffi.OutBuffer) types.Status {
				return b.StatusText(types.Status(code), out)
			})
		}).
		Export(FuncStatusText)

	return builder
}

// Instantiate instantiates the host module in r.
func Instantiate(ctx context.Context, r wazero.Runtime, b bridgeapi.Bridge) (api.Module, error) {
	mod, err := NewModuleBuilder(r, b).Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %s host module: %w", ModuleName, err)
	}
	return mod, nil
}

// call validates the guest out descriptor before running fn. An invalid
// descriptor is reported without touching guest memory, and a panic while
// reading guest memory is reported as an invalid argument.
func call(m api.Module, outPtr, outSizePtr uint32, fn func(api.Memory, ffi.OutBuffer) types.Status) (status int32) {
	defer func() {
		if r := recover(); r != nil {
			status = int32(types.StatusInvalidArgument)
		}
	}()
	mem := m.Memory()
	out, err := ffi.NewGuestBuffer(mem, outPtr, outSizePtr)
	if err != nil {
		return int32(types.StatusOf(err))
	}
	return int32(fn(mem, out))
}

func fail(out ffi.OutBuffer, err error) types.Status {
	_ = ffi.Reset(out)
	return types.StatusOf(err)
}
