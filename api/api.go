// Package api provides the interfaces between foreign callers and the bridge.
// This package defines the boundary operations and their configuration, but
// holds no implementation.
package api

import (
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
)

// Bridge represents the set of operations exposed across the foreign-call
// boundary. Every operation writes its result through out using the buffer
// handoff protocol and reports the outcome as a status code.
type Bridge interface {
	// EncodeTransferProgram serializes a program transferring coins to the
	// 32-byte address in addr.
	EncodeTransferProgram(addr []byte, coins uint64, out ffi.OutBuffer) types.Status

	// GetAllowedScripts writes the JSON table of allowed script templates
	GetAllowedScripts(out ffi.OutBuffer) types.Status

	// DecodeAccountStateBlob writes the JSON view of the account resource
	// stored in blob.
	DecodeAccountStateBlob(blob []byte, out ffi.OutBuffer) types.Status

	// StatusText writes the human-readable name of a status code
	StatusText(code types.Status, out ffi.OutBuffer) types.Status
}
