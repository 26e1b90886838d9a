// Command libffibridge builds the bridge as a C shared library:
//
//	go build -buildmode=c-shared -o libffibridge.so ./cmd/libffibridge
//
// Every function takes caller-owned input buffers and an output buffer
// paired with a size_t size cell, and returns a status code. See package
// ffi for the buffer handoff protocol.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"
)

// The size cell is accessed as a uintptr.
var _ = [1]struct{}{}[unsafe.Sizeof(C.size_t(0))-unsafe.Sizeof(uintptr(0))]

//export encode_transfer_program
func encode_transfer_program(addr *C.uint8_t, addrLen C.size_t, coins C.uint64_t, outData *C.uint8_t, outSize *C.size_t) C.int32_t {
	return C.int32_t(encodeTransferProgram(unsafe.Pointer(addr), uintptr(addrLen), uint64(coins), unsafe.Pointer(outData), sizeCell(outSize)))
}

//export get_allowed_scripts
func get_allowed_scripts(outData *C.uint8_t, outSize *C.size_t) C.int32_t {
	return C.int32_t(getAllowedScripts(unsafe.Pointer(outData), sizeCell(outSize)))
}

//export decode_account_state_blob
func decode_account_state_blob(blob *C.uint8_t, blobLen C.size_t, outData *C.uint8_t, outSize *C.size_t) C.int32_t {
	return C.int32_t(decodeAccountStateBlob(unsafe.Pointer(blob), uintptr(blobLen), unsafe.Pointer(outData), sizeCell(outSize)))
}

//export status_text
func status_text(code C.int32_t, outData *C.uint8_t, outSize *C.size_t) C.int32_t {
	return C.int32_t(statusText(int32(code), unsafe.Pointer(outData), sizeCell(outSize)))
}

func sizeCell(p *C.size_t) *uintptr {
	return (*uintptr)(unsafe.Pointer(p))
}

func main() {}
