package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/govm-net/ffibridge/program"
	"github.com/govm-net/ffibridge/scripts"
	"github.com/govm-net/ffibridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callerBuffer(n int) ([]byte, *uintptr) {
	buf := bytes.Repeat([]byte{0xee}, n+1)
	size := new(uintptr)
	*size = uintptr(n)
	return buf, size
}

func TestEncodeTransferProgramEntry(t *testing.T) {
	addr := make([]byte, 32)
	buf, size := callerBuffer(1024)

	status := encodeTransferProgram(unsafe.Pointer(&addr[0]), 32, 100, unsafe.Pointer(&buf[0]), size)
	require.Equal(t, types.StatusOK, status)

	prog, err := program.Unmarshal(buf[:*size])
	require.NoError(t, err)
	assert.Equal(t, scripts.PeerToPeerCode(), prog.Code)
	assert.Equal(t, addr, prog.Arguments[0].Data)
}

func TestEncodeTransferProgramEntryNullAddress(t *testing.T) {
	buf, size := callerBuffer(1024)
	status := encodeTransferProgram(nil, 32, 100, unsafe.Pointer(&buf[0]), size)
	assert.Equal(t, types.StatusInvalidArgument, status)
	assert.Equal(t, uintptr(0), *size)

	// A null address is rejected whatever its length.
	*size = 1024
	status = encodeTransferProgram(nil, 0, 100, unsafe.Pointer(&buf[0]), size)
	assert.Equal(t, types.StatusInvalidArgument, status)
	assert.Equal(t, uintptr(0), *size)

	// A non-null address of the wrong length is an invalid address.
	addr := make([]byte, 20)
	*size = 1024
	status = encodeTransferProgram(unsafe.Pointer(&addr[0]), 0, 100, unsafe.Pointer(&buf[0]), size)
	assert.Equal(t, types.StatusInvalidAddress, status)
}

func TestNullOutDescriptor(t *testing.T) {
	buf, size := callerBuffer(16)
	assert.Equal(t, types.StatusInvalidArgument, getAllowedScripts(nil, size))
	assert.Equal(t, uintptr(16), *size, "size cell must be untouched")
	assert.Equal(t, types.StatusInvalidArgument, getAllowedScripts(unsafe.Pointer(&buf[0]), nil))
}

func TestGetAllowedScriptsEntryTwoPhase(t *testing.T) {
	buf, size := callerBuffer(8)
	require.Equal(t, types.StatusBufferTooSmall, getAllowedScripts(unsafe.Pointer(&buf[0]), size))
	assert.Equal(t, bytes.Repeat([]byte{0xee}, 9), buf)

	buf, size = callerBuffer(int(*size))
	require.Equal(t, types.StatusOK, getAllowedScripts(unsafe.Pointer(&buf[0]), size))
	var got scripts.AllowedScripts
	require.NoError(t, json.Unmarshal(buf[:*size], &got))
	assert.Equal(t, scripts.Allowed(), got)
	assert.Equal(t, byte(0xee), buf[*size])
}

func TestDecodeAccountStateBlobEntryEmpty(t *testing.T) {
	buf, size := callerBuffer(512)
	require.Equal(t, types.StatusOK, decodeAccountStateBlob(nil, 0, unsafe.Pointer(&buf[0]), size))
	assert.Contains(t, string(buf[:*size]), `"authentication_key":""`)
}

func TestStatusTextEntry(t *testing.T) {
	buf, size := callerBuffer(64)
	require.Equal(t, types.StatusOK, statusText(int32(types.StatusInvalidAddress), unsafe.Pointer(&buf[0]), size))
	assert.Equal(t, "invalid address", string(buf[:*size]))
}
