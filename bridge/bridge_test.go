package bridge

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"unsafe"

	"github.com/govm-net/ffibridge/account"
	"github.com/govm-net/ffibridge/api"
	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/program"
	"github.com/govm-net/ffibridge/scripts"
	"github.com/govm-net/ffibridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) EncodeTransfer(receiver core.Address, coins uint64) (*program.Program, error) {
	args := m.Called(receiver, coins)
	prog, _ := args.Get(0).(*program.Program)
	return prog, args.Error(1)
}

type mockDecoder struct {
	mock.Mock
}

func (m *mockDecoder) DecodeAccountResource(blob *account.StateBlob) (account.Resource, error) {
	args := m.Called(blob)
	return args.Get(0).(account.Resource), args.Error(1)
}

type panicBuffer struct{}

func (panicBuffer) Capacity() uint64     { return 1 << 20 }
func (panicBuffer) SetSize(uint64) error { panic("size cell unmapped") }
func (panicBuffer) Write([]byte) error   { return nil }

func quietBridge(opts ...Option) *Bridge {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(api.DefaultConfig(), opts...)
}

// rawOut returns a descriptor over n bytes pre-filled with 0xee.
func rawOut(t *testing.T, n int) (ffi.OutBuffer, []byte, *uintptr) {
	t.Helper()
	buf := bytes.Repeat([]byte{0xee}, n+1)
	size := new(uintptr)
	*size = uintptr(n)
	out, err := ffi.NewRawBuffer(unsafe.Pointer(&buf[0]), size)
	require.NoError(t, err)
	return out, buf, size
}

func TestEncodeTransferProgram(t *testing.T) {
	b := quietBridge()
	var zero [32]byte

	data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.EncodeTransferProgram(zero[:], 100, out)
	})
	require.Equal(t, types.StatusOK, status)

	prog, err := program.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, scripts.PeerToPeerCode(), prog.Code)
	require.Len(t, prog.Arguments, 2)
	assert.Equal(t, program.ArgAddress, prog.Arguments[0].Type)
	assert.Equal(t, zero[:], prog.Arguments[0].Data)
	assert.Equal(t, program.ArgU64, prog.Arguments[1].Type)
	assert.Equal(t, []byte{0x64, 0, 0, 0, 0, 0, 0, 0}, prog.Arguments[1].Data)
	assert.Empty(t, prog.Modules)

	again, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.EncodeTransferProgram(zero[:], 100, out)
	})
	require.Equal(t, types.StatusOK, status)
	assert.Equal(t, data, again)
}

func TestEncodeTransferProgramMaxAmount(t *testing.T) {
	b := quietBridge()
	addr := bytes.Repeat([]byte{0xab}, 32)
	data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.EncodeTransferProgram(addr, ^uint64(0), out)
	})
	require.Equal(t, types.StatusOK, status)
	prog, err := program.Unmarshal(data)
	require.NoError(t, err)
	coins, err := prog.Arguments[1].AsU64()
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), coins)
}

func TestEncodeTransferProgramInvalidAddress(t *testing.T) {
	b := quietBridge()
	for _, n := range []int{0, 1, 31, 33, 64} {
		out, buf, size := rawOut(t, 1024)
		status := b.EncodeTransferProgram(make([]byte, n), 1, out)
		assert.Equal(t, types.StatusInvalidAddress, status, "length %d", n)
		assert.Equal(t, uintptr(0), *size)
		assert.Equal(t, bytes.Repeat([]byte{0xee}, len(buf)), buf)
	}
}

func TestEncodeTransferProgramUndersized(t *testing.T) {
	b := quietBridge()
	addr := make([]byte, 32)
	full, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.EncodeTransferProgram(addr, 7, out)
	})
	require.Equal(t, types.StatusOK, status)

	out, buf, size := rawOut(t, 4)
	status = b.EncodeTransferProgram(addr, 7, out)
	assert.Equal(t, types.StatusBufferTooSmall, status)
	assert.Equal(t, uintptr(len(full)), *size)
	assert.Equal(t, bytes.Repeat([]byte{0xee}, len(buf)), buf)
}

func TestEncodeTransferProgramEncoderFailure(t *testing.T) {
	enc := &mockEncoder{}
	enc.On("EncodeTransfer", core.ZeroAddress, uint64(5)).Return(nil, errors.New("vm unavailable")).Once()
	b := quietBridge(WithProgramEncoder(enc))

	out, _, size := rawOut(t, 64)
	status := b.EncodeTransferProgram(make([]byte, 32), 5, out)
	assert.Equal(t, types.StatusExternalServiceFailure, status)
	assert.Equal(t, uintptr(0), *size)
	enc.AssertExpectations(t)
}

func TestEncodeTransferProgramSerializationFailure(t *testing.T) {
	enc := &mockEncoder{}
	bad := program.New(nil, []program.Argument{{Type: program.ArgType(99)}}, nil)
	enc.On("EncodeTransfer", mock.Anything, mock.Anything).Return(bad, nil)
	b := quietBridge(WithProgramEncoder(enc))

	out, _, _ := rawOut(t, 64)
	assert.Equal(t, types.StatusSerializationFailure, b.EncodeTransferProgram(make([]byte, 32), 1, out))
}

func TestEncodeTransferProgramNilProgram(t *testing.T) {
	enc := &mockEncoder{}
	enc.On("EncodeTransfer", mock.Anything, mock.Anything).Return(nil, nil)
	b := quietBridge(WithProgramEncoder(enc))

	out, _, _ := rawOut(t, 64)
	assert.Equal(t, types.StatusExternalServiceFailure, b.EncodeTransferProgram(make([]byte, 32), 1, out))
}

func TestGetAllowedScripts(t *testing.T) {
	b := quietBridge()
	data, status := ffi.Collect(b.GetAllowedScripts)
	require.Equal(t, types.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 4)
	for _, tmpl := range scripts.All() {
		assert.Equal(t, tmpl.Hex(), got[string(tmpl.Name)], tmpl.Name)
	}

	keys := []string{
		`"peer_to_peer_transaction"`,
		`"create_account_transaction"`,
		`"mint_transaction"`,
		`"rotate_authentication_key_transaction"`,
	}
	last := -1
	for _, k := range keys {
		idx := bytes.Index(data, []byte(k))
		require.Greater(t, idx, last, "key %s out of order", k)
		last = idx
	}
}

// Blob captured from a testnet account that predates event keys.
const legacyBlobHex = "010000002100000001217da6c6b3e19f1825cfb2676daecce3bf3de03cf26647c78df00b371b25cc97" +
	"4500000020000000e94f428835ac0ef564a6889954158be87be1cd2198e79f96bbb25d9b30b70943" +
	"c05d634e1809000000010000000000000000000000000000000000000000000000"

func TestDecodeAccountStateBlob(t *testing.T) {
	blob, err := hex.DecodeString(legacyBlobHex)
	require.NoError(t, err)
	b := quietBridge()

	data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.DecodeAccountStateBlob(blob, out)
	})
	require.Equal(t, types.StatusOK, status)
	assert.JSONEq(t, `{
		"balance": 9999999000000,
		"sequence_number": 0,
		"authentication_key": "e94f428835ac0ef564a6889954158be87be1cd2198e79f96bbb25d9b30b70943",
		"sent_events": {"key": "", "count": 0},
		"received_events": {"key": "", "count": 1},
		"delegated_withdrawal_capability": false
	}`, string(data))
}

func TestDecodeAccountStateBlobEmpty(t *testing.T) {
	b := quietBridge()
	for _, blob := range [][]byte{nil, {}} {
		data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
			return b.DecodeAccountStateBlob(blob, out)
		})
		require.Equal(t, types.StatusOK, status)
		assert.Equal(t, `{"balance":0,"sequence_number":0,"authentication_key":"","sent_events":{"key":"","count":0},"received_events":{"key":"","count":0},"delegated_withdrawal_capability":false}`, string(data))
	}
}

func TestDecodeAccountStateBlobMalformed(t *testing.T) {
	b := quietBridge()
	out, _, size := rawOut(t, 512)
	status := b.DecodeAccountStateBlob([]byte{0xff, 0xff, 0xff, 0xff, 1}, out)
	assert.Equal(t, types.StatusExternalServiceFailure, status)
	assert.Equal(t, uintptr(0), *size)
}

func TestDecodeAccountStateBlobTooLarge(t *testing.T) {
	dec := &mockDecoder{}
	b := New(api.Config{MaxBlobSize: 8}, WithResourceDecoder(dec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	out, _, size := rawOut(t, 512)
	status := b.DecodeAccountStateBlob(make([]byte, 9), out)
	assert.Equal(t, types.StatusInvalidArgument, status)
	assert.Equal(t, uintptr(0), *size)
	dec.AssertNotCalled(t, "DecodeAccountResource", mock.Anything)
}

func TestDecodeAccountStateBlobDecoder(t *testing.T) {
	dec := &mockDecoder{}
	dec.On("DecodeAccountResource", (*account.StateBlob)(nil)).
		Return(account.Resource{Balance: 12, SequenceNumber: 3}, nil).Once()
	dec.On("DecodeAccountResource", mock.AnythingOfType("*account.StateBlob")).
		Return(account.Resource{}, errors.New("storage offline")).Once()
	b := quietBridge(WithResourceDecoder(dec))

	data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.DecodeAccountStateBlob(nil, out)
	})
	require.Equal(t, types.StatusOK, status)
	var view account.View
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, uint64(12), view.Balance)
	assert.Equal(t, uint64(3), view.SequenceNumber)

	out, _, _ := rawOut(t, 512)
	assert.Equal(t, types.StatusExternalServiceFailure, b.DecodeAccountStateBlob([]byte{0, 0, 0, 0}, out))
	dec.AssertExpectations(t)
}

func TestStatusText(t *testing.T) {
	b := quietBridge()
	for code := types.StatusOK; code <= types.StatusInternal; code++ {
		data, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
			return b.StatusText(code, out)
		})
		require.Equal(t, types.StatusOK, status)
		assert.Equal(t, code.String(), string(data))
	}
	out, _, _ := rawOut(t, 64)
	assert.Equal(t, types.StatusInvalidArgument, b.StatusText(types.Status(42), out))
}

func TestNilOutBuffer(t *testing.T) {
	b := quietBridge()
	assert.Equal(t, types.StatusInvalidArgument, b.GetAllowedScripts(nil))
	assert.Equal(t, types.StatusInvalidArgument, b.EncodeTransferProgram(make([]byte, 32), 1, nil))
	assert.Equal(t, types.StatusInvalidArgument, b.DecodeAccountStateBlob(nil, nil))
}

func TestPanicContained(t *testing.T) {
	b := quietBridge()
	assert.Equal(t, types.StatusInternal, b.GetAllowedScripts(panicBuffer{}))

	enc := &mockEncoder{}
	enc.On("EncodeTransfer", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("encoder bug")
	})
	b = quietBridge(WithProgramEncoder(enc))
	out, _, size := rawOut(t, 64)
	assert.Equal(t, types.StatusInternal, b.EncodeTransferProgram(make([]byte, 32), 1, out))
	assert.Equal(t, uintptr(0), *size)
}

func TestConcurrentCalls(t *testing.T) {
	b := quietBridge()
	addr := make([]byte, 32)
	want, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
		return b.EncodeTransferProgram(addr, 100, out)
	})
	require.Equal(t, types.StatusOK, status)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, status := ffi.Collect(func(out ffi.OutBuffer) types.Status {
				return b.EncodeTransferProgram(addr, 100, out)
			})
			if status != types.StatusOK || !bytes.Equal(want, got) {
				errs <- status.String()
			}
			if _, status := ffi.Collect(b.GetAllowedScripts); status != types.StatusOK {
				errs <- status.String()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.NotZero(t, Default().Config().MaxBlobSize)
}

func TestNewZeroConfig(t *testing.T) {
	b := New(api.Config{})
	assert.Equal(t, api.DefaultConfig().MaxBlobSize, b.Config().MaxBlobSize)
}
