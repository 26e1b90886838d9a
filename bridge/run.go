package bridge

import (
	"fmt"

	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
)

// run produces a result with produce and hands it to out. It is the only
// place an operation's outcome is turned into a status.
func (b *Bridge) run(op string, out ffi.OutBuffer, produce func() ([]byte, error)) (status types.Status) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("contained panic", "op", op, "panic", fmt.Sprint(r))
			resetQuietly(out)
			status = types.StatusInternal
		}
	}()

	if out == nil {
		b.logger.Warn("call failed", "op", op, "status", types.StatusInvalidArgument, "error", "nil out buffer")
		return types.StatusInvalidArgument
	}

	data, err := produce()
	if err != nil {
		status = types.StatusOf(err)
		if resetErr := ffi.Reset(out); resetErr != nil {
			b.logger.Warn("reset size cell", "op", op, "error", resetErr)
		}
		b.logger.Warn("call failed", "op", op, "status", status, "error", err)
		return status
	}

	if err := ffi.Pass(data, out); err != nil {
		status = types.StatusOf(err)
		if tooSmall, ok := types.IsBufferTooSmall(err); ok {
			b.logger.Debug("buffer too small", "op", op, "required", tooSmall.Required, "available", tooSmall.Available)
			return status
		}
		b.logger.Warn("call failed", "op", op, "status", status, "error", err)
		return status
	}

	b.logger.Debug("call succeeded", "op", op, "size", len(data))
	return types.StatusOK
}

// resetQuietly clears the size cell after a panic. A second panic from the
// buffer itself is swallowed.
func resetQuietly(out ffi.OutBuffer) {
	if out == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = ffi.Reset(out)
}
