// Package bridge implements the foreign-call operations on top of the
// domain packages. Each operation validates its inputs, calls the
// collaborator it needs and hands the result back through the buffer
// handoff protocol. No error or panic crosses the boundary; every outcome
// is reported as a types.Status and detail is logged locally.
package bridge

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/govm-net/ffibridge/account"
	"github.com/govm-net/ffibridge/api"
	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/program"
	"github.com/govm-net/ffibridge/scripts"
	"github.com/govm-net/ffibridge/types"
)

// Operation names used in log records.
const (
	OpEncodeTransferProgram  = "encode_transfer_program"
	OpGetAllowedScripts      = "get_allowed_scripts"
	OpDecodeAccountStateBlob = "decode_account_state_blob"
	OpStatusText             = "status_text"
)

// Bridge holds the collaborators of the boundary operations. It keeps no
// per-call state and is safe for concurrent use.
type Bridge struct {
	cfg     api.Config
	logger  *slog.Logger
	encoder program.Encoder
	decoder account.ResourceDecoder
}

var _ api.Bridge = (*Bridge)(nil)

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProgramEncoder replaces the transfer program encoder.
func WithProgramEncoder(enc program.Encoder) Option {
	return func(b *Bridge) {
		if enc != nil {
			b.encoder = enc
		}
	}
}

// WithResourceDecoder replaces the account resource decoder.
func WithResourceDecoder(dec account.ResourceDecoder) Option {
	return func(b *Bridge) {
		if dec != nil {
			b.decoder = dec
		}
	}
}

// New creates a bridge. A zero MaxBlobSize takes the default.
func New(cfg api.Config, opts ...Option) *Bridge {
	if cfg.MaxBlobSize == 0 {
		cfg.MaxBlobSize = api.DefaultConfig().MaxBlobSize
	}
	b := &Bridge{
		cfg:     cfg,
		encoder: program.GenesisEncoder{},
		decoder: account.NewDecoder(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}
	return b
}

var defaultBridge = sync.OnceValue(func() *Bridge {
	cfg, err := api.ConfigFromEnv()
	b := New(cfg)
	if err != nil {
		b.logger.Warn("ignoring invalid environment configuration", "error", err)
	}
	return b
})

// Default returns the process-wide bridge configured from the environment.
func Default() *Bridge {
	return defaultBridge()
}

// Config returns the configuration the bridge was created with.
func (b *Bridge) Config() api.Config {
	return b.cfg
}

// EncodeTransferProgram writes the serialized program transferring coins
// to the 32-byte address in addr.
func (b *Bridge) EncodeTransferProgram(addr []byte, coins uint64, out ffi.OutBuffer) types.Status {
	return b.run(OpEncodeTransferProgram, out, func() ([]byte, error) {
		receiver, err := core.AddressFromBytes(addr)
		if err != nil {
			return nil, err
		}
		prog, err := b.encoder.EncodeTransfer(receiver, coins)
		if err != nil {
			return nil, fmt.Errorf("%w: encode transfer: %w", types.ErrExternalService, err)
		}
		if prog == nil {
			return nil, fmt.Errorf("%w: encoder returned no program", types.ErrExternalService)
		}
		return prog.Marshal()
	})
}

// GetAllowedScripts writes the JSON table of allowed script templates.
func (b *Bridge) GetAllowedScripts(out ffi.OutBuffer) types.Status {
	return b.run(OpGetAllowedScripts, out, func() ([]byte, error) {
		return ffi.MarshalJSON(scripts.Allowed())
	})
}

// DecodeAccountStateBlob writes the JSON view of the account resource in
// blob. An empty blob yields the default view.
func (b *Bridge) DecodeAccountStateBlob(blob []byte, out ffi.OutBuffer) types.Status {
	return b.run(OpDecodeAccountStateBlob, out, func() ([]byte, error) {
		if uint64(len(blob)) > b.cfg.MaxBlobSize {
			return nil, fmt.Errorf("%w: blob of %d bytes exceeds limit of %d", types.ErrInvalidArgument, len(blob), b.cfg.MaxBlobSize)
		}
		var state *account.StateBlob
		if len(blob) > 0 {
			state = account.NewStateBlob(blob)
		}
		res, err := b.decoder.DecodeAccountResource(state)
		if err != nil {
			return nil, fmt.Errorf("%w: decode account resource: %w", types.ErrExternalService, err)
		}
		return ffi.MarshalJSON(account.NewView(res))
	})
}

// StatusText writes the human-readable name of code.
func (b *Bridge) StatusText(code types.Status, out ffi.OutBuffer) types.Status {
	return b.run(OpStatusText, out, func() ([]byte, error) {
		if !code.Valid() {
			return nil, fmt.Errorf("%w: unknown status code %d", types.ErrInvalidArgument, int32(code))
		}
		return []byte(code.String()), nil
	})
}
