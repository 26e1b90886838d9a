package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/govm-net/ffibridge/api"
	"github.com/govm-net/ffibridge/bridge"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "bridge-cli",
	Short: "Foreign-call bridge command line tool",
	Long: `Foreign-call bridge command line tool for encoding transfer programs,
listing the allowed transaction scripts and decoding account-state blobs.
Every command calls the bridge through the same buffer handoff protocol a
foreign caller uses.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides "+api.EnvLogLevel)
	rootCmd.AddCommand(scriptsCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(listAccountsCmd)
	rootCmd.AddCommand(deleteBlobCmd)
}

// newBridge builds a bridge from the environment and the --log-level flag.
func newBridge(opts ...bridge.Option) (*bridge.Bridge, error) {
	cfg, err := api.ConfigFromEnv()
	if err != nil {
		slog.Warn("ignoring invalid environment configuration", "error", err)
	}
	if logLevel != "" {
		level, err := api.ParseLogLevel(logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return bridge.New(cfg, append([]bridge.Option{bridge.WithLogger(logger)}, opts...)...), nil
}

// collect runs a bridge call with a Go-owned buffer and turns a failed
// status into an error.
func collect(op string, call ffi.Call) ([]byte, error) {
	data, status := ffi.Collect(call)
	if status != types.StatusOK {
		return nil, fmt.Errorf("%s failed: %s (status %d)", op, status, int32(status))
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
