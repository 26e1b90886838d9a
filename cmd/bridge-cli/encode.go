package main

import (
	"encoding/hex"
	"fmt"

	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/types"
	"github.com/spf13/cobra"
)

var (
	receiver string
	amount   uint64
)

var encodeCmd = &cobra.Command{
	Use:   "encode-transfer",
	Short: "Encode a peer-to-peer transfer program",
	Long: `Encode a program transferring coins to an address and print it as hex.
Example: bridge-cli encode-transfer --to 0x<64 hex digits> --amount 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := core.AddressFromHex(receiver)
		if err != nil {
			return fmt.Errorf("invalid receiver: %w", err)
		}
		b, err := newBridge()
		if err != nil {
			return err
		}
		data, err := collect("encode_transfer_program", func(out ffi.OutBuffer) types.Status {
			return b.EncodeTransferProgram(addr.Bytes(), amount, out)
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&receiver, "to", "t", "", "Receiver address in hex (required)")
	encodeCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Number of coins to transfer")
	encodeCmd.MarkFlagRequired("to")
}
