package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/store"
	"github.com/spf13/cobra"
)

var (
	storeDB      string
	storeAddress string
	storeBlob    string
	storeVersion uint64
)

var storeCmd = &cobra.Command{
	Use:   "store-blob",
	Short: "Save an account-state blob to a blob store",
	Long: `Save an account-state blob to a blob store, replacing the account's earlier state.
Example: bridge-cli store-blob --db ./ffibridge.db --address <hex> --blob <hex>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := core.AddressFromHex(storeAddress)
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		blob, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(storeBlob), "0x"))
		if err != nil {
			return fmt.Errorf("invalid blob: %w", err)
		}

		s, err := store.Open(storeDB)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Put(cmd.Context(), addr, blob, storeVersion); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d bytes for account %s\n", len(blob), addr)
		return nil
	},
}

func init() {
	storeCmd.Flags().StringVarP(&storeDB, "db", "d", "", "Blob store database (default ./ffibridge.db)")
	storeCmd.Flags().StringVar(&storeAddress, "address", "", "Account address in hex (required)")
	storeCmd.Flags().StringVarP(&storeBlob, "blob", "b", "", "Account-state blob in hex (required)")
	storeCmd.Flags().Uint64Var(&storeVersion, "version", 0, "Ledger version the blob was read at")
	storeCmd.MarkFlagRequired("address")
	storeCmd.MarkFlagRequired("blob")
}
