package main

import (
	"fmt"

	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/store"
	"github.com/spf13/cobra"
)

var (
	accountsDB    string
	deleteAddress string
)

var listAccountsCmd = &cobra.Command{
	Use:   "list-accounts",
	Short: "List the accounts held in a blob store",
	Long: `List the addresses of all accounts held in a blob store, one per line in ascending order.
Example: bridge-cli list-accounts --db ./ffibridge.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(accountsDB)
		if err != nil {
			return err
		}
		defer s.Close()

		addrs, err := s.Addresses(cmd.Context())
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			fmt.Fprintln(cmd.OutOrStdout(), addr)
		}
		return nil
	},
}

var deleteBlobCmd = &cobra.Command{
	Use:   "delete-blob",
	Short: "Remove an account-state blob from a blob store",
	Long: `Remove the stored account-state blob of an account. Later decodes treat the account as new.
Example: bridge-cli delete-blob --db ./ffibridge.db --address <hex>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := core.AddressFromHex(deleteAddress)
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		s, err := store.Open(accountsDB)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(cmd.Context(), addr); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted blob of account %s\n", addr)
		return nil
	},
}

func init() {
	listAccountsCmd.Flags().StringVarP(&accountsDB, "db", "d", "", "Blob store database (default ./ffibridge.db)")
	deleteBlobCmd.Flags().StringVarP(&accountsDB, "db", "d", "", "Blob store database (default ./ffibridge.db)")
	deleteBlobCmd.Flags().StringVar(&deleteAddress, "address", "", "Account address in hex (required)")
	deleteBlobCmd.MarkFlagRequired("address")
}
