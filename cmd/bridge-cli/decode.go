package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/govm-net/ffibridge/account"
	"github.com/govm-net/ffibridge/bridge"
	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/ffi"
	"github.com/govm-net/ffibridge/store"
	"github.com/govm-net/ffibridge/types"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	dbPath       string
	accountAddr  string
	human        bool
	resourcePath string
)

var decodeCmd = &cobra.Command{
	Use:   "decode-blob [hex blob]",
	Short: "Decode an account-state blob",
	Long: `Decode an account-state blob and print the account resource as JSON.
The blob is given in hex, or loaded from a blob store by address.
Example: bridge-cli decode-blob 0100000021000000...
Example: bridge-cli decode-blob --db ./ffibridge.db --address <hex>`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := loadBlob(cmd, args)
		if err != nil {
			return err
		}
		var opts []bridge.Option
		if resourcePath != "" {
			path, err := hex.DecodeString(strings.TrimPrefix(resourcePath, "0x"))
			if err != nil {
				return fmt.Errorf("invalid resource path: %w", err)
			}
			opts = append(opts, bridge.WithResourceDecoder(account.NewDecoderWithPath(path)))
		}
		b, err := newBridge(opts...)
		if err != nil {
			return err
		}
		data, err := collect("decode_account_state_blob", func(out ffi.OutBuffer) types.Status {
			return b.DecodeAccountStateBlob(blob, out)
		})
		if err != nil {
			return err
		}
		if human {
			var view account.View
			if err := json.Unmarshal(data, &view); err != nil {
				return fmt.Errorf("failed to read account view: %w", err)
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&dbPath, "db", "d", "", "Blob store database to load the blob from")
	decodeCmd.Flags().StringVar(&accountAddr, "address", "", "Account address in hex, with --db")
	decodeCmd.Flags().BoolVarP(&human, "human", "H", false, "Print a readable summary instead of JSON")
	decodeCmd.Flags().StringVar(&resourcePath, "resource-path", "", "Access path of the account resource in hex (default the standard path)")
}

func loadBlob(cmd *cobra.Command, args []string) ([]byte, error) {
	switch {
	case len(args) == 1 && dbPath != "":
		return nil, errors.New("give either a hex blob or --db, not both")
	case len(args) == 1:
		blob, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[0]), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid blob: %w", err)
		}
		return blob, nil
	case dbPath != "":
		addr, err := core.AddressFromHex(accountAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Blob(cmd.Context(), addr)
	default:
		return nil, errors.New("a hex blob or --db is required")
	}
}

func printView(w io.Writer, v account.View) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "balance:              %d\n", v.Balance)
	p.Fprintf(w, "sequence number:      %d\n", v.SequenceNumber)
	p.Fprintf(w, "authentication key:   %s\n", v.AuthenticationKey)
	p.Fprintf(w, "sent events:          %d (key %s)\n", v.SentEvents.Count, v.SentEvents.Key)
	p.Fprintf(w, "received events:      %d (key %s)\n", v.ReceivedEvents.Count, v.ReceivedEvents.Key)
	p.Fprintf(w, "delegated withdrawal: %t\n", v.DelegatedWithdrawalCapability)
}
