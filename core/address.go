// Package core defines the account identifier shared by every bridge operation.
package core

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/govm-net/ffibridge/types"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 32

// Address identifies an account on chain.
type Address [AddressLength]byte

var ZeroAddress = Address{}

// AddressFromBytes validates data and copies it into an owned Address.
// The returned value never aliases data.
func AddressFromBytes(data []byte) (Address, error) {
	var addr Address
	if len(data) != AddressLength {
		return addr, fmt.Errorf("%w: length %d, want %d", types.ErrInvalidAddress, len(data), AddressLength)
	}
	copy(addr[:], data)
	return addr, nil
}

// AddressFromHex parses a hex address with an optional 0x prefix.
func AddressFromHex(str string) (Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", types.ErrInvalidAddress, err)
	}
	return AddressFromBytes(raw)
}

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns a copy of the address bytes.
func (addr Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, addr[:])
	return out
}
