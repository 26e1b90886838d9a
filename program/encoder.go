package program

import (
	"github.com/govm-net/ffibridge/core"
	"github.com/govm-net/ffibridge/scripts"
)

// Encoder builds transaction programs.
type Encoder interface {
	// EncodeTransfer builds a program that moves coins from the sender to receiver.
	EncodeTransfer(receiver core.Address, coins uint64) (*Program, error)
}

// GenesisEncoder builds programs from the script templates in the registry.
type GenesisEncoder struct{}

var _ Encoder = GenesisEncoder{}

func (GenesisEncoder) EncodeTransfer(receiver core.Address, coins uint64) (*Program, error) {
	return EncodeTransfer(receiver, coins), nil
}

// EncodeTransfer returns the peer-to-peer script with arguments
// [ADDRESS(receiver), U64(coins)]. Amount bounds are enforced by the VM
// at execution, not here.
func EncodeTransfer(receiver core.Address, coins uint64) *Program {
	return &Program{
		Code:      scripts.PeerToPeerCode(),
		Arguments: []Argument{Address(receiver), U64(coins)},
	}
}
