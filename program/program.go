// Package program models transaction programs and their canonical wire form.
package program

import (
	"encoding/binary"
	"fmt"

	"github.com/govm-net/ffibridge/core"
)

// ArgType is the type tag of a transaction argument. Values are part of
// the wire format.
type ArgType int32

const (
	ArgU64       ArgType = 0
	ArgAddress   ArgType = 1
	ArgString    ArgType = 2
	ArgByteArray ArgType = 3
)

func (t ArgType) String() string {
	switch t {
	case ArgU64:
		return "U64"
	case ArgAddress:
		return "ADDRESS"
	case ArgString:
		return "STRING"
	case ArgByteArray:
		return "BYTEARRAY"
	default:
		return fmt.Sprintf("ArgType(%d)", int32(t))
	}
}

// Argument is a typed transaction argument in its encoded form.
type Argument struct {
	Type ArgType
	Data []byte
}

// U64 encodes v as a little-endian argument.
func U64(v uint64) Argument {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, v)
	return Argument{Type: ArgU64, Data: data}
}

// Address encodes addr as an argument.
func Address(addr core.Address) Argument {
	return Argument{Type: ArgAddress, Data: addr.Bytes()}
}

// String encodes s as an argument.
func String(s string) Argument {
	return Argument{Type: ArgString, Data: []byte(s)}
}

// ByteArray encodes b as an argument.
func ByteArray(b []byte) Argument {
	return Argument{Type: ArgByteArray, Data: append([]byte(nil), b...)}
}

// AsU64 decodes a U64 argument.
func (a Argument) AsU64() (uint64, error) {
	if a.Type != ArgU64 || len(a.Data) != 8 {
		return 0, fmt.Errorf("argument is %s with %d bytes, not U64", a.Type, len(a.Data))
	}
	return binary.LittleEndian.Uint64(a.Data), nil
}

// AsAddress decodes an ADDRESS argument.
func (a Argument) AsAddress() (core.Address, error) {
	if a.Type != ArgAddress {
		return core.Address{}, fmt.Errorf("argument is %s, not ADDRESS", a.Type)
	}
	return core.AddressFromBytes(a.Data)
}

// Program is a script plus its arguments and the modules it publishes.
type Program struct {
	Code      []byte
	Arguments []Argument
	Modules   [][]byte
}

// New returns a program that owns copies of its inputs.
func New(code []byte, args []Argument, modules [][]byte) *Program {
	p := &Program{Code: append([]byte(nil), code...)}
	for _, a := range args {
		p.Arguments = append(p.Arguments, Argument{Type: a.Type, Data: append([]byte(nil), a.Data...)})
	}
	for _, m := range modules {
		p.Modules = append(p.Modules, append([]byte(nil), m...))
	}
	return p
}
