package program

import (
	"errors"
	"fmt"

	"github.com/govm-net/ffibridge/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the protobuf messages
//
//	message TransactionArgument { ArgType type = 1; bytes data = 2; }
//	message Program { bytes code = 1; repeated TransactionArgument arguments = 2; repeated bytes modules = 3; }
const (
	fieldCode      protowire.Number = 1
	fieldArguments protowire.Number = 2
	fieldModules   protowire.Number = 3

	fieldArgType protowire.Number = 1
	fieldArgData protowire.Number = 2
)

// ErrMalformed indicates wire bytes that do not decode to a Program.
var ErrMalformed = errors.New("program: malformed wire data")

// Marshal returns the canonical wire form of p. Fields are written in
// field-number order and zero values are omitted, so equal programs always
// produce identical bytes.
func (p *Program) Marshal() ([]byte, error) {
	var b []byte
	if len(p.Code) > 0 {
		b = protowire.AppendTag(b, fieldCode, protowire.BytesType)
		b = protowire.AppendBytes(b, p.Code)
	}
	for i, a := range p.Arguments {
		if a.Type < ArgU64 || a.Type > ArgByteArray {
			return nil, fmt.Errorf("%w: argument %d has unknown type %d", types.ErrSerialization, i, int32(a.Type))
		}
		b = protowire.AppendTag(b, fieldArguments, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalArgument(a))
	}
	for _, m := range p.Modules {
		b = protowire.AppendTag(b, fieldModules, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	return b, nil
}

func marshalArgument(a Argument) []byte {
	var b []byte
	if a.Type != ArgU64 {
		b = protowire.AppendTag(b, fieldArgType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a.Type))
	}
	if len(a.Data) > 0 {
		b = protowire.AppendTag(b, fieldArgData, protowire.BytesType)
		b = protowire.AppendBytes(b, a.Data)
	}
	return b
}

// Unmarshal decodes the wire form produced by Marshal. Unknown fields are skipped.
func Unmarshal(b []byte) (*Program, error) {
	p := &Program{}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldCode && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				p.Code = append([]byte(nil), v...)
			}
			return n, nil
		case num == fieldArguments && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			a, err := unmarshalArgument(v)
			if err != nil {
				return 0, err
			}
			p.Arguments = append(p.Arguments, a)
			return n, nil
		case num == fieldModules && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				p.Modules = append(p.Modules, append([]byte{}, v...))
			}
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func unmarshalArgument(b []byte) (Argument, error) {
	var a Argument
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldArgType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 {
				a.Type = ArgType(int32(v))
			}
			return n, nil
		case num == fieldArgData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				a.Data = append([]byte(nil), v...)
			}
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	return a, err
}

// consumeFields walks the fields of one message. field consumes the value
// that follows a tag and returns its length, or a negative protowire error code.
func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
