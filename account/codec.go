package account

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/the729/lcs"
)

// ErrMalformed indicates bytes that are not valid canonical serialization.
var ErrMalformed = errors.New("account: malformed canonical serialization")

// unmarshalExact decodes data into v. The canonical form of the decoded
// value must be data itself, so trailing bytes and non-canonical
// booleans are rejected.
func unmarshalExact(data []byte, v any, what string) error {
	if err := lcs.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
	}
	canonical, err := lcs.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
	}
	if !bytes.Equal(canonical, data) {
		return fmt.Errorf("%w: %s is not canonical (%d bytes, %d expected)", ErrMalformed, what, len(data), len(canonical))
	}
	return nil
}

func marshal(v any) []byte {
	out, err := lcs.Marshal(v)
	if err != nil {
		// Only fixed struct types of this package reach here.
		panic(fmt.Sprintf("account: %v", err))
	}
	return out
}

// checkFraming bounds the entry count and every length prefix of a
// serialized path/value map by the bytes that follow it, so decoding never
// allocates more than the blob holds.
func checkFraming(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: entry count needs 4 bytes, have %d", ErrMalformed, len(data))
	}
	count := uint64(binary.LittleEndian.Uint32(data))
	rest := data[4:]
	// Each entry carries at least two length prefixes.
	if count*8 > uint64(len(rest)) {
		return fmt.Errorf("%w: %d entries cannot fit in %d bytes", ErrMalformed, count, len(rest))
	}
	for i := uint64(0); i < 2*count; i++ {
		if len(rest) < 4 {
			return fmt.Errorf("%w: length prefix needs 4 bytes, have %d", ErrMalformed, len(rest))
		}
		n := uint64(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
		if n > uint64(len(rest)) {
			return fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrMalformed, n, len(rest))
		}
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest))
	}
	return nil
}
