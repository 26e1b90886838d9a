package account

import (
	"encoding/hex"
	"fmt"
)

// ResourcePath is the access path of the account resource inside a blob
// (resource tag 0x01 followed by the hash of the account struct tag).
var ResourcePath = mustDecodeHex("01217da6c6b3e19f1825cfb2676daecce3bf3de03cf26647c78df00b371b25cc97")

// ResourceDecoder extracts the account resource from a blob.
type ResourceDecoder interface {
	// DecodeAccountResource returns the default resource when blob is nil
	// or holds no account resource.
	DecodeAccountResource(blob *StateBlob) (Resource, error)
}

// Decoder looks up the account resource under a fixed access path.
type Decoder struct {
	path []byte
}

var _ ResourceDecoder = (*Decoder)(nil)

// NewDecoder returns a decoder for the standard account resource path.
func NewDecoder() *Decoder {
	return &Decoder{path: ResourcePath}
}

// NewDecoderWithPath returns a decoder reading the resource under path.
func NewDecoderWithPath(path []byte) *Decoder {
	return &Decoder{path: append([]byte(nil), path...)}
}

func (d *Decoder) DecodeAccountResource(blob *StateBlob) (Resource, error) {
	if blob == nil || blob.Len() == 0 {
		return DefaultResource(), nil
	}
	value, ok, err := blob.Get(d.path)
	if err != nil {
		return Resource{}, fmt.Errorf("account state blob: %w", err)
	}
	if !ok {
		return DefaultResource(), nil
	}
	return DecodeResource(value)
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
