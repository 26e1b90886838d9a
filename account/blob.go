// Package account decodes account-state blobs into account resources.
package account

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/the729/lcs"
)

// Entry is one access path and the serialized value stored under it.
type Entry struct {
	Path  []byte
	Value []byte
}

// StateBlob is the serialized state of one account: a canonical map from
// access path to value, serialized as a u32 count followed by
// length-prefixed key/value pairs in strictly ascending key order.
type StateBlob struct {
	data []byte
}

// NewStateBlob returns a blob owning a copy of data.
func NewStateBlob(data []byte) *StateBlob {
	return &StateBlob{data: append([]byte(nil), data...)}
}

// Bytes returns a copy of the serialized blob.
func (b *StateBlob) Bytes() []byte {
	return append([]byte(nil), b.data...)
}

// Len returns the size of the serialized blob.
func (b *StateBlob) Len() int {
	return len(b.data)
}

// Entries decodes the path/value map.
func (b *StateBlob) Entries() ([]Entry, error) {
	if err := checkFraming(b.data); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := lcs.Unmarshal(b.data, &entries); err != nil {
		return nil, fmt.Errorf("%w: path/value map: %v", ErrMalformed, err)
	}
	for i := 1; i < len(entries); i++ {
		if bytes.Compare(entries[i-1].Path, entries[i].Path) >= 0 {
			return nil, fmt.Errorf("%w: path %x out of order", ErrMalformed, entries[i].Path)
		}
	}
	return entries, nil
}

// Get returns the value stored under path.
func (b *StateBlob) Get(path []byte) ([]byte, bool, error) {
	entries, err := b.Entries()
	if err != nil {
		return nil, false, err
	}
	for _, e := range entries {
		if bytes.Equal(e.Path, path) {
			return e.Value, true, nil
		}
	}
	return nil, false, nil
}

// EncodeStateBlob serializes entries into a blob. Entries are sorted by
// path; duplicate paths are rejected.
func EncodeStateBlob(entries []Entry) (*StateBlob, error) {
	sorted := append([]Entry(nil), entries...)
	slices.SortFunc(sorted, func(a, b Entry) int { return bytes.Compare(a.Path, b.Path) })
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(sorted[i-1].Path, sorted[i].Path) {
			return nil, fmt.Errorf("account: duplicate path %x", sorted[i].Path)
		}
	}
	data, err := lcs.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("account: encode state blob: %w", err)
	}
	return &StateBlob{data: data}, nil
}
