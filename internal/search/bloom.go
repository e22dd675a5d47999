package search

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// DefaultFalsePositiveRate is used when no rate is configured.
const DefaultFalsePositiveRate = 0.01

// ErrInvalidRate indicates a false-positive probability outside (0, 1).
var ErrInvalidRate = errors.New("false-positive rate must be between 0 and 1 (exclusive)")

// Filter is a Bloom filter over page tokens. The zero value is the empty
// filter: zero bytes, zero hashes, and it contains nothing.
type Filter struct {
	bits    []byte
	numHash int
}

// Size returns the bit count and hash count for n items at false-positive
// probability p. n <= 0 yields (0, 0).
func Size(n int, p float64) (mbits, k int) {
	if n <= 0 {
		return 0, 0
	}
	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	k = int(math.Ceil(m / float64(n) * math.Ln2))
	return int(m), k
}

// NewFilter allocates a filter sized for n distinct items.
func NewFilter(n int, p float64) (*Filter, error) {
	if !(p > 0 && p < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, p)
	}
	m, k := Size(n, p)
	if m == 0 {
		return &Filter{}, nil
	}
	return &Filter{bits: make([]byte, (m+7)/8), numHash: k}, nil
}

// FromBytes rebuilds a filter from its serialized parts.
func FromBytes(b []byte, numHash int) *Filter {
	return &Filter{bits: b, numHash: numHash}
}

// Insert adds word to the filter. Inserting into an empty filter is a no-op.
func (f *Filter) Insert(word string) {
	if len(f.bits) == 0 {
		return
	}
	for _, pos := range positions(word, f.numHash, f.nbits()) {
		f.bits[pos/8] |= 1 << (pos % 8)
	}
}

// Contains reports whether word may have been inserted. False positives are
// possible; false negatives are not.
func (f *Filter) Contains(word string) bool {
	if len(f.bits) == 0 {
		return false
	}
	for _, pos := range positions(word, f.numHash, f.nbits()) {
		if f.bits[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
	}
	return true
}

// Positions are reduced modulo the stored bit count so readers can derive
// it from the byte length alone.
func (f *Filter) nbits() uint32 { return uint32(len(f.bits)) * 8 }

// Bytes returns the filter bits.
func (f *Filter) Bytes() []byte { return f.bits }

// NumHash returns the number of hash positions per item.
func (f *Filter) NumHash() int { return f.numHash }

// Empty reports whether the filter has no bits.
func (f *Filter) Empty() bool { return len(f.bits) == 0 }

// Base64 returns the standard base64 encoding of the filter bits.
func (f *Filter) Base64() string {
	return base64.StdEncoding.EncodeToString(f.bits)
}

type filterJSON struct {
	Filter  string `json:"filter"`
	NumHash int    `json:"num_hash"`
}

// MarshalJSON encodes the filter as {"filter": base64, "num_hash": k}.
func (f *Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterJSON{Filter: f.Base64(), NumHash: f.numHash})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw filterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b, err := base64.StdEncoding.DecodeString(raw.Filter)
	if err != nil {
		return fmt.Errorf("decoding filter bits: %w", err)
	}
	f.bits, f.numHash = b, raw.NumHash
	return nil
}
