package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 16 hex characters, enough for an ETag
func (h Hash) Short() string {
	if len(h) < 16 {
		return string(h)
	}
	return string(h[:16])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// ComputeSelectionHash hashes a dataset fingerprint together with a selection.
// Brewery order does not affect the result.
func ComputeSelectionHash(dataset Hash, breweries []string, metricKey string, extra ...string) Hash {
	sorted := make([]string, len(breweries))
	copy(sorted, breweries)
	sort.Strings(sorted)

	var data strings.Builder
	data.WriteString(dataset.String())
	data.WriteByte(0)
	for _, b := range sorted {
		data.WriteString(b)
		data.WriteByte(0)
	}
	data.WriteString(metricKey)
	for _, e := range extra {
		data.WriteByte(0)
		data.WriteString(e)
	}
	return NewHash([]byte(data.String()))
}

// RowHasher accumulates source rows into a dataset fingerprint
type RowHasher struct {
	b strings.Builder
}

// Add appends one row to the fingerprint
func (h *RowHasher) Add(brewery, beer string, abv float64) {
	h.b.WriteString(brewery)
	h.b.WriteByte(0)
	h.b.WriteString(beer)
	h.b.WriteByte(0)
	h.b.WriteString(strconv.FormatFloat(abv, 'g', -1, 64))
	h.b.WriteByte('\n')
}

// Sum returns the fingerprint of all rows added so far
func (h *RowHasher) Sum() Hash {
	return NewHash([]byte(h.b.String()))
}
