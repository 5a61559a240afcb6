package dataset

import (
	"sort"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
)

// Table is the immutable per-brewery dataset. Entries are kept in brewery
// name order; Options keeps the first-appearance order of the source rows
// for the selection widget.
type Table struct {
	entries     []brewery.Entry
	index       map[string]int
	options     []string
	rowCount    int
	fingerprint core.Hash
}

// NewTable aggregates and categorizes rows into a Table
func NewTable(rows []brewery.Row) (*Table, error) {
	aggregated, err := Aggregate(rows)
	if err != nil {
		return nil, err
	}

	var hasher core.RowHasher
	seen := make(map[string]struct{}, len(aggregated))
	options := make([]string, 0, len(aggregated))
	for _, r := range rows {
		hasher.Add(r.Brewery, r.Beer, r.ABV)
		if _, ok := seen[r.Brewery]; ok {
			continue
		}
		seen[r.Brewery] = struct{}{}
		options = append(options, r.Brewery)
	}

	names := make([]string, 0, len(aggregated))
	for name := range aggregated {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]brewery.Entry, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		stat := aggregated[name]
		entries[i] = brewery.Entry{Stat: stat, Tier: Categorize(stat.AvgABV)}
		index[name] = i
	}

	return &Table{
		entries:     entries,
		index:       index,
		options:     options,
		rowCount:    len(rows),
		fingerprint: hasher.Sum(),
	}, nil
}

// Entries returns a copy of all entries in brewery name order
func (t *Table) Entries() []brewery.Entry {
	out := make([]brewery.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the entry for a brewery
func (t *Table) Lookup(name string) (brewery.Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return brewery.Entry{}, false
	}
	return t.entries[i], true
}

// Options returns the distinct brewery names in first-appearance order
func (t *Table) Options() []string {
	out := make([]string, len(t.options))
	copy(out, t.options)
	return out
}

// Len is the number of breweries
func (t *Table) Len() int { return len(t.entries) }

// RowCount is the number of source rows the table was built from
func (t *Table) RowCount() int { return t.rowCount }

// Fingerprint identifies the source rows; equal rows give equal fingerprints
func (t *Table) Fingerprint() core.Hash { return t.fingerprint }
