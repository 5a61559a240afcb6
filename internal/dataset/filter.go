package dataset

import "beerdash/domain/brewery"

// Filter returns, in table order, the entries whose brewery is selected.
// Names missing from the table are ignored. The result is never nil.
func Filter(t *Table, selected []string) []brewery.Entry {
	out := make([]brewery.Entry, 0, len(selected))
	if t == nil || len(selected) == 0 {
		return out
	}

	set := brewery.SelectionState{Breweries: selected}.Set()
	for _, e := range t.entries {
		if _, ok := set[e.Brewery]; ok {
			out = append(out, e)
		}
	}
	return out
}
