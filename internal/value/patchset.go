package value

import "sort"

// PatchSet maps store-specific keys to the values destined for one store.
type PatchSet map[string]Raw

// Keys returns the keys in sorted order.
func (p PatchSet) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the set.
func (p PatchSet) Clone() PatchSet {
	out := make(PatchSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
