package planner

import (
	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// Plan is the compiled form of a selection map.
type Plan struct {
	// PatchSets holds the changes for each document-backed store. Stores
	// with no changes have no entry.
	PatchSets map[catalog.StoreKind]value.PatchSet `json:"patch_sets"`

	// ServicesToDisable is the ordered list of service identifiers to
	// disable, in catalog order.
	ServicesToDisable []string `json:"services_to_disable"`

	// Enabled lists the identifiers that passed the enablement rule, in
	// catalog order.
	Enabled []string `json:"enabled"`

	// Unknown lists selected identifiers that are not in the catalog, sorted.
	Unknown []string `json:"unknown"`

	// Conflicts lists store keys written by more than one enabled tweak.
	Conflicts []Conflict `json:"conflicts"`
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		PatchSets:         make(map[catalog.StoreKind]value.PatchSet),
		ServicesToDisable: []string{},
		Enabled:           []string{},
		Unknown:           []string{},
		Conflicts:         []Conflict{},
	}
}

// PatchSet returns the patch set for a store, or nil if the store has no
// changes.
func (p *Plan) PatchSet(store catalog.StoreKind) value.PatchSet {
	set := p.PatchSets[store]
	if len(set) == 0 {
		return nil
	}
	return set
}

// Has reports whether the store has at least one change.
func (p *Plan) Has(store catalog.StoreKind) bool {
	return len(p.PatchSets[store]) > 0
}

// StageCount returns the number of pipeline stages the plan produces: one per
// non-empty document store plus one per service.
func (p *Plan) StageCount() int {
	n := len(p.ServicesToDisable)
	for _, store := range catalog.DocumentStores {
		if p.Has(store) {
			n++
		}
	}
	return n
}

// HasConflicts returns true if any store key was overridden.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// IsEmpty returns true if the plan makes no changes.
func (p *Plan) IsEmpty() bool {
	return p.StageCount() == 0
}

// set inserts a value, overwriting any earlier value for the same key.
func (p *Plan) set(store catalog.StoreKind, key string, v value.Raw) {
	set, ok := p.PatchSets[store]
	if !ok {
		set = make(value.PatchSet)
		p.PatchSets[store] = set
	}
	set[key] = v
}
