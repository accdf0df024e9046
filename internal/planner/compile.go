package planner

import (
	"sort"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// Compile turns a selection map into a Plan.
//
// Selections are visited in catalog order, never in map order, so two tweaks
// that write the same store key always resolve the same way: the one listed
// later in the catalog wins. A service listed by more than one enabled tweak
// is disabled once, at its first position. Overridden keys are reported in
// Plan.Conflicts.
func Compile(selections map[string]value.Raw, cat *catalog.Catalog) *Plan {
	plan := NewPlan()

	for id := range selections {
		if _, ok := cat.Lookup(id); !ok {
			plan.Unknown = append(plan.Unknown, id)
		}
	}
	sort.Strings(plan.Unknown)

	tracker := newConflictTracker()
	seenService := make(map[string]bool)
	for _, tweak := range cat.All() {
		v, selected := selections[tweak.ID]
		if !selected || !tweak.Enabled(v) {
			continue
		}
		plan.Enabled = append(plan.Enabled, tweak.ID)

		if tweak.Store == catalog.StoreServiceControl {
			if !seenService[tweak.Key] {
				seenService[tweak.Key] = true
				plan.ServicesToDisable = append(plan.ServicesToDisable, tweak.Key)
			}
			continue
		}
		tracker.claim(tweak.Store, tweak.Key, tweak.ID)
		plan.set(tweak.Store, tweak.Key, v)
	}

	if len(tracker.conflicts) > 0 {
		plan.Conflicts = tracker.conflicts
	}
	return plan
}
