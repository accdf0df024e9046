// Package planner handles the planning phase of a restore.
//
// The planner compiles a user's selections into per-store patch sets and an
// ordered list of services to disable. It performs no I/O and cannot fail:
// identifiers it does not recognise are reported, not rejected.
//
// Key responsibilities:
//   - Apply the enablement rule to every selected tweak
//   - Group enabled values by target store and store key
//   - Resolve store-key collisions deterministically (catalog order, last wins)
//     and report the overridden tweaks as conflicts
//   - Keep service-control tweaks out of patch sets
package planner
