// Package restore drives a restore run from a compiled plan to the device.
//
// A run brings the tunnel up, builds an ordered list of weighted stages from
// the plan and executes them one at a time through the device Writer. The
// first failing stage ends the run; stages that already completed are not
// undone.
//
// Key responsibilities:
//   - Checking caller inputs before the tunnel is touched
//   - Building stages in a fixed order: device capabilities, system UI,
//     status bar, then one stage per service to disable
//   - Reporting monotonic progress through a ProgressFunc
//   - Annotating the aborting error with its stage label
//   - Rendering the same documents without a device for dry runs
//
// The orchestrator never stops the tunnel. The caller that started it owns
// its teardown.
package restore
