// Package state records what tweakrestore last wrote to each device.
//
// Every device restore that gets past input checks leaves a record, whether
// it succeeded or stopped part way. The record lists the documents the device
// accepted with their digests, so a later status check can tell what is
// actually on the device without talking to it.
//
// Key concepts:
//   - DeviceState: The last restore recorded for one device
//   - RestoreRecord: Outcome, timing and accepted documents of one session
//   - DeviceID: Stable file name derived from the device identifier
//   - StateStore: Interface for persisting and loading device state
//
// State is persisted as JSON files in the state/devices directory.
package state
