// Package plistdoc builds and patches the property-list documents written to
// device configuration stores.
//
// All output is binary property-list encoded and deterministic: the same
// input bytes and patch set always produce the same output bytes. Two
// policies exist. The capabilities cache is merge-patched against a snapshot
// of the device's current document; every other store is rebuilt from the
// patch set alone.
package plistdoc
