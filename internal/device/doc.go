// Package device defines the device-write capability and its backends.
//
// Every store write is, underneath, a sparse restore of a single file: a
// backup domain, a path relative to that domain, and the file's bytes.
// SparseWriter maps each store onto its fixed domain and path and delegates
// the transfer to a FileRestorer. Two restorers are provided: ExecRestorer
// hands the file to a native helper binary, and StagingRestorer lays the
// files out in a local directory instead of sending them anywhere.
package device
