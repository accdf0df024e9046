// Package tunnel owns the lifecycle of the device channel.
//
// A Session wraps an external tunnel Capability with a small state machine:
//
//	Idle → Starting → Ready     start accepted
//	Idle → Starting → Failed    start rejected
//	Ready|Failed → Idle         Stop
//
// The session is explicitly constructed and explicitly stopped by whoever
// started it; there is no process-wide tunnel.
package tunnel
