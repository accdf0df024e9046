package tunnel

import "errors"

var (
	// ErrBringupFailed indicates the tunnel capability rejected start. The
	// wrapped message is the capability's own error text.
	ErrBringupFailed = errors.New("tunnel bring-up failed")

	// ErrNotReady indicates the device did not become reachable in time.
	ErrNotReady = errors.New("tunnel not ready")

	// ErrBusy indicates a start is already in progress on the session.
	ErrBusy = errors.New("tunnel start already in progress")
)
