package restore

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput indicates a required caller input was not supplied.
	ErrMissingInput = errors.New("missing input")

	// ErrMissingPriorSnapshot indicates the plan patches the device
	// capabilities store but no prior snapshot was provided.
	ErrMissingPriorSnapshot = fmt.Errorf("%w: device capabilities snapshot", ErrMissingInput)

	// ErrRestoreFailed indicates a device write returned a nonzero status.
	ErrRestoreFailed = errors.New("restore failed")

	// ErrSessionUsed indicates Run was called on a session that already
	// reached a terminal outcome.
	ErrSessionUsed = errors.New("restore session already used")
)

// StageError annotates the error that aborted a run with the label of the
// stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// statusError converts a nonzero device status into ErrRestoreFailed,
// including the writer's last message when it has one.
func statusError(status int, describe string, message string) error {
	if message != "" {
		return fmt.Errorf("%w: %s (status %d): %s", ErrRestoreFailed, describe, status, message)
	}
	return fmt.Errorf("%w: %s (status %d)", ErrRestoreFailed, describe, status)
}
