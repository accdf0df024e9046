package engine

import "errors"

var (
	// ErrRestoreInFlight indicates another restore is already running.
	ErrRestoreInFlight = errors.New("a restore is already in progress")

	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation failed")
)
