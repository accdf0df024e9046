package selection

import "errors"

var (
	// ErrProfileNotFound indicates the named profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidValue indicates text could not be converted to a tweak's
	// value type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownTweak indicates an identifier that is not in the catalog.
	ErrUnknownTweak = errors.New("unknown tweak")
)
