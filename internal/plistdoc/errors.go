package plistdoc

import "errors"

var (
	// ErrInvalidDocument indicates a snapshot could not be parsed as a
	// property-list dictionary.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrSerializationFailed indicates the encoder rejected a document. With
	// scalar patch values this only happens on an internal bug.
	ErrSerializationFailed = errors.New("serialization failed")
)
