// Package value defines the raw setting values that flow from a selection
// profile into device configuration documents.
//
// A Raw is a closed union of the three scalar kinds the device stores accept:
// boolean, integer and string. Anything else is unrepresentable, so document
// encoders can match on Kind exhaustively instead of type-switching on
// arbitrary interface values.
package value
