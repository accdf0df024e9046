// Package catalog holds the table of tweaks a user can select.
//
// Each tweak names the device store it targets, the store-specific key it
// writes, how its value is entered (toggle, text, stepper, picker) and the
// range of OS versions it is known to work on. The table is embedded in the
// binary and loaded once; its order is the deterministic order in which
// selections are compiled.
package catalog
