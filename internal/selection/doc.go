// Package selection persists named selection profiles.
//
// A profile is the map of tweak identifier to raw value that the restore
// pipeline compiles. Profiles are stored as one YAML file each under the
// profiles directory and written atomically through fsops.
//
// Key responsibilities:
//   - Loading, saving, listing and deleting profiles
//   - Converting command-line text into a value of the tweak's type
//   - Rejecting profile names that are not a single path component
package selection
