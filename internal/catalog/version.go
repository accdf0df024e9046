package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrUnsupportedVersion indicates a tweak is outside its supported range
	// for the target device.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidVersion indicates a version string could not be parsed.
	ErrInvalidVersion = errors.New("invalid version")
)

// canonicalVersion converts "17", "18.1" or "18.1.1" into a canonical semver
// string so that semver.Compare can order OS releases.
func canonicalVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, strings.TrimPrefix(v, "v"))
	}
	return semver.Canonical(v), nil
}

// Supports reports whether the tweak is known to work on the given OS version.
func (t Tweak) Supports(version string) (bool, error) {
	v, err := canonicalVersion(version)
	if err != nil {
		return false, err
	}
	if t.MinVersion != "" {
		lo, err := canonicalVersion(t.MinVersion)
		if err != nil {
			return false, err
		}
		if semver.Compare(v, lo) < 0 {
			return false, nil
		}
	}
	if t.MaxVersion != "" {
		hi, err := canonicalVersion(t.MaxVersion)
		if err != nil {
			return false, err
		}
		if semver.Compare(v, hi) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// CheckSupported returns ErrUnsupportedVersion naming the tweak when it is
// outside its supported range.
func (t Tweak) CheckSupported(version string) error {
	ok, err := t.Supports(version)
	if err != nil {
		return err
	}
	if !ok {
		rng := t.MinVersion + "+"
		if t.MaxVersion != "" {
			rng = t.MinVersion + " to " + t.MaxVersion
		}
		return fmt.Errorf("%w: %s requires %s, device is %s", ErrUnsupportedVersion, t.ID, rng, version)
	}
	return nil
}
