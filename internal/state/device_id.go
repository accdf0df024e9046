package state

import (
	"github.com/danieljhkim/tweakrestore/internal/hash"
)

// defaultDevice names the device used when no identifier is configured.
const defaultDevice = "default-device"

// DeviceID computes a stable, path-safe ID for a device identifier. This ID
// names the device's state file.
func DeviceID(udid string) string {
	if udid == "" {
		udid = defaultDevice
	}
	return hash.NewSHA256Hasher().HashBytes([]byte("device|" + udid))
}
