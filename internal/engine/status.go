package engine

import (
	"fmt"
	"os"
)

// Status returns the last restore recorded for a device.
func (e *Engine) Status(req *StatusRequest) (*StatusResult, error) {
	udid := req.UDID
	if udid == "" {
		udid = e.settings.UDID
	}

	result := &StatusResult{UDID: udid}

	ds, err := e.stateStore.LoadDevice(udid)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to load device state: %w", err)
	}

	result.Restores = ds.Restores
	result.LastRestore = ds.LastRestore
	return result, nil
}

// ForgetDevice deletes the recorded state for a device. The device itself is
// not touched.
func (e *Engine) ForgetDevice(req *StatusRequest) error {
	udid := req.UDID
	if udid == "" {
		udid = e.settings.UDID
	}
	if err := e.stateStore.DeleteDevice(udid); err != nil {
		return fmt.Errorf("failed to forget device: %w", err)
	}
	return nil
}
