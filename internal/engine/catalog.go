package engine

import (
	"fmt"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
)

// ListCatalog returns catalog tweaks, optionally filtered by store and
// marked with their support for a device version.
func (e *Engine) ListCatalog(req *CatalogRequest) ([]CatalogEntry, error) {
	if req.Store != "" && !req.Store.Valid() {
		return nil, fmt.Errorf("%w: unknown store %q", ErrValidation, req.Store)
	}

	tweaks := e.catalog.All()
	if req.Store != "" {
		tweaks = e.catalog.ByStore(req.Store)
	}

	version := e.deviceVersion(req.DeviceVersion)
	entries := make([]CatalogEntry, 0, len(tweaks))
	for _, tweak := range tweaks {
		entry := CatalogEntry{Tweak: tweak}
		if version != "" {
			ok, err := tweak.Supports(version)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrValidation, err)
			}
			entry.Supported = &ok
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Lookup returns the catalog entry for id.
func (e *Engine) Lookup(id string) (catalog.Tweak, bool) {
	return e.catalog.Lookup(id)
}
