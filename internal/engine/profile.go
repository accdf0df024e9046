package engine

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/tweakrestore/internal/selection"
)

// SetSelection converts a textual value to the tweak's type and stores it in
// the profile, creating the profile if needed.
func (e *Engine) SetSelection(req *SetSelectionRequest) (*ProfileResult, error) {
	name := e.profileName(req.Profile)
	profile, err := e.loadOrCreate(name)
	if err != nil {
		return nil, err
	}
	if _, err := profile.SetText(e.catalog, req.ID, req.Value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := e.profiles.Save(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return e.resolve(profile), nil
}

// UnsetSelection removes a selection from the profile.
func (e *Engine) UnsetSelection(req *UnsetSelectionRequest) (*ProfileResult, error) {
	name := e.profileName(req.Profile)
	profile, err := e.profiles.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !profile.Unset(req.ID) {
		return nil, fmt.Errorf("%w: %s is not set in profile %s", ErrValidation, req.ID, name)
	}
	if err := e.profiles.Save(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return e.resolve(profile), nil
}

// ShowProfile returns the profile's selections resolved against the catalog.
func (e *Engine) ShowProfile(name string) (*ProfileResult, error) {
	profile, err := e.profiles.Load(e.profileName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return e.resolve(profile), nil
}

// ListProfiles returns the names of all stored profiles.
func (e *Engine) ListProfiles() ([]string, error) {
	names, err := e.profiles.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return names, nil
}

// ResetProfile deletes a profile. Resetting a missing profile is not an error.
func (e *Engine) ResetProfile(name string) error {
	if err := e.profiles.Delete(e.profileName(name)); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	return nil
}

func (e *Engine) loadOrCreate(name string) (*selection.Profile, error) {
	profile, err := e.profiles.Load(name)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, selection.ErrProfileNotFound) {
		return selection.NewProfile(name), nil
	}
	return nil, fmt.Errorf("failed to load profile: %w", err)
}

// resolve lists the profile's selections in catalog order, followed by
// identifiers the catalog does not know, sorted.
func (e *Engine) resolve(profile *selection.Profile) *ProfileResult {
	result := &ProfileResult{
		Name:      profile.Name,
		UpdatedAt: profile.UpdatedAt,
		Entries:   []ProfileEntry{},
	}
	for _, tweak := range e.catalog.All() {
		v, ok := profile.Selections[tweak.ID]
		if !ok {
			continue
		}
		result.Entries = append(result.Entries, ProfileEntry{
			ID:      tweak.ID,
			Name:    tweak.Name,
			Store:   tweak.Store,
			Value:   v,
			Enabled: tweak.Enabled(v),
			Known:   true,
		})
	}
	for _, id := range profile.IDs() {
		if _, ok := e.catalog.Lookup(id); ok {
			continue
		}
		result.Entries = append(result.Entries, ProfileEntry{
			ID:    id,
			Value: profile.Selections[id],
		})
	}
	return result
}
