package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/selection"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

func TestSetSelection_CreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.engine.SetSelection(&SetSelectionRequest{ID: "dock_icons", Value: "5"})
	require.NoError(t, err)

	assert.Equal(t, "default", result.Name)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, value.Int(5), result.Entries[0].Value)
	assert.True(t, result.Entries[0].Enabled)

	names, err := env.engine.ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names)
}

func TestSetSelection_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.SetSelection(&SetSelectionRequest{ID: "dock_icons", Value: "9"})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, selection.ErrInvalidValue))

	_, err = env.engine.SetSelection(&SetSelectionRequest{ID: "nope", Value: "true"})
	assert.True(t, errors.Is(err, selection.ErrUnknownTweak))
}

func TestShowProfile_CatalogOrderThenUnknown(t *testing.T) {
	env := newTestEnv(t)
	env.saveProfile(t, "night", map[string]value.Raw{
		"zzz_removed":  value.Bool(true),
		"carrier_name": value.String(""),
		"boot_chime":   value.Bool(true),
	})

	result, err := env.engine.ShowProfile("night")
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)

	assert.Equal(t, "boot_chime", result.Entries[0].ID)
	assert.True(t, result.Entries[0].Enabled)
	assert.Equal(t, "carrier_name", result.Entries[1].ID)
	assert.False(t, result.Entries[1].Enabled)
	assert.Equal(t, "zzz_removed", result.Entries[2].ID)
	assert.False(t, result.Entries[2].Known)
}

func TestUnsetSelectionAndReset(t *testing.T) {
	env := newTestEnv(t)
	env.saveProfile(t, "default", map[string]value.Raw{"boot_chime": value.Bool(true)})

	result, err := env.engine.UnsetSelection(&UnsetSelectionRequest{ID: "boot_chime"})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)

	_, err = env.engine.UnsetSelection(&UnsetSelectionRequest{ID: "boot_chime"})
	assert.True(t, errors.Is(err, ErrValidation))

	require.NoError(t, env.engine.ResetProfile(""))
	_, err = env.engine.ShowProfile("")
	assert.True(t, errors.Is(err, selection.ErrProfileNotFound))
}

func TestListCatalog(t *testing.T) {
	env := newTestEnv(t)

	all, err := env.engine.ListCatalog(&CatalogRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Nil(t, all[0].Supported)

	services, err := env.engine.ListCatalog(&CatalogRequest{Store: catalog.StoreServiceControl, DeviceVersion: "18.2"})
	require.NoError(t, err)
	require.Len(t, services, 2)
	require.NotNil(t, services[0].Supported)
	assert.True(t, *services[0].Supported)

	caps, err := env.engine.ListCatalog(&CatalogRequest{Store: catalog.StoreDeviceCapabilities, DeviceVersion: "18.2"})
	require.NoError(t, err)
	assert.False(t, *caps[0].Supported)

	_, err = env.engine.ListCatalog(&CatalogRequest{Store: "bogus"})
	assert.True(t, errors.Is(err, ErrValidation))
}
