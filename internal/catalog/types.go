package catalog

import (
	"fmt"

	"github.com/danieljhkim/tweakrestore/internal/value"
)

// StoreKind names a device-side configuration destination.
type StoreKind string

const (
	// StoreDeviceCapabilities is the capabilities cache. It is merge-patched
	// against a snapshot of the device's current document.
	StoreDeviceCapabilities StoreKind = "device_capabilities"

	// StoreSystemUI is the system UI preferences document, fully replaced.
	StoreSystemUI StoreKind = "system_ui"

	// StoreStatusBar is the status bar overrides document, fully replaced.
	StoreStatusBar StoreKind = "status_bar"

	// StoreServiceControl is the list of services to disable.
	StoreServiceControl StoreKind = "service_control"
)

// DocumentStores lists the stores backed by a document, in the order their
// stages run.
var DocumentStores = []StoreKind{
	StoreDeviceCapabilities,
	StoreSystemUI,
	StoreStatusBar,
}

// Valid reports whether k is a known store.
func (k StoreKind) Valid() bool {
	switch k {
	case StoreDeviceCapabilities, StoreSystemUI, StoreStatusBar, StoreServiceControl:
		return true
	}
	return false
}

// Label returns a human readable store name.
func (k StoreKind) Label() string {
	switch k {
	case StoreDeviceCapabilities:
		return "device capabilities"
	case StoreSystemUI:
		return "system UI preferences"
	case StoreStatusBar:
		return "status bar overrides"
	case StoreServiceControl:
		return "service control"
	default:
		return string(k)
	}
}

// ValueType describes how a tweak's value is entered.
type ValueType string

const (
	TypeToggle  ValueType = "toggle"
	TypeText    ValueType = "text"
	TypeStepper ValueType = "stepper"
	TypePicker  ValueType = "picker"
)

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool {
	switch t {
	case TypeToggle, TypeText, TypeStepper, TypePicker:
		return true
	}
	return false
}

// Tweak is one entry in the catalog.
type Tweak struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Store       StoreKind `yaml:"store" json:"store"`
	Type        ValueType `yaml:"type" json:"type"`
	Key         string    `yaml:"key" json:"key"`

	// MinVersion and MaxVersion bound the supported OS versions, inclusive.
	// An empty MaxVersion means no upper bound.
	MinVersion string `yaml:"min_version" json:"min_version"`
	MaxVersion string `yaml:"max_version,omitempty" json:"max_version,omitempty"`

	Placeholder string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Min         *int     `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *int     `yaml:"max,omitempty" json:"max,omitempty"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	Risky       bool     `yaml:"risky,omitempty" json:"risky,omitempty"`
}

// BoolBacked reports whether the tweak stores a boolean.
func (t Tweak) BoolBacked() bool {
	return t.Type == TypeToggle
}

// Enabled applies the enablement rule to a stored value: a boolean-backed
// tweak is enabled iff its value is true; any other tweak is enabled iff the
// textual form of its value is non-empty.
func (t Tweak) Enabled(v value.Raw) bool {
	if t.BoolBacked() {
		b, ok := v.AsBool()
		return ok && b
	}
	return v.IsValid() && v.Text() != ""
}

func (t Tweak) validate() error {
	if t.ID == "" {
		return fmt.Errorf("tweak with key %q has no id", t.Key)
	}
	if t.Key == "" {
		return fmt.Errorf("tweak %s: key is required", t.ID)
	}
	if !t.Store.Valid() {
		return fmt.Errorf("tweak %s: unknown store %q", t.ID, t.Store)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("tweak %s: unknown type %q", t.ID, t.Type)
	}
	if t.Store == StoreServiceControl && t.Type != TypeToggle {
		return fmt.Errorf("tweak %s: service control tweaks must be toggles", t.ID)
	}
	if t.MinVersion != "" {
		if _, err := canonicalVersion(t.MinVersion); err != nil {
			return fmt.Errorf("tweak %s: min_version: %w", t.ID, err)
		}
	}
	if t.MaxVersion != "" {
		if _, err := canonicalVersion(t.MaxVersion); err != nil {
			return fmt.Errorf("tweak %s: max_version: %w", t.ID, err)
		}
	}
	return nil
}
