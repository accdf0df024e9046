package selection

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// ProfileVersion is the current profile file version.
const ProfileVersion = 1

// Profile is a named set of selections.
type Profile struct {
	Version    int                  `yaml:"version" json:"version"`
	Name       string               `yaml:"name" json:"name"`
	UpdatedAt  time.Time            `yaml:"updated_at" json:"updated_at"`
	Selections map[string]value.Raw `yaml:"selections" json:"selections"`
}

// NewProfile creates an empty profile.
func NewProfile(name string) *Profile {
	return &Profile{
		Version:    ProfileVersion,
		Name:       name,
		Selections: make(map[string]value.Raw),
	}
}

// Set records a value for id.
func (p *Profile) Set(id string, v value.Raw) {
	if p.Selections == nil {
		p.Selections = make(map[string]value.Raw)
	}
	p.Selections[id] = v
}

// Unset removes id and reports whether it was present.
func (p *Profile) Unset(id string) bool {
	if _, ok := p.Selections[id]; !ok {
		return false
	}
	delete(p.Selections, id)
	return true
}

// IDs returns the selected identifiers, sorted.
func (p *Profile) IDs() []string {
	ids := make([]string, 0, len(p.Selections))
	for id := range p.Selections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Coerce converts text into a value of the tweak's type. Toggles accept the
// strconv.ParseBool spellings, steppers accept base-10 integers within the
// tweak's bounds and pickers accept one of the tweak's options.
func Coerce(t catalog.Tweak, text string) (value.Raw, error) {
	switch t.Type {
	case catalog.TypeToggle:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return value.Raw{}, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, t.ID, text)
		}
		return value.Bool(b), nil

	case catalog.TypeStepper:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return value.Raw{}, fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidValue, t.ID, text)
		}
		if t.Min != nil && i < int64(*t.Min) {
			return value.Raw{}, fmt.Errorf("%w: %s must be at least %d", ErrInvalidValue, t.ID, *t.Min)
		}
		if t.Max != nil && i > int64(*t.Max) {
			return value.Raw{}, fmt.Errorf("%w: %s must be at most %d", ErrInvalidValue, t.ID, *t.Max)
		}
		return value.Int(i), nil

	case catalog.TypePicker:
		if len(t.Options) > 0 && text != "" && !slices.Contains(t.Options, text) {
			return value.Raw{}, fmt.Errorf("%w: %s must be one of %v", ErrInvalidValue, t.ID, t.Options)
		}
		return value.String(text), nil

	default:
		return value.String(text), nil
	}
}

// SetText looks id up in cat, coerces text and records the value.
func (p *Profile) SetText(cat *catalog.Catalog, id, text string) (value.Raw, error) {
	t, ok := cat.Lookup(id)
	if !ok {
		return value.Raw{}, fmt.Errorf("%w: %s", ErrUnknownTweak, id)
	}
	v, err := Coerce(t, text)
	if err != nil {
		return value.Raw{}, err
	}
	p.Set(id, v)
	return v, nil
}
