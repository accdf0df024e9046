package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

// Catalog is an immutable, ordered table of tweaks.
type Catalog struct {
	tweaks []Tweak
	byID   map[string]int
}

type catalogFile struct {
	Tweaks []Tweak `yaml:"tweaks"`
}

// Builtin parses the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	cat, err := Parse(builtin)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
	}
	return cat, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(file.Tweaks)
}

// New builds a catalog from tweaks in the given order.
func New(tweaks []Tweak) (*Catalog, error) {
	c := &Catalog{
		tweaks: make([]Tweak, 0, len(tweaks)),
		byID:   make(map[string]int, len(tweaks)),
	}
	for _, t := range tweaks {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tweak id %q", t.ID)
		}
		c.byID[t.ID] = len(c.tweaks)
		c.tweaks = append(c.tweaks, t)
	}
	return c, nil
}

// All returns every tweak in catalog order.
func (c *Catalog) All() []Tweak {
	out := make([]Tweak, len(c.tweaks))
	copy(out, c.tweaks)
	return out
}

// Lookup returns the tweak with the given identifier.
func (c *Catalog) Lookup(id string) (Tweak, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tweak{}, false
	}
	return c.tweaks[i], true
}

// ByStore returns the tweaks targeting a store, in catalog order.
func (c *Catalog) ByStore(store StoreKind) []Tweak {
	var out []Tweak
	for _, t := range c.tweaks {
		if t.Store == store {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of tweaks.
func (c *Catalog) Len() int {
	return len(c.tweaks)
}
