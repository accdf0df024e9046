package planner

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
)

// Conflict records enabled tweaks that write the same store key. Only the
// winner's value reaches the device.
type Conflict struct {
	Store catalog.StoreKind `json:"store"`
	Key   string            `json:"key"`

	// Winner is the tweak listed last in the catalog.
	Winner string `json:"winner"`

	// Overridden lists the losing tweaks in catalog order.
	Overridden []string `json:"overridden"`
}

// String describes the conflict on one line.
func (c Conflict) String() string {
	return fmt.Sprintf("%s key %s: %s overrides %s", c.Store.Label(), c.Key, c.Winner, strings.Join(c.Overridden, ", "))
}

// conflictTracker remembers which tweak owns each store key during a compile.
type conflictTracker struct {
	owners    map[catalog.StoreKind]map[string]string
	index     map[catalog.StoreKind]map[string]int
	conflicts []Conflict
}

func newConflictTracker() *conflictTracker {
	return &conflictTracker{
		owners: make(map[catalog.StoreKind]map[string]string),
		index:  make(map[catalog.StoreKind]map[string]int),
	}
}

// claim hands store key to tweak id, recording a conflict if another tweak
// already held it.
func (c *conflictTracker) claim(store catalog.StoreKind, key, id string) {
	owners, ok := c.owners[store]
	if !ok {
		owners = make(map[string]string)
		c.owners[store] = owners
		c.index[store] = make(map[string]int)
	}

	prev, held := owners[key]
	owners[key] = id
	if !held {
		return
	}

	if i, ok := c.index[store][key]; ok {
		c.conflicts[i].Overridden = append(c.conflicts[i].Overridden, prev)
		c.conflicts[i].Winner = id
		return
	}
	c.index[store][key] = len(c.conflicts)
	c.conflicts = append(c.conflicts, Conflict{
		Store:      store,
		Key:        key,
		Winner:     id,
		Overridden: []string{prev},
	})
}
