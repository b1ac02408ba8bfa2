// Package worlddir tracks the set of worlds currently announced by
// connected world servers, so citizen clients can browse and locate them
// with WorldList/WorldLookup the same way the citizen directory answers
// CitizenLookupByName/CitizenLookupByNumber.
package worlddir

import (
	"sort"
	"sync"

	"github.com/Faultbox/universed/internal/session"
)

// Info is the subset of a world's advertised state that gets handed back
// to a querying client.
type Info struct {
	Name     string
	Rating   uint32
	Users    uint32
	MaxUsers uint32
	Status   uint32
}

type entry struct {
	owner session.ConnID
	info  Info
}

// Directory is the live registry of announced worlds, keyed by name.
// Entries are owned by the ConnID of the world server that announced them;
// a world server disconnecting takes every world it owns down with it.
type Directory struct {
	mu     sync.Mutex
	worlds map[string]entry
}

// New returns an empty world directory.
func New() *Directory {
	return &Directory{worlds: make(map[string]entry)}
}

// Register records or updates one world, attributed to owner. A second
// Register for the same name from a different owner simply reassigns
// ownership -- the original protocol trusts world servers not to collide
// on names, and this service does not second-guess that.
func (d *Directory) Register(owner session.ConnID, info Info) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.worlds[info.Name] = entry{owner: owner, info: info}
}

// Unregister removes one world by name, if still owned by owner.
func (d *Directory) Unregister(owner session.ConnID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.worlds[name]; ok && e.owner == owner {
		delete(d.worlds, name)
	}
}

// RemoveAllOwnedBy delists every world belonging to owner, returning their
// names. Called from the purge cascade when a world server disconnects.
func (d *Directory) RemoveAllOwnedBy(owner session.ConnID) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var removed []string
	for name, e := range d.worlds {
		if e.owner == owner {
			removed = append(removed, name)
			delete(d.worlds, name)
		}
	}
	return removed
}

// Lookup returns one world's info by exact name.
func (d *Directory) Lookup(name string) (Info, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.worlds[name]
	return e.info, ok
}

// List returns every announced world, sorted by name for a stable wire
// ordering across ticks.
func (d *Directory) List() []Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Info, 0, len(d.worlds))
	for _, e := range d.worlds {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
