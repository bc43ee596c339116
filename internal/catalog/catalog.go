// Package catalog provides in-memory submarine catalogs.
package catalog

import (
	"slices"
	"sync"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
)

// Static is a submarine catalog backed by a slice. Replace swaps the whole
// list, e.g. after reloading it from the store.
type Static struct {
	mu   sync.RWMutex
	subs []engine.Submarine
}

func NewStatic(subs []engine.Submarine) *Static {
	return &Static{subs: slices.Clone(subs)}
}

func (c *Static) ListSaved() []engine.Submarine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.subs)
}

func (c *Static) Replace(subs []engine.Submarine) {
	c.mu.Lock()
	c.subs = slices.Clone(subs)
	c.mu.Unlock()
}

// Default returns the built-in catalog used when no database is configured.
func Default() []engine.Submarine {
	player := func(name string, tags ...engine.SubmarineTag) engine.Submarine {
		return engine.Submarine{Name: name, Type: engine.SubmarinePlayer, Tags: tags}
	}
	return []engine.Submarine{
		player("Dugong"),
		player("Humpback"),
		player("Orca"),
		player("Typhon"),
		player("R-29"),
		player("Remora"),
		player("Azimuth", engine.TagShuttle),
		player("Selkie", engine.TagShuttle),
		player("Kastrull", engine.TagHideInMenus),
		{Name: "Hemulen", Type: engine.SubmarineEnemy},
		{Name: "Outpost Alpha", Type: engine.SubmarineOutpost},
	}
}
