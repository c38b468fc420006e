package weapon

import (
	"sync"
	"time"
)

// StaticRegistry is a Registry backed by an in-memory map.
type StaticRegistry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewStaticRegistry creates a StaticRegistry holding the given definitions.
func NewStaticRegistry(defs ...Definition) *StaticRegistry {
	r := &StaticRegistry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	return r
}

// Register adds or replaces a definition.
func (r *StaticRegistry) Register(d Definition) {
	r.mu.Lock()
	r.defs[d.ID] = d
	r.mu.Unlock()
}

// Definition ...
func (r *StaticRegistry) Definition(id string) (Definition, bool) {
	r.mu.RLock()
	d, ok := r.defs[id]
	r.mu.RUnlock()
	return d, ok
}

// DefaultRegistry returns a registry stocked with a baseline arsenal. Servers
// are expected to replace or extend it with their own definitions.
func DefaultRegistry() *StaticRegistry {
	return NewStaticRegistry(
		Definition{ID: "pistol", FireRateRPM: 300, MagazineSize: 12, ReloadTime: 1500 * time.Millisecond, BaseAccuracy: 0.85, Mode: ModeSemiAuto},
		Definition{ID: "rifle", FireRateRPM: 600, MagazineSize: 30, ReloadTime: 2500 * time.Millisecond, BaseAccuracy: 0.75, Mode: ModeFullAuto},
		Definition{ID: "smg", FireRateRPM: 900, MagazineSize: 25, ReloadTime: 2000 * time.Millisecond, BaseAccuracy: 0.6, Mode: ModeFullAuto},
		Definition{ID: "burst_rifle", FireRateRPM: 750, MagazineSize: 24, ReloadTime: 2200 * time.Millisecond, BaseAccuracy: 0.8, Mode: ModeBurst},
		Definition{ID: "sniper", FireRateRPM: 40, MagazineSize: 5, ReloadTime: 3500 * time.Millisecond, BaseAccuracy: 0.95, Mode: ModeBoltAction},
		Definition{ID: "shotgun", FireRateRPM: 70, MagazineSize: 8, ReloadTime: 3000 * time.Millisecond, BaseAccuracy: 0.5, Mode: ModeSemiAuto},
	)
}
