// Package levelgen keeps randomness derived from the level seed in step with
// the clients.
package levelgen

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
)

var DefaultLocationTypes = []string{
	"city", "outpost", "military", "research", "mine", "natural", "abandoned",
}

// Generator implements engine.LevelSeedListener. Every seed change rederives
// the location type the first level will use.
type Generator struct {
	locationTypes []string
	log           *zap.Logger

	mu           sync.RWMutex
	seed         string
	locationType string
}

func New(locationTypes []string, log *zap.Logger) *Generator {
	if len(locationTypes) == 0 {
		locationTypes = DefaultLocationTypes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{locationTypes: locationTypes, log: log}
}

func (g *Generator) OnLevelSeedChanged(seed string) {
	lt := g.locationTypes[Rand(seed).IntN(len(g.locationTypes))]

	g.mu.Lock()
	g.seed = seed
	g.locationType = lt
	g.mu.Unlock()

	g.log.Debug("level seed synced",
		zap.String("seed", seed),
		zap.String("location_type", lt))
}

// Current returns the last seed and the location type derived from it.
func (g *Generator) Current() (seed, locationType string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seed, g.locationType
}

// SeedToInt hashes a seed string into the integer seed used for level generation.
func SeedToInt(seed string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return h.Sum64()
}

// Rand returns the deterministic generator for seed.
func Rand(seed string) *rand.Rand {
	n := SeedToInt(seed)
	return rand.New(rand.NewPCG(n, n>>1))
}
