package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// bootstrapSelection picks the starting submarine and shuttle from the
// menu-visible player submarines. Missing full-size subs or shuttles fall back
// to the first usable entry.
func bootstrapSelection(subs []Submarine, log *zap.Logger) (sub, shuttle *Submarine, err error) {
	if len(subs) == 0 {
		return nil, nil, fmt.Errorf("%w: no submarines are available", ErrConfiguration)
	}

	for i := range subs {
		if sub == nil && !subs[i].HasTag(TagShuttle) {
			sub = &subs[i]
		}
		if shuttle == nil && subs[i].HasTag(TagShuttle) {
			shuttle = &subs[i]
		}
	}

	if sub == nil {
		log.Warn("no full-size submarines available, choosing a shuttle as the main submarine",
			zap.String("submarine", subs[0].Name))
		sub = &subs[0]
	}
	if shuttle == nil {
		log.Warn("no shuttles available, choosing a full-size submarine as the shuttle",
			zap.String("shuttle", subs[0].Name))
		shuttle = &subs[0]
	}

	log.Info("selected submarines",
		zap.String("submarine", sub.Name),
		zap.String("shuttle", shuttle.Name))
	return sub, shuttle, nil
}
