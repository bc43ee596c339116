package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// RandomizeSettings rerolls the lobby between rounds. A running campaign keeps
// its submarine and mode; only the level seed may change.
func (l *LobbyState) RandomizeSettings() error {
	if l.settings.RandomizeSeed() {
		seed, err := l.seeds.NewToken(SeedLength)
		if err != nil {
			return fmt.Errorf("generate level seed: %w", err)
		}
		l.SetLevelSeed(seed)
	}

	if l.campaign.CampaignActive() {
		return nil
	}

	if l.settings.SubSelectionMode() == SelectionRandom {
		candidates := filterSubmarines(l.catalog.ListSaved(), func(s Submarine) bool {
			return usableInMenus(s) && !s.HasTag(TagShuttle)
		})
		if len(candidates) == 0 {
			return fmt.Errorf("%w: no full-size submarines to pick from", ErrConfiguration)
		}
		sub := candidates[l.picker.Intn(len(candidates))]
		l.SetSelectedSubmarine(&sub)
		l.log.Debug("randomized submarine", zap.String("submarine", sub.Name))
	}

	if l.settings.ModeSelectionMode() == SelectionRandom {
		var allowed []GameMode
		for _, m := range l.modes {
			if !m.IsSinglePlayer && !m.IsMultiPlayerCampaign() {
				allowed = append(allowed, m)
			}
		}
		if len(allowed) == 0 {
			return fmt.Errorf("%w: no multiplayer game modes to pick from", ErrConfiguration)
		}
		mode := allowed[l.picker.Intn(len(allowed))]
		l.SetSelectedModeByIdentifier(mode.Identifier)
		l.log.Debug("randomized game mode", zap.String("mode", mode.Identifier))
	}

	l.settings.SelectNonHiddenSubmarine(l.catalog.ListSaved())
	return nil
}
