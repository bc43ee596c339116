package session

import (
	"sync"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
)

// SettingsValues is the persisted form of a host's server settings.
type SettingsValues struct {
	GameModeIdentifier    string
	MissionTypes          string
	SelectedSubmarineName string
	RandomizeSeed         bool
	SubSelectionMode      engine.SelectionMode
	ModeSelectionMode     engine.SelectionMode
}

// Settings implements engine.SessionSettings. It is shared between the lobby
// owner and the settings flusher, so every access is locked.
type Settings struct {
	mu             sync.RWMutex
	v              SettingsValues
	detailsChanged bool
}

func NewSettings(v SettingsValues) *Settings {
	if v.SubSelectionMode == "" {
		v.SubSelectionMode = engine.SelectionManual
	}
	if v.ModeSelectionMode == "" {
		v.ModeSelectionMode = engine.SelectionManual
	}
	return &Settings{v: v}
}

func (s *Settings) Values() SettingsValues {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func (s *Settings) SetGameModeIdentifier(id string) {
	s.mu.Lock()
	s.v.GameModeIdentifier = id
	s.mu.Unlock()
}

func (s *Settings) SetMissionTypes(types string) {
	s.mu.Lock()
	s.v.MissionTypes = types
	s.mu.Unlock()
}

func (s *Settings) SelectedSubmarineName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.SelectedSubmarineName
}

func (s *Settings) SetSelectedSubmarineName(name string) {
	s.mu.Lock()
	s.v.SelectedSubmarineName = name
	s.detailsChanged = true
	s.mu.Unlock()
}

func (s *Settings) MarkDetailsChanged() {
	s.mu.Lock()
	s.detailsChanged = true
	s.mu.Unlock()
}

// TakeDetailsChanged reports whether details changed since the last call and
// clears the flag.
func (s *Settings) TakeDetailsChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.detailsChanged
	s.detailsChanged = false
	return changed
}

func (s *Settings) RandomizeSeed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.RandomizeSeed
}

func (s *Settings) SubSelectionMode() engine.SelectionMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.SubSelectionMode
}

func (s *Settings) ModeSelectionMode() engine.SelectionMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.ModeSelectionMode
}

// SelectNonHiddenSubmarine replaces a persisted submarine selection that is
// hidden from menus or no longer saved with the first visible full-size one.
func (s *Settings) SelectNonHiddenSubmarine(subs []engine.Submarine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.SelectedSubmarineName == "" {
		return
	}

	var fallback string
	for _, sub := range subs {
		visible := sub.IsPlayer() && !sub.HasTag(engine.TagHideInMenus)
		if sub.Name == s.v.SelectedSubmarineName && visible {
			return
		}
		if fallback == "" && visible && !sub.HasTag(engine.TagShuttle) {
			fallback = sub.Name
		}
	}
	if fallback == "" {
		return
	}
	s.v.SelectedSubmarineName = fallback
	s.detailsChanged = true
}
