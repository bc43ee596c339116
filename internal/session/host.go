// Package session holds the host-side collaborators of a lobby: server
// settings, the game session with its campaign, and participant votes.
package session

import (
	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/levelgen"
)

type HostConfig struct {
	Catalog       engine.SubmarineCatalog
	Modes         []engine.GameMode
	Settings      SettingsValues
	Seeds         engine.SeedGenerator
	Picker        engine.Picker
	LocationTypes []string
	Logger        *zap.Logger
}

// Host is one hosted session: the lobby state and everything it talks to.
type Host struct {
	State    *engine.LobbyState
	Settings *Settings
	Game     *GameSession
	Votes    *Votes
	Levels   *levelgen.Generator
}

// NewHost wires the collaborators and bootstraps the lobby state. Errors
// wrapping engine.ErrConfiguration mean the host cannot start.
func NewHost(cfg HostConfig) (*Host, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	modes := cfg.Modes
	if modes == nil {
		modes = engine.DefaultGameModes
	}

	h := &Host{
		Settings: NewSettings(cfg.Settings),
		Game:     NewGameSession(log),
		Votes:    NewVotes(),
		Levels:   levelgen.New(cfg.LocationTypes, log),
	}

	state, err := engine.New(engine.Deps{
		Catalog:      cfg.Catalog,
		Modes:        modes,
		Settings:     h.Settings,
		Campaign:     h.Game,
		Votes:        h.Votes,
		Seeds:        cfg.Seeds,
		Levels:       h.Levels,
		Picker:       cfg.Picker,
		Logger:       log,
		InitialMode:  cfg.Settings.GameModeIdentifier,
		MissionTypes: engine.SplitMissionTypes(cfg.Settings.MissionTypes),
	})
	if err != nil {
		return nil, err
	}
	h.State = state
	return h, nil
}
