package types

import "github.com/DoyleJ11/netlobby-backend/internal/engine"

type ClientMessage struct {
	Type         string   `json:"type"`
	Name         string   `json:"name,omitempty"`
	Index        int      `json:"index,omitempty"`
	Seed         string   `json:"seed,omitempty"`
	MissionTypes []string `json:"mission_types,omitempty"`
	Enabled      bool     `json:"enabled,omitempty"`
	Kind         string   `json:"kind,omitempty"` // Vote: "submarine" | "mode"
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}
