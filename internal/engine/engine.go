package engine

import (
	"errors"
	"slices"
)

// ErrConfiguration marks a lobby that cannot be started or a round that cannot
// begin because the catalogs hold nothing usable.
var ErrConfiguration = errors.New("configuration error")
var ErrMissingDependency = errors.New("missing dependency")
var ErrUnknownSubmarine = errors.New("unknown submarine")
var ErrInvalidSeed = errors.New("invalid level seed")
var ErrUnsupportedCommand = errors.New("unsupported command")

// SeedLength is the length of generated level seeds.
const SeedLength = 8

type SubmarineType string

const (
	SubmarinePlayer  SubmarineType = "player"
	SubmarineOutpost SubmarineType = "outpost"
	SubmarineWreck   SubmarineType = "wreck"
	SubmarineBeacon  SubmarineType = "beacon"
	SubmarineEnemy   SubmarineType = "enemy"
)

type SubmarineTag string

const (
	TagShuttle     SubmarineTag = "shuttle"
	TagHideInMenus SubmarineTag = "hideinmenus"
)

type Submarine struct {
	Name string
	Type SubmarineType
	Tags []SubmarineTag
}

func (s Submarine) HasTag(tag SubmarineTag) bool {
	return slices.Contains(s.Tags, tag)
}

func (s Submarine) IsPlayer() bool {
	return s.Type == SubmarinePlayer
}

type SelectionMode string

const (
	SelectionManual SelectionMode = "manual"
	SelectionRandom SelectionMode = "random"
	SelectionVote   SelectionMode = "vote"
)

// SubmarineCatalog lists the saved submarines. The engine only filters it.
type SubmarineCatalog interface {
	ListSaved() []Submarine
}

// SessionSettings is the host's server configuration. Every mutation that
// changes advertised details marks it dirty.
type SessionSettings interface {
	SetGameModeIdentifier(id string)
	SetMissionTypes(types string)
	SelectedSubmarineName() string
	SetSelectedSubmarineName(name string)
	MarkDetailsChanged()
	RandomizeSeed() bool
	SubSelectionMode() SelectionMode
	ModeSelectionMode() SelectionMode
	SelectNonHiddenSubmarine(subs []Submarine)
}

// CampaignSession is the campaign held by the broader game session.
type CampaignSession interface {
	CampaignActive() bool
	ClearCampaign()
}

type VoteRegistry interface {
	ResetVotes(participants []string, resetKickVotes bool)
}

type SeedGenerator interface {
	NewToken(length int) (string, error)
}

// LevelSeedListener is told about every level seed change so randomness
// derived from the seed stays in step with the clients.
type LevelSeedListener interface {
	OnLevelSeedChanged(seed string)
}

// Picker returns a uniform int in [0, n).
type Picker interface {
	Intn(n int) int
}

// State is a point-in-time copy of the lobby selection.
type State struct {
	Submarine        string   `json:"submarine"`
	Shuttle          string   `json:"shuttle"`
	EnemySubmarine   string   `json:"enemy_submarine,omitempty"`
	ModeIndex        int      `json:"mode_index"`
	Mode             string   `json:"mode"`
	LevelSeed        string   `json:"level_seed"`
	MissionTypes     []string `json:"mission_types"`
	RadiationEnabled bool     `json:"radiation_enabled"`
}
