package engine

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/random"
)

// Deps are the collaborators a LobbyState works against. Catalog, Settings,
// Campaign and Seeds are required.
type Deps struct {
	Catalog  SubmarineCatalog
	Modes    []GameMode
	Settings SessionSettings
	Campaign CampaignSession
	Votes    VoteRegistry
	Seeds    SeedGenerator
	Levels   LevelSeedListener
	Picker   Picker
	Logger   *zap.Logger

	// InitialMode and MissionTypes seed the selection without advancing the
	// version.
	InitialMode  string
	MissionTypes []string
}

// LobbyState is the authoritative pre-round selection of one hosted session.
// It is not safe for concurrent use; a single owner serializes all calls.
type LobbyState struct {
	catalog  SubmarineCatalog
	settings SessionSettings
	campaign CampaignSession
	votes    VoteRegistry
	seeds    SeedGenerator
	levels   LevelSeedListener
	picker   Picker
	log      *zap.Logger

	subs  []Submarine
	modes []GameMode

	selectedSub      *Submarine
	selectedShuttle  *Submarine
	selectedEnemySub *Submarine
	selectedMode     int
	levelSeed        string
	missionTypes     []string
	radiationEnabled bool

	// selected is true while this lobby is the active screen of the host.
	selected bool
	version  int
}

// New bootstraps a LobbyState. It fails with ErrConfiguration when the
// catalog has no usable submarine or there are no game modes.
func New(d Deps) (*LobbyState, error) {
	if d.Catalog == nil || d.Settings == nil || d.Campaign == nil || d.Seeds == nil {
		return nil, fmt.Errorf("%w: catalog, settings, campaign and seeds are required", ErrMissingDependency)
	}
	if len(d.Modes) == 0 {
		return nil, fmt.Errorf("%w: no game modes are available", ErrConfiguration)
	}

	l := &LobbyState{
		catalog:          d.Catalog,
		settings:         d.Settings,
		campaign:         d.Campaign,
		votes:            d.Votes,
		seeds:            d.Seeds,
		levels:           d.Levels,
		picker:           d.Picker,
		log:              d.Logger,
		modes:            slices.Clone(d.Modes),
		missionTypes:     normalizeMissionTypes(d.MissionTypes),
		radiationEnabled: true,
	}
	if l.votes == nil {
		l.votes = noVotes{}
	}
	if l.levels == nil {
		l.levels = noLevels{}
	}
	if l.picker == nil {
		l.picker = random.MathPicker{}
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}

	seed, err := l.seeds.NewToken(SeedLength)
	if err != nil {
		return nil, fmt.Errorf("generate level seed: %w", err)
	}
	l.levelSeed = seed
	l.levels.OnLevelSeedChanged(seed)

	l.subs = filterSubmarines(l.catalog.ListSaved(), usableInMenus)
	l.selectedSub, l.selectedShuttle, err = bootstrapSelection(l.subs, l.log)
	if err != nil {
		return nil, err
	}

	if d.InitialMode != "" {
		if i := l.modeIndex(d.InitialMode); i >= 0 {
			l.selectedMode = i
		}
	}
	return l, nil
}

func (l *LobbyState) Version() int { return l.version }

func (l *LobbyState) SelectedSubmarine() *Submarine      { return l.selectedSub }
func (l *LobbyState) SelectedShuttle() *Submarine        { return l.selectedShuttle }
func (l *LobbyState) SelectedEnemySubmarine() *Submarine { return l.selectedEnemySub }
func (l *LobbyState) SelectedModeIndex() int             { return l.selectedMode }
func (l *LobbyState) SelectedMode() GameMode             { return l.modes[l.selectedMode] }
func (l *LobbyState) LevelSeed() string                  { return l.levelSeed }
func (l *LobbyState) MissionTypes() []string             { return slices.Clone(l.missionTypes) }
func (l *LobbyState) RadiationEnabled() bool             { return l.radiationEnabled }
func (l *LobbyState) GameModes() []GameMode              { return slices.Clone(l.modes) }

// SubmarineList returns the menu-visible player submarines captured at bootstrap.
func (l *LobbyState) SubmarineList() []Submarine { return slices.Clone(l.subs) }

// IsSelected reports whether the lobby is the host's active screen.
func (l *LobbyState) IsSelected() bool { return l.selected }

// Snapshot copies the current selection.
func (l *LobbyState) Snapshot() State {
	mode := l.SelectedMode()
	return State{
		Submarine:        subName(l.selectedSub),
		Shuttle:          subName(l.selectedShuttle),
		EnemySubmarine:   subName(l.selectedEnemySub),
		ModeIndex:        l.selectedMode,
		Mode:             mode.Identifier,
		LevelSeed:        l.levelSeed,
		MissionTypes:     slices.Clone(l.missionTypes),
		RadiationEnabled: l.radiationEnabled,
	}
}

func (l *LobbyState) SetSelectedSubmarine(sub *Submarine) {
	l.selectedSub = sub
	l.version++
	l.settings.MarkDetailsChanged()
}

// SetSelectedEnemySubmarine stores the adversary submarine; nil clears it.
func (l *LobbyState) SetSelectedEnemySubmarine(sub *Submarine) {
	l.selectedEnemySub = sub
	l.version++
}

func (l *LobbyState) SetSelectedShuttle(sub *Submarine) {
	l.selectedShuttle = sub
	l.version++
}

// SetSelectedModeIndex clamps i into the mode list. Leaving the campaign mode
// while a campaign runs on the active lobby ends that campaign.
func (l *LobbyState) SetSelectedModeIndex(i int) {
	l.version++
	l.selectedMode = clamp(i, 0, len(l.modes)-1)
	l.guardCampaign()
	l.settings.SetGameModeIdentifier(l.SelectedMode().Identifier)
	l.settings.MarkDetailsChanged()
}

// SetSelectedModeByIdentifier ignores identifiers that match no mode.
func (l *LobbyState) SetSelectedModeByIdentifier(id string) {
	if l.SelectedMode().Identifier == id {
		return
	}
	if i := l.modeIndex(id); i >= 0 {
		l.SetSelectedModeIndex(i)
	}
}

func (l *LobbyState) SetLevelSeed(seed string) {
	if l.levelSeed == seed {
		return
	}
	l.version++
	l.levelSeed = seed
	l.levels.OnLevelSeedChanged(seed)
}

func (l *LobbyState) SetAllowedMissionTypes(types []string) {
	l.missionTypes = normalizeMissionTypes(types)
	l.version++
	l.settings.SetMissionTypes(JoinMissionTypes(l.missionTypes))
	l.settings.MarkDetailsChanged()
}

func (l *LobbyState) SetRadiationEnabled(enabled bool) {
	l.radiationEnabled = enabled
	l.version++
}

// ToggleCampaignMode selects the first mode whose campaign flag matches
// enabled. The campaign guard does not run here.
func (l *LobbyState) ToggleCampaignMode(enabled bool) {
	for i, m := range l.modes {
		if m.IsMultiPlayerCampaign() == enabled {
			l.selectedMode = i
			break
		}
	}
	l.version++
}

// OnLobbySelected runs when the lobby becomes the active screen. Kick votes
// survive; all other votes of participants are reset.
func (l *LobbyState) OnLobbySelected(participants []string) {
	l.selected = true
	l.votes.ResetVotes(participants, false)
	l.guardCampaign()
	if l.settings.SelectedSubmarineName() == "" {
		l.settings.SetSelectedSubmarineName(subName(l.selectedSub))
	}
}

// Deselect marks the lobby as no longer the active screen, e.g. when a round starts.
func (l *LobbyState) Deselect() {
	l.selected = false
}

func (l *LobbyState) guardCampaign() {
	if l.SelectedMode().IsMultiPlayerCampaign() || !l.selected || !l.campaign.CampaignActive() {
		return
	}
	l.log.Info("selected mode is not the campaign, ending campaign",
		zap.String("mode", l.SelectedMode().Identifier))
	l.campaign.ClearCampaign()
}

func (l *LobbyState) modeIndex(id string) int {
	for i, m := range l.modes {
		if m.Identifier == id {
			return i
		}
	}
	return -1
}
