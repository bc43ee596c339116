package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/netlobby-backend/internal/random"
)

type fakeCatalog []Submarine

func (c fakeCatalog) ListSaved() []Submarine { return c }

type fakeSettings struct {
	modeID        string
	missionTypes  string
	selectedSub   string
	detailsDirty  int
	randomizeSeed bool
	subMode       SelectionMode
	modeMode      SelectionMode
	reconciled    int
}

func (s *fakeSettings) SetGameModeIdentifier(id string)      { s.modeID = id }
func (s *fakeSettings) SetMissionTypes(types string)         { s.missionTypes = types }
func (s *fakeSettings) SelectedSubmarineName() string        { return s.selectedSub }
func (s *fakeSettings) SetSelectedSubmarineName(name string) { s.selectedSub = name }
func (s *fakeSettings) MarkDetailsChanged()                  { s.detailsDirty++ }
func (s *fakeSettings) RandomizeSeed() bool                  { return s.randomizeSeed }
func (s *fakeSettings) SubSelectionMode() SelectionMode      { return s.subMode }
func (s *fakeSettings) ModeSelectionMode() SelectionMode     { return s.modeMode }
func (s *fakeSettings) SelectNonHiddenSubmarine([]Submarine) { s.reconciled++ }

type fakeCampaign struct{ active bool }

func (c *fakeCampaign) CampaignActive() bool { return c.active }
func (c *fakeCampaign) ClearCampaign()       { c.active = false }

type fakeVotes struct {
	participants []string
	resetKick    bool
	calls        int
}

func (v *fakeVotes) ResetVotes(participants []string, resetKickVotes bool) {
	v.participants = participants
	v.resetKick = resetKickVotes
	v.calls++
}

// fakeSeeds hands out seed-1, seed-2, ...
type fakeSeeds struct{ n int }

func (s *fakeSeeds) NewToken(length int) (string, error) {
	s.n++
	return fmt.Sprintf("seed-%d", s.n), nil
}

type fakeLevels struct{ seeds []string }

func (f *fakeLevels) OnLevelSeedChanged(seed string) { f.seeds = append(f.seeds, seed) }

type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

var (
	alpha  = Submarine{Name: "Alpha", Type: SubmarinePlayer}
	beta   = Submarine{Name: "Beta", Type: SubmarinePlayer, Tags: []SubmarineTag{TagShuttle}}
	gamma  = Submarine{Name: "Gamma", Type: SubmarinePlayer}
	hidden = Submarine{Name: "Hidden", Type: SubmarinePlayer, Tags: []SubmarineTag{TagHideInMenus}}
	wreck  = Submarine{Name: "Wreck", Type: SubmarineWreck}

	sandbox  = GameMode{Identifier: ModeSandbox}
	campaign = GameMode{Identifier: ModeMultiPlayerCampaign, IsCampaign: true}
)

type fixture struct {
	state    *LobbyState
	settings *fakeSettings
	campaign *fakeCampaign
	votes    *fakeVotes
	levels   *fakeLevels
}

func newFixture(t *testing.T, subs []Submarine, modes []GameMode) fixture {
	t.Helper()
	f := fixture{
		settings: &fakeSettings{},
		campaign: &fakeCampaign{},
		votes:    &fakeVotes{},
		levels:   &fakeLevels{},
	}
	s, err := New(Deps{
		Catalog:  fakeCatalog(subs),
		Modes:    modes,
		Settings: f.settings,
		Campaign: f.campaign,
		Votes:    f.votes,
		Seeds:    &fakeSeeds{},
		Levels:   f.levels,
		Picker:   fixedPicker(0),
	})
	require.NoError(t, err)
	f.state = s
	return f
}

func TestBootstrap_PicksFirstSubAndShuttle(t *testing.T) {
	f := newFixture(t, []Submarine{alpha, beta}, []GameMode{sandbox, campaign})

	assert.Equal(t, "Alpha", f.state.SelectedSubmarine().Name)
	assert.Equal(t, "Beta", f.state.SelectedShuttle().Name)
	assert.Nil(t, f.state.SelectedEnemySubmarine())
	assert.Equal(t, 0, f.state.Version())
	assert.Equal(t, "seed-1", f.state.LevelSeed())
	assert.Equal(t, []string{"seed-1"}, f.levels.seeds)
}

func TestBootstrap_Fallbacks(t *testing.T) {
	cases := []struct {
		name        string
		subs        []Submarine
		wantSub     string
		wantShuttle string
	}{
		{name: "single full-size sub doubles as shuttle", subs: []Submarine{alpha}, wantSub: "Alpha", wantShuttle: "Alpha"},
		{name: "only shuttles", subs: []Submarine{beta}, wantSub: "Beta", wantShuttle: "Beta"},
		{name: "hidden and non-player subs are skipped", subs: []Submarine{hidden, wreck, gamma, beta}, wantSub: "Gamma", wantShuttle: "Beta"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.subs, []GameMode{sandbox})
			assert.Equal(t, tc.wantSub, f.state.SelectedSubmarine().Name)
			assert.Equal(t, tc.wantShuttle, f.state.SelectedShuttle().Name)
		})
	}
}

func TestBootstrap_EmptyCatalogFails(t *testing.T) {
	for name, subs := range map[string][]Submarine{
		"empty":       nil,
		"all hidden":  {hidden},
		"only wrecks": {wreck},
	} {
		t.Run(name, func(t *testing.T) {
			s, err := New(Deps{
				Catalog:  fakeCatalog(subs),
				Modes:    []GameMode{sandbox},
				Settings: &fakeSettings{},
				Campaign: &fakeCampaign{},
				Seeds:    &fakeSeeds{},
			})
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, s)
		})
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Deps{Modes: []GameMode{sandbox}})
	require.ErrorIs(t, err, ErrMissingDependency)
}

func TestNew_InitialModeAndMissionTypes(t *testing.T) {
	s, err := New(Deps{
		Catalog:      fakeCatalog{alpha},
		Modes:        DefaultGameModes,
		Settings:     &fakeSettings{},
		Campaign:     &fakeCampaign{},
		Seeds:        &fakeSeeds{},
		InitialMode:  ModePvP,
		MissionTypes: []string{"Salvage", "monster", "salvage"},
	})
	require.NoError(t, err)
	assert.Equal(t, ModePvP, s.SelectedMode().Identifier)
	assert.Equal(t, []string{"monster", "salvage"}, s.MissionTypes())
	assert.Equal(t, 0, s.Version())
}

func TestMutators_AdvanceVersionByOne(t *testing.T) {
	f := newFixture(t, []Submarine{alpha, beta, gamma}, []GameMode{sandbox, campaign})
	g := gamma

	steps := []func(){
		func() { f.state.SetSelectedSubmarine(&g) },
		func() { f.state.SetSelectedShuttle(&g) },
		func() { f.state.SetSelectedEnemySubmarine(&g) },
		func() { f.state.SetSelectedEnemySubmarine(nil) },
		func() { f.state.SetSelectedModeIndex(1) },
		func() { f.state.SetSelectedModeIndex(1) },
		func() { f.state.SetLevelSeed("fresh") },
		func() { f.state.SetAllowedMissionTypes([]string{"salvage"}) },
		func() { f.state.ToggleCampaignMode(false) },
		func() { f.state.SetRadiationEnabled(false) },
	}
	for i, step := range steps {
		before := f.state.Version()
		step()
		require.Equalf(t, before+1, f.state.Version(), "step %d", i)
	}

	v := f.state.Version()
	_ = f.state.Snapshot()
	_ = f.state.SelectedMode()
	_ = f.state.MissionTypes()
	_ = f.state.SubmarineList()
	assert.Equal(t, v, f.state.Version(), "reads must not advance the version")
}

func TestSetLevelSeed_SameSeedIsNoop(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox})
	before := f.state.Version()

	f.state.SetLevelSeed("abc")
	f.state.SetLevelSeed("abc")

	assert.Equal(t, before+1, f.state.Version())
	assert.Equal(t, []string{"seed-1", "abc"}, f.levels.seeds)
}

func TestSetSelectedModeIndex_Clamps(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox, campaign, {Identifier: ModePvP}})

	for _, tc := range []struct{ in, want int }{
		{-100, 0}, {-1, 0}, {0, 0}, {2, 2}, {3, 2}, {1 << 30, 2},
	} {
		f.state.SetSelectedModeIndex(tc.in)
		assert.Equalf(t, tc.want, f.state.SelectedModeIndex(), "input %d", tc.in)
	}
	assert.Equal(t, ModePvP, f.settings.modeID)
}

func TestSetSelectedModeIndex_CampaignGuard(t *testing.T) {
	cases := []struct {
		name       string
		selected   bool
		index      int
		wantActive bool
	}{
		{name: "non-campaign mode clears campaign", selected: true, index: 0, wantActive: false},
		{name: "campaign mode keeps campaign", selected: true, index: 1, wantActive: true},
		{name: "inactive lobby keeps campaign", selected: false, index: 0, wantActive: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, []Submarine{alpha, beta}, []GameMode{sandbox, campaign})
			f.state.ToggleCampaignMode(true)
			if tc.selected {
				f.state.OnLobbySelected(nil)
			}
			f.campaign.active = true
			before := f.state.Version()

			f.state.SetSelectedModeIndex(tc.index)

			assert.Equal(t, tc.wantActive, f.campaign.active)
			assert.Equal(t, before+1, f.state.Version())
		})
	}
}

func TestSetSelectedModeByIdentifier(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox, campaign})

	f.state.SetSelectedModeByIdentifier(ModeSandbox)
	assert.Equal(t, 0, f.state.Version(), "already selected")

	before := f.state.Snapshot()
	f.state.SetSelectedModeByIdentifier("nonexistent")
	assert.Equal(t, 0, f.state.Version())
	assert.Equal(t, before, f.state.Snapshot())
	assert.Zero(t, f.settings.detailsDirty)

	f.state.SetSelectedModeByIdentifier(ModeMultiPlayerCampaign)
	assert.Equal(t, 1, f.state.Version())
	assert.Equal(t, 1, f.state.SelectedModeIndex())
	assert.Equal(t, ModeMultiPlayerCampaign, f.settings.modeID)
}

func TestSetAllowedMissionTypes_PropagatesToSettings(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox})

	f.state.SetAllowedMissionTypes([]string{"salvage", "Monster", "cargo"})

	assert.Equal(t, "cargo,monster,salvage", f.settings.missionTypes)
	assert.Equal(t, 1, f.settings.detailsDirty)
	assert.Equal(t, []string{"cargo", "monster", "salvage"}, f.state.Snapshot().MissionTypes)
}

func TestScenario_CampaignToggleBackToSandbox(t *testing.T) {
	f := newFixture(t, []Submarine{alpha, beta}, []GameMode{sandbox, campaign})
	require.Equal(t, "Alpha", f.state.SelectedSubmarine().Name)
	require.Equal(t, "Beta", f.state.SelectedShuttle().Name)

	f.state.SetSelectedModeIndex(1)
	f.state.ToggleCampaignMode(false)

	assert.Equal(t, 0, f.state.SelectedModeIndex())
	assert.Equal(t, 2, f.state.Version())
}

func TestToggleCampaignMode_BypassesGuard(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox, campaign})
	f.state.OnLobbySelected(nil)
	f.state.ToggleCampaignMode(true)
	f.campaign.active = true

	f.state.ToggleCampaignMode(false)

	assert.True(t, f.campaign.active)
	assert.Equal(t, 0, f.state.SelectedModeIndex())
}

func TestOnLobbySelected(t *testing.T) {
	f := newFixture(t, []Submarine{alpha, beta}, []GameMode{sandbox, campaign})
	f.campaign.active = true

	f.state.OnLobbySelected([]string{"c1", "c2"})

	assert.True(t, f.state.IsSelected())
	assert.Equal(t, []string{"c1", "c2"}, f.votes.participants)
	assert.False(t, f.votes.resetKick)
	assert.False(t, f.campaign.active, "sandbox is selected so the campaign ends")
	assert.Equal(t, "Alpha", f.settings.selectedSub)
	assert.Equal(t, 0, f.state.Version())

	f.settings.selectedSub = "Persisted"
	f.state.OnLobbySelected(nil)
	assert.Equal(t, "Persisted", f.settings.selectedSub)

	f.state.Deselect()
	assert.False(t, f.state.IsSelected())
}

func TestRandomizeSettings(t *testing.T) {
	subs := []Submarine{alpha, beta, gamma, hidden}
	modes := []GameMode{sandbox, campaign, {Identifier: ModePvP}, {Identifier: ModeTutorial, IsSinglePlayer: true}}

	t.Run("campaign running only rerolls seed", func(t *testing.T) {
		f := newFixture(t, subs, modes)
		f.settings.randomizeSeed = true
		f.settings.subMode = SelectionRandom
		f.settings.modeMode = SelectionRandom
		f.campaign.active = true
		before := f.state.Snapshot()

		require.NoError(t, f.state.RandomizeSettings())

		after := f.state.Snapshot()
		assert.Equal(t, "seed-2", after.LevelSeed)
		assert.Equal(t, before.Submarine, after.Submarine)
		assert.Equal(t, before.ModeIndex, after.ModeIndex)
		assert.Equal(t, 1, f.state.Version())
		assert.Zero(t, f.settings.reconciled)
	})

	t.Run("random sub and mode", func(t *testing.T) {
		f := newFixture(t, subs, modes)
		f.settings.subMode = SelectionRandom
		f.settings.modeMode = SelectionRandom
		f.state.picker = fixedPicker(1)

		require.NoError(t, f.state.RandomizeSettings())

		// candidates: subs [Alpha, Gamma], modes [sandbox, pvp]
		assert.Equal(t, "Gamma", f.state.SelectedSubmarine().Name)
		assert.Equal(t, ModePvP, f.state.SelectedMode().Identifier)
		assert.Equal(t, "seed-1", f.state.LevelSeed())
		assert.Equal(t, 1, f.settings.reconciled)
	})

	t.Run("manual selection leaves everything", func(t *testing.T) {
		f := newFixture(t, subs, modes)
		f.settings.subMode = SelectionManual
		f.settings.modeMode = SelectionVote

		require.NoError(t, f.state.RandomizeSettings())
		assert.Equal(t, 0, f.state.Version())
		assert.Equal(t, 1, f.settings.reconciled)
	})
}

func TestRandomizeSettings_EmptyCandidates(t *testing.T) {
	t.Run("no full-size subs", func(t *testing.T) {
		f := newFixture(t, []Submarine{beta}, []GameMode{sandbox})
		f.settings.subMode = SelectionRandom
		err := f.state.RandomizeSettings()
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("no multiplayer modes", func(t *testing.T) {
		f := newFixture(t, []Submarine{alpha}, []GameMode{campaign, {Identifier: ModeTutorial, IsSinglePlayer: true}})
		f.settings.modeMode = SelectionRandom
		err := f.state.RandomizeSettings()
		require.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestNew_DefaultPicker(t *testing.T) {
	settings := &fakeSettings{subMode: SelectionRandom}
	s, err := New(Deps{
		Catalog:  fakeCatalog{alpha, beta, gamma},
		Modes:    []GameMode{sandbox},
		Settings: settings,
		Campaign: &fakeCampaign{},
		Seeds:    &fakeSeeds{},
	})
	require.NoError(t, err)
	assert.Equal(t, random.MathPicker{}, s.picker)

	for range 20 {
		require.NoError(t, s.RandomizeSettings())
		assert.Contains(t, []string{"Alpha", "Gamma"}, s.SelectedSubmarine().Name)
	}
}

type failingSeeds struct{}

func (failingSeeds) NewToken(int) (string, error) { return "", errors.New("entropy exhausted") }

func TestRandomizeSettings_SeedError(t *testing.T) {
	f := newFixture(t, []Submarine{alpha}, []GameMode{sandbox})
	f.state.seeds = failingSeeds{}
	f.settings.randomizeSeed = true

	require.Error(t, f.state.RandomizeSettings())
	assert.Equal(t, 0, f.state.Version())
}

func TestApply(t *testing.T) {
	cases := []struct {
		name        string
		cmd         Command
		wantErr     error
		wantVersion int
	}{
		{name: "select submarine", cmd: Command{Type: CmdSelectSubmarine, Name: "Gamma"}, wantVersion: 1},
		{name: "select unknown submarine", cmd: Command{Type: CmdSelectSubmarine, Name: "Nope"}, wantErr: ErrUnknownSubmarine},
		{name: "select shuttle", cmd: Command{Type: CmdSelectShuttle, Name: "Beta"}, wantVersion: 1},
		{name: "select enemy", cmd: Command{Type: CmdSelectEnemySubmarine, Name: "Wreck"}, wantVersion: 1},
		{name: "clear enemy", cmd: Command{Type: CmdSelectEnemySubmarine}, wantVersion: 1},
		{name: "select mode", cmd: Command{Type: CmdSelectMode, Name: ModeMultiPlayerCampaign}, wantVersion: 1},
		{name: "select unknown mode", cmd: Command{Type: CmdSelectMode, Name: "nonexistent"}},
		{name: "select mode index", cmd: Command{Type: CmdSelectModeIndex, Index: 7}, wantVersion: 1},
		{name: "empty seed", cmd: Command{Type: CmdSetLevelSeed}, wantErr: ErrInvalidSeed},
		{name: "seed", cmd: Command{Type: CmdSetLevelSeed, Seed: "xyz"}, wantVersion: 1},
		{name: "mission types", cmd: Command{Type: CmdSetMissionTypes, MissionTypes: []string{"cargo"}}, wantVersion: 1},
		{name: "toggle campaign", cmd: Command{Type: CmdToggleCampaign, Enabled: true}, wantVersion: 1},
		{name: "radiation", cmd: Command{Type: CmdSetRadiation}, wantVersion: 1},
		{name: "unsupported", cmd: Command{Type: "Explode"}, wantErr: ErrUnsupportedCommand},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, []Submarine{alpha, beta, gamma, wreck}, []GameMode{sandbox, campaign})
			err := f.state.Apply(tc.cmd)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, f.state.Version())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantVersion, f.state.Version())
		})
	}
}

func TestMissionTypeSerialization(t *testing.T) {
	assert.Equal(t, "cargo,salvage", JoinMissionTypes([]string{" Salvage", "cargo", "", "salvage"}))
	assert.Equal(t, []string{"cargo", "monster"}, SplitMissionTypes("monster, cargo,,"))
	assert.Empty(t, SplitMissionTypes(""))
}
