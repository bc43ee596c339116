package engine

const (
	ModeDevSandbox           = "devsandbox"
	ModeSandbox              = "sandbox"
	ModeMission              = "mission"
	ModePvP                  = "pvp"
	ModeMultiPlayerCampaign  = "multiplayercampaign"
	ModeSinglePlayerCampaign = "singleplayercampaign"
	ModeTutorial             = "tutorial"
)

type GameMode struct {
	Identifier     string
	Name           string
	IsSinglePlayer bool
	IsCampaign     bool
}

// IsMultiPlayerCampaign reports whether m is the mode a hosted campaign runs in.
func (m GameMode) IsMultiPlayerCampaign() bool {
	return m.IsCampaign && !m.IsSinglePlayer
}

// DefaultGameModes is ordered so that the first non-campaign mode is sandbox.
var DefaultGameModes = []GameMode{
	{Identifier: ModeSandbox, Name: "Sandbox"},
	{Identifier: ModeMission, Name: "Mission"},
	{Identifier: ModePvP, Name: "Player vs Player"},
	{Identifier: ModeMultiPlayerCampaign, Name: "Campaign", IsCampaign: true},
	{Identifier: ModeSinglePlayerCampaign, Name: "Single Player Campaign", IsSinglePlayer: true, IsCampaign: true},
	{Identifier: ModeTutorial, Name: "Tutorial", IsSinglePlayer: true},
	{Identifier: ModeDevSandbox, Name: "Dev Sandbox", IsSinglePlayer: true},
}
