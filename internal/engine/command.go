package engine

type CommandType string

const (
	CmdSelectSubmarine      CommandType = "SelectSubmarine"
	CmdSelectShuttle        CommandType = "SelectShuttle"
	CmdSelectEnemySubmarine CommandType = "SelectEnemySubmarine"
	CmdSelectMode           CommandType = "SelectMode"
	CmdSelectModeIndex      CommandType = "SelectModeIndex"
	CmdSetLevelSeed         CommandType = "SetLevelSeed"
	CmdSetMissionTypes      CommandType = "SetMissionTypes"
	CmdToggleCampaign       CommandType = "ToggleCampaign"
	CmdSetRadiation         CommandType = "SetRadiation"
)

// Command is a lobby mutation requested from outside the host, by name rather
// than by reference.
type Command struct {
	Type         CommandType
	Name         string // submarine name or mode identifier
	Index        int
	Seed         string
	MissionTypes []string
	Enabled      bool
}

// Apply resolves cmd against the catalogs and runs the matching mutator.
// Submarine names must exist in the catalog; an empty enemy name clears it.
func (l *LobbyState) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdSelectSubmarine:
		sub, err := l.findSubmarine(cmd.Name)
		if err != nil {
			return err
		}
		l.SetSelectedSubmarine(sub)

	case CmdSelectShuttle:
		sub, err := l.findSubmarine(cmd.Name)
		if err != nil {
			return err
		}
		l.SetSelectedShuttle(sub)

	case CmdSelectEnemySubmarine:
		if cmd.Name == "" {
			l.SetSelectedEnemySubmarine(nil)
			return nil
		}
		sub, err := l.findSubmarine(cmd.Name)
		if err != nil {
			return err
		}
		l.SetSelectedEnemySubmarine(sub)

	case CmdSelectMode:
		l.SetSelectedModeByIdentifier(cmd.Name)

	case CmdSelectModeIndex:
		l.SetSelectedModeIndex(cmd.Index)

	case CmdSetLevelSeed:
		if cmd.Seed == "" {
			return ErrInvalidSeed
		}
		l.SetLevelSeed(cmd.Seed)

	case CmdSetMissionTypes:
		l.SetAllowedMissionTypes(cmd.MissionTypes)

	case CmdToggleCampaign:
		l.ToggleCampaignMode(cmd.Enabled)

	case CmdSetRadiation:
		l.SetRadiationEnabled(cmd.Enabled)

	default:
		return ErrUnsupportedCommand
	}
	return nil
}

func (l *LobbyState) findSubmarine(name string) (*Submarine, error) {
	for _, s := range l.catalog.ListSaved() {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, ErrUnknownSubmarine
}
