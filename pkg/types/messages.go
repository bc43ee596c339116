package types

// Client -> Server
// SelectSubmarine | SelectShuttle:
//   name: string
//
// SelectEnemySubmarine:
//   name: string // empty clears
//
// SelectMode:
//   name: string // mode identifier, unknown ones are ignored
//
// SelectModeIndex:
//   index: number // clamped to the mode list
//
// SetLevelSeed:
//   seed: string
//
// SetMissionTypes:
//   mission_types: string[]
//
// ToggleCampaign | SetRadiation:
//   enabled: boolean
//
// Vote:
//   kind: "submarine" | "mode"
//   name: string

// Server -> Client
// StateSnapshot: see snapshot.go
//
// Error:
//   error: string
