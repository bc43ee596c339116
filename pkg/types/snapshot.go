package types

// StateSnapshot:
//   version: number             // bumps on every visible lobby change
//   state:
//     submarine: string
//     shuttle: string
//     enemy_submarine: string   // optional
//     mode_index: number
//     mode: string              // game mode identifier
//     level_seed: string
//     mission_types: string[]   // sorted, lower-case
//     radiation_enabled: boolean
