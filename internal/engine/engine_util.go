package engine

import (
	"slices"
	"strings"
)

// JoinMissionTypes serializes a mission type set the way server settings
// store it.
func JoinMissionTypes(types []string) string {
	return strings.Join(normalizeMissionTypes(types), ",")
}

func SplitMissionTypes(s string) []string {
	return normalizeMissionTypes(strings.Split(s, ","))
}

func normalizeMissionTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func filterSubmarines(subs []Submarine, keep func(Submarine) bool) []Submarine {
	out := make([]Submarine, 0, len(subs))
	for _, s := range subs {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func usableInMenus(s Submarine) bool {
	return s.IsPlayer() && !s.HasTag(TagHideInMenus)
}

func subName(s *Submarine) string {
	if s == nil {
		return ""
	}
	return s.Name
}

type noVotes struct{}

func (noVotes) ResetVotes([]string, bool) {}

type noLevels struct{}

func (noLevels) OnLevelSeedChanged(string) {}
