package session

import "sync"

type VoteKind string

const (
	VoteSubmarine VoteKind = "submarine"
	VoteMode      VoteKind = "mode"
)

// Votes tracks what each participant voted for. Kick votes are kept apart
// because they survive lobby activation.
type Votes struct {
	mu    sync.Mutex
	votes map[string]map[VoteKind]string
	kicks map[string]map[string]struct{} // voter -> targets
}

func NewVotes() *Votes {
	return &Votes{
		votes: make(map[string]map[VoteKind]string),
		kicks: make(map[string]map[string]struct{}),
	}
}

func (v *Votes) Cast(clientID string, kind VoteKind, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.votes[clientID] == nil {
		v.votes[clientID] = make(map[VoteKind]string)
	}
	v.votes[clientID][kind] = value
}

func (v *Votes) Kick(voter, target string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.kicks[voter] == nil {
		v.kicks[voter] = make(map[string]struct{})
	}
	v.kicks[voter][target] = struct{}{}
}

// ResetVotes clears the votes of participants. Kick votes go only when
// resetKickVotes is set.
func (v *Votes) ResetVotes(participants []string, resetKickVotes bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range participants {
		delete(v.votes, p)
		if resetKickVotes {
			delete(v.kicks, p)
		}
	}
}

// Tally counts votes of kind per value.
func (v *Votes) Tally(kind VoteKind) map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]int)
	for _, byKind := range v.votes {
		if value, ok := byKind[kind]; ok {
			out[value]++
		}
	}
	return out
}

func (v *Votes) KickCount(target string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, targets := range v.kicks {
		if _, ok := targets[target]; ok {
			n++
		}
	}
	return n
}
