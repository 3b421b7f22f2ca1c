package radio

import "sync"

// VoteSkip tracks one skip vote. Eligible voters are snapshotted from the
// bot's voice channel when the vote starts; votes are idempotent per user and
// the skip fires once at ceil(eligible/2).
type VoteSkip struct {
	mu       sync.Mutex
	eligible map[string]bool
	voted    map[string]bool
	fired    bool
}

func NewVoteSkip(eligibleVoterIDs []string) *VoteSkip {
	eligible := make(map[string]bool, len(eligibleVoterIDs))
	for _, id := range eligibleVoterIDs {
		eligible[id] = true
	}
	return &VoteSkip{
		eligible: eligible,
		voted:    make(map[string]bool),
	}
}

// Threshold is the number of votes required to skip.
func (v *VoteSkip) Threshold() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return (len(v.eligible) + 1) / 2
}

// Eligible reports whether a user was in the channel when the vote started.
func (v *VoteSkip) Eligible(userID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eligible[userID]
}

// Vote records a skip vote. It returns the vote tally and whether this vote
// just reached the threshold. Repeat votes from the same user and votes after
// the skip fired change nothing.
func (v *VoteSkip) Vote(userID string) (votes int, reached bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.eligible[userID] || v.fired {
		return len(v.voted), false
	}
	if v.voted[userID] {
		return len(v.voted), false
	}

	v.voted[userID] = true
	if len(v.voted)*2 >= len(v.eligible) {
		v.fired = true
		return len(v.voted), true
	}
	return len(v.voted), false
}

// Votes returns the current tally and the eligible voter count.
func (v *VoteSkip) Votes() (votes, eligible int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.voted), len(v.eligible)
}

// Done reports whether the skip already fired.
func (v *VoteSkip) Done() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fired
}
