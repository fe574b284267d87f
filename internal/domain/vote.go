package domain

// SkipVote is the vote choice that names no suspect
const SkipVote = "skip"

// Meeting timers in seconds, fixed at meeting creation and on voting start
const (
	DiscussionSeconds = 45
	VotingSeconds     = 30
)

// MeetingState is present only while the game status is meeting
type MeetingState struct {
	Caller         string            `json:"caller,omitempty"` // empty when unknown
	Phase          MeetingPhase      `json:"phase"`
	TimeRemaining  int               `json:"timeRemaining"`
	Votes          map[string]string `json:"votes"` // voter ID -> suspect ID or SkipVote
	ReportLocation *Position         `json:"reportLocation,omitempty"`
}

// clone returns a copy that shares nothing mutable with m
func (m *MeetingState) clone() *MeetingState {
	c := *m
	c.Votes = make(map[string]string, len(m.Votes))
	for voter, suspect := range m.Votes {
		c.Votes[voter] = suspect
	}
	if m.ReportLocation != nil {
		loc := *m.ReportLocation
		c.ReportLocation = &loc
	}
	return &c
}

// HasVoted checks if a voter already has a vote recorded
func (m *MeetingState) HasVoted(voterID string) bool {
	_, ok := m.Votes[voterID]
	return ok
}

// VoteResult represents the voting results for display
type VoteResult struct {
	TargetID  string   `json:"targetId"` // player ID or SkipVote
	VoteCount int      `json:"voteCount"`
	VotedBy   []string `json:"votedBy"` // voter IDs
}

// TallyVotes groups votes by target, ordered by first appearance in voterOrder.
// Voters missing from voterOrder are appended in no particular order.
func TallyVotes(votes map[string]string, voterOrder []string) []VoteResult {
	index := make(map[string]int)
	results := make([]VoteResult, 0)
	seen := make(map[string]bool, len(votes))

	add := func(voterID string) {
		target, ok := votes[voterID]
		if !ok || seen[voterID] {
			return
		}
		seen[voterID] = true
		i, ok := index[target]
		if !ok {
			i = len(results)
			index[target] = i
			results = append(results, VoteResult{TargetID: target})
		}
		results[i].VoteCount++
		results[i].VotedBy = append(results[i].VotedBy, voterID)
	}

	for _, voterID := range voterOrder {
		add(voterID)
	}
	for voterID := range votes {
		add(voterID)
	}

	return results
}
