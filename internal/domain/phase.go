package domain

// GameStatus represents the current status of a game
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"     // Lobby, players joining
	StatusStarting   GameStatus = "starting"    // Declared, never entered
	StatusInProgress GameStatus = "in-progress" // Players moving and doing tasks
	StatusMeeting    GameStatus = "meeting"     // Emergency meeting in session
	StatusCompleted  GameStatus = "completed"   // Winner decided
)

// String returns the string representation of the status
func (s GameStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves this status
func (s GameStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// MeetingPhase represents the current phase of an emergency meeting
type MeetingPhase string

const (
	MeetingDiscussion MeetingPhase = "discussion"
	MeetingVoting     MeetingPhase = "voting"
)

// String returns the string representation of the meeting phase
func (p MeetingPhase) String() string {
	return string(p)
}
