package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventPlayerJoined      EventType = "PLAYER_JOINED"
	EventPlayerLeft        EventType = "PLAYER_LEFT"
	EventPlayerReconnected EventType = "PLAYER_RECONNECTED"
	EventGameStarted       EventType = "GAME_STARTED"
	EventRoleAssigned      EventType = "ROLE_ASSIGNED"
	EventStateUpdated      EventType = "STATE_UPDATED"
	EventTaskCompleted     EventType = "TASK_COMPLETED"
	EventPlayerKilled      EventType = "PLAYER_KILLED"
	EventMeetingCalled     EventType = "MEETING_CALLED"
	EventVotingStarted     EventType = "VOTING_STARTED"
	EventMeetingCountdown  EventType = "MEETING_COUNTDOWN"
	EventVoteCast          EventType = "VOTE_CAST"
	EventMeetingEnded      EventType = "MEETING_ENDED"
	EventGameEnded         EventType = "GAME_ENDED"
)

// GameEvent represents an event that occurred in the game
type GameEvent struct {
	Type      EventType   `json:"type"`
	GameID    string      `json:"gameId"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new game event
func NewEvent(eventType EventType, gameID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new player-specific game event
func NewPlayerEvent(eventType EventType, gameID, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// LobbyUpdatePayload is sent when lobby membership changes
type LobbyUpdatePayload struct {
	Players  []PlayerInfo `json:"players"`
	HostID   string       `json:"hostId"`
	CanStart bool         `json:"canStart"`
}

// RoleAssignedPayload is sent to each player with their role
type RoleAssignedPayload struct {
	Role      Role     `json:"role"`
	Impostors []string `json:"impostors,omitempty"` // Only for impostors
}

// TaskCompletedPayload is sent when a task is solved
type TaskCompletedPayload struct {
	TaskID    string `json:"taskId"`
	PlayerID  string `json:"playerId"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// PlayerKilledPayload is sent when a player dies outside a meeting
type PlayerKilledPayload struct {
	PlayerID string `json:"playerId"`
}

// MeetingCalledPayload is sent when a meeting opens
type MeetingCalledPayload struct {
	CallerID       string       `json:"callerId"`
	ReportLocation *Position    `json:"reportLocation,omitempty"`
	Phase          MeetingPhase `json:"phase"`
	TimeRemaining  int          `json:"timeRemaining"`
}

// MeetingCountdownPayload is sent every second during a meeting
type MeetingCountdownPayload struct {
	Phase         MeetingPhase `json:"phase"`
	TimeRemaining int          `json:"timeRemaining"`
}

// VoteUpdatePayload is sent when a vote is cast (without revealing who)
type VoteUpdatePayload struct {
	VotedCount  int `json:"votedCount"`
	TotalVoters int `json:"totalVoters"`
}

// MeetingEndedPayload is sent when a meeting resolves
type MeetingEndedPayload struct {
	Votes     []VoteResult `json:"votes"`
	EjectedID string       `json:"ejectedId,omitempty"`
	Ejected   *PlayerInfo  `json:"ejected,omitempty"`
}

// GameEndedPayload is sent when a winner is decided
type GameEndedPayload struct {
	Winner  Team     `json:"winner"`
	Players []Player `json:"players"` // Roles revealed
}
