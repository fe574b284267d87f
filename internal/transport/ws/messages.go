package ws

import (
	"encoding/json"
	"errors"
	"time"

	"codeamongus/internal/challenge"
	"codeamongus/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinGame       MessageType = "join_game"
	MsgStartGame      MessageType = "start_game"
	MsgMove           MessageType = "move"
	MsgSubmitSolution MessageType = "submit_solution"
	MsgKillPlayer     MessageType = "kill_player"
	MsgReportBody     MessageType = "report_body"
	MsgCallMeeting    MessageType = "call_meeting"
	MsgCastVote       MessageType = "cast_vote"
	MsgPing           MessageType = "ping"
)

// Server → Client message types. Game events are forwarded as they are.
const (
	MsgConnected      MessageType = "connected"
	MsgError          MessageType = "error"
	MsgSolutionResult MessageType = "solution_result"
	MsgPong           MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinGamePayload is the payload for join_game message
type JoinGamePayload struct {
	Username string `json:"username"`
}

// MovePayload is the payload for move message
type MovePayload struct {
	Direction string `json:"direction"`
}

// SubmitSolutionPayload is the payload for submit_solution message
type SubmitSolutionPayload struct {
	TaskID string `json:"taskId"`
	Code   string `json:"code"`
}

// TargetPayload is the payload for kill_player and cast_vote messages
type TargetPayload struct {
	TargetID string `json:"targetId"`
}

// ReportBodyPayload is the payload for report_body message
type ReportBodyPayload struct {
	BodyID string `json:"bodyId"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID  string           `json:"playerId"`
	GameID    string           `json:"gameId"`
	GameState domain.GameState `json:"gameState"`
}

// SolutionResultPayload is the payload for solution_result message
type SolutionResultPayload struct {
	TaskID string           `json:"taskId"`
	Result challenge.Result `json:"result"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeGameNotFound     = "GAME_NOT_FOUND"
	ErrCodeGameFull         = "GAME_FULL"
	ErrCodeGameStarted      = "GAME_STARTED"
	ErrCodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	ErrCodeNotHost          = "NOT_HOST"
	ErrCodeInvalidAction    = "INVALID_ACTION"
	ErrCodeNotJoined        = "NOT_JOINED"
	ErrCodePlayerDead       = "PLAYER_DEAD"
	ErrCodeWrongRole        = "WRONG_ROLE"
	ErrCodeInvalidTarget    = "INVALID_TARGET"
	ErrCodeTooFar           = "TOO_FAR"
	ErrCodeKillCooldown     = "KILL_COOLDOWN"
	ErrCodeNoMeetingsLeft   = "NO_MEETINGS_LEFT"
	ErrCodeAlreadyVoted     = "ALREADY_VOTED"
	ErrCodeTaskNotFound     = "TASK_NOT_FOUND"
	ErrCodeTaskCompleted    = "TASK_COMPLETED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrGameNotFound, ErrCodeGameNotFound},
	{domain.ErrGameFull, ErrCodeGameFull},
	{domain.ErrGameAlreadyStarted, ErrCodeGameStarted},
	{domain.ErrNotEnoughPlayers, ErrCodeNotEnoughPlayers},
	{domain.ErrNotHost, ErrCodeNotHost},
	{domain.ErrInvalidPhase, ErrCodeInvalidAction},
	{domain.ErrPlayerNotFound, ErrCodeNotJoined},
	{domain.ErrPlayerExists, ErrCodeInvalidAction},
	{domain.ErrPlayerDead, ErrCodePlayerDead},
	{domain.ErrWrongRole, ErrCodeWrongRole},
	{domain.ErrInvalidTargetID, ErrCodeInvalidTarget},
	{domain.ErrTooFar, ErrCodeTooFar},
	{domain.ErrKillCooldown, ErrCodeKillCooldown},
	{domain.ErrNoMeetingsLeft, ErrCodeNoMeetingsLeft},
	{domain.ErrAlreadyVoted, ErrCodeAlreadyVoted},
	{domain.ErrTaskNotFound, ErrCodeTaskNotFound},
	{domain.ErrTaskCompleted, ErrCodeTaskCompleted},
}

// errorCode maps a domain error to its wire code
func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ErrCodeInternalError
}
