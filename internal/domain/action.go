package domain

import (
	"encoding/json"
	"fmt"
)

// ActionType names a state transition
type ActionType string

const (
	ActionJoinGame             ActionType = "JOIN_GAME"
	ActionLeaveGame            ActionType = "LEAVE_GAME"
	ActionAssignRoles          ActionType = "ASSIGN_ROLES"
	ActionStartGame            ActionType = "START_GAME"
	ActionUpdatePlayerPosition ActionType = "UPDATE_PLAYER_POSITION"
	ActionCompleteTask         ActionType = "COMPLETE_TASK"
	ActionKillPlayer           ActionType = "KILL_PLAYER"
	ActionCallMeeting          ActionType = "CALL_MEETING"
	ActionReportBody           ActionType = "REPORT_BODY"
	ActionStartVoting          ActionType = "START_VOTING"
	ActionCastVote             ActionType = "CAST_VOTE"
	ActionEndMeeting           ActionType = "END_MEETING"
	ActionEndGame              ActionType = "END_GAME"
)

// Action is an input to Reduce
type Action interface {
	Type() ActionType
}

// JoinGame appends a player; the player joins alive
type JoinGame struct {
	Player Player
}

// LeaveGame removes a player
type LeaveGame struct {
	PlayerID string
}

// AssignRoles sets the role of each listed player
type AssignRoles struct {
	Roles map[string]Role
}

// StartGame moves the game in progress and revives everyone
type StartGame struct{}

// UpdatePlayerPosition moves a player
type UpdatePlayerPosition struct {
	PlayerID string
	Position Position
}

// CompleteTask marks a task as done
type CompleteTask struct {
	TaskID   string
	PlayerID string
}

// KillPlayer marks the target dead
type KillPlayer struct {
	TargetID string
}

// CallMeeting opens an emergency meeting
type CallMeeting struct {
	CallerID string
}

// ReportBody opens a meeting at the location of a body
type ReportBody struct {
	ReporterID string
	Location   Position
}

// StartVoting ends the discussion phase of the active meeting
type StartVoting struct{}

// CastVote records a voter's choice, replacing any earlier one
type CastVote struct {
	VoterID   string
	SuspectID string // player ID or SkipVote
}

// EndMeeting closes the active meeting, ejecting EjectedID when set
type EndMeeting struct {
	EjectedID string
}

// EndGame declares a winner directly
type EndGame struct {
	Winner Team
}

func (JoinGame) Type() ActionType             { return ActionJoinGame }
func (LeaveGame) Type() ActionType            { return ActionLeaveGame }
func (AssignRoles) Type() ActionType          { return ActionAssignRoles }
func (StartGame) Type() ActionType            { return ActionStartGame }
func (UpdatePlayerPosition) Type() ActionType { return ActionUpdatePlayerPosition }
func (CompleteTask) Type() ActionType         { return ActionCompleteTask }
func (KillPlayer) Type() ActionType           { return ActionKillPlayer }
func (CallMeeting) Type() ActionType          { return ActionCallMeeting }
func (ReportBody) Type() ActionType           { return ActionReportBody }
func (StartVoting) Type() ActionType          { return ActionStartVoting }
func (CastVote) Type() ActionType             { return ActionCastVote }
func (EndMeeting) Type() ActionType           { return ActionEndMeeting }
func (EndGame) Type() ActionType              { return ActionEndGame }

// actionEnvelope is the flat JSON form of every action
type actionEnvelope struct {
	Type       ActionType      `json:"type"`
	Player     *Player         `json:"player,omitempty"`
	PlayerID   string          `json:"playerId,omitempty"`
	Roles      map[string]Role `json:"roles,omitempty"`
	Position   *Position       `json:"position,omitempty"`
	TaskID     string          `json:"taskId,omitempty"`
	TargetID   string          `json:"targetId,omitempty"`
	CallerID   string          `json:"callerId,omitempty"`
	ReporterID string          `json:"reporterId,omitempty"`
	Location   *Position       `json:"location,omitempty"`
	VoterID    string          `json:"voterId,omitempty"`
	SuspectID  string          `json:"suspectId,omitempty"`
	EjectedID  string          `json:"ejectedId,omitempty"`
	Winner     Team            `json:"winner,omitempty"`
}

// DecodeAction parses the JSON form of an action
func DecodeAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch env.Type {
	case ActionJoinGame:
		if env.Player == nil {
			return nil, fmt.Errorf("decode %s: missing player", env.Type)
		}
		return JoinGame{Player: *env.Player}, nil
	case ActionLeaveGame:
		return LeaveGame{PlayerID: env.PlayerID}, nil
	case ActionAssignRoles:
		return AssignRoles{Roles: env.Roles}, nil
	case ActionStartGame:
		return StartGame{}, nil
	case ActionUpdatePlayerPosition:
		a := UpdatePlayerPosition{PlayerID: env.PlayerID}
		if env.Position != nil {
			a.Position = *env.Position
		}
		return a, nil
	case ActionCompleteTask:
		return CompleteTask{TaskID: env.TaskID, PlayerID: env.PlayerID}, nil
	case ActionKillPlayer:
		return KillPlayer{TargetID: env.TargetID}, nil
	case ActionCallMeeting:
		return CallMeeting{CallerID: env.CallerID}, nil
	case ActionReportBody:
		a := ReportBody{ReporterID: env.ReporterID}
		if env.Location != nil {
			a.Location = *env.Location
		}
		return a, nil
	case ActionStartVoting:
		return StartVoting{}, nil
	case ActionCastVote:
		return CastVote{VoterID: env.VoterID, SuspectID: env.SuspectID}, nil
	case ActionEndMeeting:
		return EndMeeting{EjectedID: env.EjectedID}, nil
	case ActionEndGame:
		return EndGame{Winner: env.Winner}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
}

// EncodeAction returns the JSON form of an action
func EncodeAction(action Action) ([]byte, error) {
	env := actionEnvelope{}

	switch a := action.(type) {
	case JoinGame:
		env.Player = &a.Player
	case LeaveGame:
		env.PlayerID = a.PlayerID
	case AssignRoles:
		env.Roles = a.Roles
	case StartGame, StartVoting:
	case UpdatePlayerPosition:
		env.PlayerID = a.PlayerID
		env.Position = &a.Position
	case CompleteTask:
		env.TaskID = a.TaskID
		env.PlayerID = a.PlayerID
	case KillPlayer:
		env.TargetID = a.TargetID
	case CallMeeting:
		env.CallerID = a.CallerID
	case ReportBody:
		env.ReporterID = a.ReporterID
		env.Location = &a.Location
	case CastVote:
		env.VoterID = a.VoterID
		env.SuspectID = a.SuspectID
	case EndMeeting:
		env.EjectedID = a.EjectedID
	case EndGame:
		env.Winner = a.Winner
	default:
		return nil, ErrUnknownAction
	}

	env.Type = action.Type()
	return json.Marshal(env)
}
