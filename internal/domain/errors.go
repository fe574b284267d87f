package domain

import "errors"

// Domain errors. The reducer never returns these; they are raised by the
// policy checks that run before an action is dispatched.
var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameFull           = errors.New("game is full")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrInvalidPhase       = errors.New("invalid action for current phase")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerExists       = errors.New("player already joined")
	ErrNotHost            = errors.New("only host can perform this action")
	ErrPlayerDead         = errors.New("player is not alive")
	ErrWrongRole          = errors.New("role cannot perform this action")
	ErrInvalidTargetID    = errors.New("invalid target")
	ErrTooFar             = errors.New("target is out of range")
	ErrKillCooldown       = errors.New("kill is on cooldown")
	ErrNoMeetingsLeft     = errors.New("no emergency meetings left")
	ErrAlreadyVoted       = errors.New("already voted this meeting")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskCompleted      = errors.New("task already completed")
	ErrUnknownAction      = errors.New("unknown action type")
)
