package domain

import (
	"slices"
	"time"
)

// Interaction ranges on the map, in display units
const (
	InteractionDistance = 50  // Reach of a task station
	KillDistance        = 100 // Reach of an impostor's kill
	ReportDistance      = 150 // Reach of a body report
)

// GameSettings holds configurable game parameters
type GameSettings struct {
	MinPlayers          int           `json:"minPlayers"`
	MaxPlayers          int           `json:"maxPlayers"`
	NumImpostors        int           `json:"numImpostors"`
	TaskCompletionGoal  int           `json:"taskCompletionGoal"`
	EmergencyMeetings   int           `json:"emergencyMeetings"` // Per player
	KillCooldown        time.Duration `json:"killCooldown"`
	DiscussionTime      time.Duration `json:"discussionTime"` // Informational; the meeting clock is fixed
	VotingTime          time.Duration `json:"votingTime"`     // Informational; the meeting clock is fixed
	InteractionDistance float64       `json:"interactionDistance"`
	KillDistance        float64       `json:"killDistance"`
	ReportDistance      float64       `json:"reportDistance"`
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		MinPlayers:          4,
		MaxPlayers:          10,
		NumImpostors:        2,
		TaskCompletionGoal:  8,
		EmergencyMeetings:   1,
		KillCooldown:        30 * time.Second,
		DiscussionTime:      DiscussionSeconds * time.Second,
		VotingTime:          VotingSeconds * time.Second,
		InteractionDistance: InteractionDistance,
		KillDistance:        KillDistance,
		ReportDistance:      ReportDistance,
	}
}

// GameState is the aggregate owned by whoever holds the reducer
type GameState struct {
	Players       []Player      `json:"players"`
	CurrentPlayer Player        `json:"currentPlayer"`
	GameStatus    GameStatus    `json:"gameStatus"`
	CodingTasks   []CodingTask  `json:"codingTasks"`
	Meeting       *MeetingState `json:"meeting"`
	Sabotaged     bool          `json:"sabotaged,omitempty"`
	Winner        Team          `json:"winner,omitempty"`
}

// NewGameState creates a waiting game for the given local player and tasks
func NewGameState(current Player, tasks []CodingTask) GameState {
	return GameState{
		Players:       make([]Player, 0),
		CurrentPlayer: current,
		GameStatus:    StatusWaiting,
		CodingTasks:   slices.Clone(tasks),
	}
}

// GetPlayer returns a player by ID
func (s GameState) GetPlayer(playerID string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

// AlivePlayers returns the players that are still alive
func (s GameState) AlivePlayers() []Player {
	alive := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// PlayerIDs returns the IDs of all players in join order
func (s GameState) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Clone returns a deep copy that shares nothing mutable with s
func (s GameState) Clone() GameState {
	c := s
	c.Players = clonePlayers(s.Players)
	c.CurrentPlayer = clonePlayer(s.CurrentPlayer)
	if s.CodingTasks != nil {
		c.CodingTasks = make([]CodingTask, len(s.CodingTasks))
		for i, t := range s.CodingTasks {
			t.TestCases = slices.Clone(t.TestCases)
			c.CodingTasks[i] = t
		}
	}
	if s.Meeting != nil {
		c.Meeting = s.Meeting.clone()
	}
	return c
}

func clonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	c := make([]Player, len(players))
	for i, p := range players {
		c[i] = clonePlayer(p)
	}
	return c
}

func clonePlayer(p Player) Player {
	if p.IsAlive != nil {
		p.IsAlive = aliveFlag(*p.IsAlive)
	}
	return p
}
