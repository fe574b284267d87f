package domain

import "math"

// Position is a point on the game map in display coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the euclidean distance between two positions
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Player represents a player in the game
type Player struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	Role     Role    `json:"role,omitempty"`
	Username string  `json:"username,omitempty"`
	IsAlive  *bool   `json:"isAlive,omitempty"` // nil means alive
}

// NewPlayer creates a new living player at the given position
func NewPlayer(id, username, color string, pos Position) Player {
	return Player{
		ID:       id,
		X:        pos.X,
		Y:        pos.Y,
		Color:    color,
		Role:     RoleCrewmate,
		Username: username,
		IsAlive:  aliveFlag(true),
	}
}

// Alive reports whether the player is alive. An absent flag counts as alive.
func (p Player) Alive() bool {
	return p.IsAlive == nil || *p.IsAlive
}

// Position returns the player's current position
func (p Player) Position() Position {
	return Position{X: p.X, Y: p.Y}
}

// DisplayName returns the username, or a generated name when none is set
func (p Player) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return "Player " + p.ID
}

// withAlive returns a copy of the player with the liveness flag set
func (p Player) withAlive(alive bool) Player {
	p.IsAlive = aliveFlag(alive)
	return p
}

// withPosition returns a copy of the player moved to pos
func (p Player) withPosition(pos Position) Player {
	p.X = pos.X
	p.Y = pos.Y
	return p
}

func aliveFlag(alive bool) *bool {
	return &alive
}

// PlayerInfo is a safe view of player data (hides role from other players)
type PlayerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Color    string `json:"color"`
	Alive    bool   `json:"alive"`
}

// ToInfo converts a Player to PlayerInfo (without role)
func (p Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:       p.ID,
		Username: p.DisplayName(),
		Color:    p.Color,
		Alive:    p.Alive(),
	}
}
