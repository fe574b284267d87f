package app

import "codeamongus/internal/domain"

// Map geometry used by the input layer
const (
	MovementSpeed = 5
	CanvasWidth   = 800
	CanvasHeight  = 600
	PlayerRadius  = 20
)

// Direction is a movement key sent by a client
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// ParseDirection maps key names (arrows and WASD) to a direction
func ParseDirection(key string) (Direction, bool) {
	switch key {
	case "up", "ArrowUp", "w":
		return DirUp, true
	case "down", "ArrowDown", "s":
		return DirDown, true
	case "left", "ArrowLeft", "a":
		return DirLeft, true
	case "right", "ArrowRight", "d":
		return DirRight, true
	}
	return "", false
}

// Step moves pos one step in dir, keeping the player inside the canvas
func Step(pos domain.Position, dir Direction) domain.Position {
	switch dir {
	case DirUp:
		pos.Y = max(PlayerRadius, pos.Y-MovementSpeed)
	case DirDown:
		pos.Y = min(CanvasHeight-PlayerRadius, pos.Y+MovementSpeed)
	case DirLeft:
		pos.X = max(PlayerRadius, pos.X-MovementSpeed)
	case DirRight:
		pos.X = min(CanvasWidth-PlayerRadius, pos.X+MovementSpeed)
	}
	return pos
}
