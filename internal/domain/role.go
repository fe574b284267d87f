package domain

// Role represents a player's role in a game
type Role string

const (
	RoleCrewmate Role = "crewmate"
	RoleImpostor Role = "impostor"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsImpostor returns true if this role is the impostor
func (r Role) IsImpostor() bool {
	return r == RoleImpostor
}

// Team identifies the side that won a game
type Team string

const (
	TeamCrewmates Team = "crewmates"
	TeamImpostors Team = "impostors"
)

// String returns the string representation of the team
func (t Team) String() string {
	return string(t)
}
