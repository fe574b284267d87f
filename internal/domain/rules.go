package domain

// CheckGameEnd returns the winning team, or "" while the game goes on.
// Rules are checked in order and the first match wins:
//  1. impostors win when alive impostors >= alive crewmates
//  2. crewmates win when no impostor is alive
//  3. crewmates win when every task is completed
func CheckGameEnd(state GameState) Team {
	crewmates, impostors := 0, 0
	for _, p := range state.Players {
		if !p.Alive() {
			continue
		}
		switch p.Role {
		case RoleCrewmate:
			crewmates++
		case RoleImpostor:
			impostors++
		}
	}

	if impostors >= crewmates {
		return TeamImpostors
	}
	if impostors == 0 {
		return TeamCrewmates
	}
	if allTasksCompleted(state.CodingTasks) {
		return TeamCrewmates
	}
	return ""
}

func allTasksCompleted(tasks []CodingTask) bool {
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// CalculateVoteResult returns the player to eject, or "" when the top count
// is tied or held by SkipVote
func CalculateVoteResult(votes map[string]string) string {
	counts := make(map[string]int)
	for _, target := range votes {
		counts[target]++
	}

	maxVotes := 0
	mostVoted := ""
	tied := false
	for target, count := range counts {
		switch {
		case count > maxVotes:
			maxVotes = count
			mostVoted = target
			tied = false
		case count == maxVotes:
			tied = true
		}
	}

	if tied || mostVoted == SkipVote {
		return ""
	}
	return mostVoted
}
