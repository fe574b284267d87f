package domain

import "slices"

// Reduce computes the state that follows action. It never mutates state:
// every slice, meeting and vote map it changes is copied first. Unknown
// actions and references to unknown IDs leave the state unchanged.
func Reduce(state GameState, action Action) GameState {
	switch a := action.(type) {
	case UpdatePlayerPosition:
		return updatePlayer(state, a.PlayerID, func(p Player) Player {
			return p.withPosition(a.Position)
		})

	case JoinGame:
		players := slices.Clone(state.Players)
		state.Players = append(players, a.Player.withAlive(true))
		return state

	case LeaveGame:
		if _, ok := state.GetPlayer(a.PlayerID); !ok {
			return state
		}
		state.Players = slices.DeleteFunc(slices.Clone(state.Players), func(p Player) bool {
			return p.ID == a.PlayerID
		})
		return state

	case AssignRoles:
		for playerID, role := range a.Roles {
			state = updatePlayer(state, playerID, func(p Player) Player {
				p.Role = role
				return p
			})
		}
		return state

	case StartGame:
		if state.GameStatus.IsTerminal() {
			return state
		}
		players := slices.Clone(state.Players)
		for i := range players {
			players[i] = players[i].withAlive(true)
		}
		state.Players = players
		state.GameStatus = StatusInProgress
		state.Meeting = nil
		return state

	case CompleteTask:
		idx := slices.IndexFunc(state.CodingTasks, func(t CodingTask) bool {
			return t.ID == a.TaskID
		})
		if idx < 0 {
			return state
		}
		tasks := slices.Clone(state.CodingTasks)
		tasks[idx].Completed = true
		state.CodingTasks = tasks
		return applyGameEnd(state)

	case KillPlayer:
		if _, ok := state.GetPlayer(a.TargetID); !ok {
			return state
		}
		state = updatePlayer(state, a.TargetID, func(p Player) Player {
			return p.withAlive(false)
		})
		return applyGameEnd(state)

	case CallMeeting:
		return openMeeting(state, a.CallerID, nil)

	case ReportBody:
		loc := a.Location
		return openMeeting(state, a.ReporterID, &loc)

	case StartVoting:
		if state.Meeting == nil {
			return state
		}
		meeting := state.Meeting.clone()
		meeting.Phase = MeetingVoting
		meeting.TimeRemaining = VotingSeconds
		state.Meeting = meeting
		return state

	case CastVote:
		if state.Meeting == nil {
			return state
		}
		meeting := state.Meeting.clone()
		meeting.Votes[a.VoterID] = a.SuspectID
		state.Meeting = meeting
		return state

	case EndMeeting:
		if state.Meeting == nil {
			return state
		}
		if a.EjectedID != "" {
			state = updatePlayer(state, a.EjectedID, func(p Player) Player {
				return p.withAlive(false)
			})
		}
		state.GameStatus = StatusInProgress
		state.Meeting = nil
		return applyGameEnd(state)

	case EndGame:
		if state.GameStatus.IsTerminal() {
			return state
		}
		state.GameStatus = StatusCompleted
		state.Winner = a.Winner
		state.Meeting = nil
		return state

	default:
		return state
	}
}

// updatePlayer applies fn to the player with playerID and to the current
// player when the IDs match
func updatePlayer(state GameState, playerID string, fn func(Player) Player) GameState {
	if idx := slices.IndexFunc(state.Players, func(p Player) bool { return p.ID == playerID }); idx >= 0 {
		players := slices.Clone(state.Players)
		for i := range players {
			if players[i].ID == playerID {
				players[i] = fn(players[i])
			}
		}
		state.Players = players
	}
	if state.CurrentPlayer.ID == playerID {
		state.CurrentPlayer = fn(state.CurrentPlayer)
	}
	return state
}

// openMeeting starts a fresh meeting in the discussion phase
func openMeeting(state GameState, callerID string, location *Position) GameState {
	if state.GameStatus.IsTerminal() {
		return state
	}
	state.GameStatus = StatusMeeting
	state.Meeting = &MeetingState{
		Caller:         callerID,
		Phase:          MeetingDiscussion,
		TimeRemaining:  DiscussionSeconds,
		Votes:          make(map[string]string),
		ReportLocation: location,
	}
	return state
}

// applyGameEnd completes the game when CheckGameEnd finds a winner.
// A game that is already completed keeps its winner.
func applyGameEnd(state GameState) GameState {
	if state.GameStatus.IsTerminal() {
		return state
	}
	if winner := CheckGameEnd(state); winner != "" {
		state.GameStatus = StatusCompleted
		state.Winner = winner
		state.Meeting = nil
	}
	return state
}
