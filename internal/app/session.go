package app

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"codeamongus/internal/challenge"
	"codeamongus/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// SolutionValidator checks submitted code against a task's test cases
type SolutionValidator interface {
	Validate(ctx context.Context, code string, cases []domain.TestCase) challenge.Result
}

// GameSession owns the state of one room. Every change goes through the
// reducer; the session adds the policy checks, timers and broadcasting
// around it.
type GameSession struct {
	id        string
	state     domain.GameState
	settings  domain.GameSettings
	hostID    string
	createdAt time.Time
	mu        sync.RWMutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	validator SolutionValidator
	logger    *slog.Logger

	rng          *rand.Rand
	now          func() time.Time
	meetingsUsed map[string]int
	reported     map[string]bool // bodies already reported or ejected
	lastKill     map[string]time.Time
	pendingEnd   bool

	// Meeting timer
	tick        time.Duration
	meetingDone chan struct{}

	// Event channel for broadcasting
	events chan *domain.GameEvent
	done   chan struct{}
}

// NewGameSession creates a new game session
func NewGameSession(id string, settings domain.GameSettings, validator SolutionValidator, logger *slog.Logger) *GameSession {
	session := &GameSession{
		id:           id,
		state:        domain.NewGameState(domain.Player{}, DefaultTasks()),
		settings:     settings,
		createdAt:    time.Now(),
		clients:      make(map[string]ClientConnection),
		validator:    validator,
		logger:       logger.With("roomCode", id),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
		meetingsUsed: make(map[string]int),
		reported:     make(map[string]bool),
		lastKill:     make(map[string]time.Time),
		tick:         time.Second,
		events:       make(chan *domain.GameEvent, 256),
		done:         make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetRoomCode returns the room code
func (s *GameSession) GetRoomCode() string {
	return s.id
}

// GetCreatedAt returns when the game was created
func (s *GameSession) GetCreatedAt() time.Time {
	return s.createdAt
}

// GetPlayerCount returns the number of players
func (s *GameSession) GetPlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Players)
}

// GetStatus returns the current game status
func (s *GameSession) GetStatus() domain.GameStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GameStatus
}

// CanJoin checks if a new player can join the game
func (s *GameSession) CanJoin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GameStatus == domain.StatusWaiting && len(s.state.Players) < s.settings.MaxPlayers
}

// IsHost checks if the given player is the host
func (s *GameSession) IsHost(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostID == playerID
}

// RegisterClient registers a client connection for a player, closing any
// connection it replaces
func (s *GameSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	replaced, ok := s.clients[playerID]
	s.clients[playerID] = client
	s.clientsMu.Unlock()

	if ok && replaced != client {
		replaced.Close()
	}
}

// UnregisterClient removes a client connection. It reports false when the
// player has since been taken over by a newer connection.
func (s *GameSession) UnregisterClient(playerID string, client ClientConnection) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if current, ok := s.clients[playerID]; !ok || current != client {
		return false
	}
	delete(s.clients, playerID)
	return true
}

// GetClient returns the client for a player
func (s *GameSession) GetClient(playerID string) (ClientConnection, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	client, ok := s.clients[playerID]
	return client, ok
}

// AddPlayer adds a player to the lobby
func (s *GameSession) AddPlayer(playerID, username string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.GameStatus != domain.StatusWaiting {
		return domain.Player{}, domain.ErrGameAlreadyStarted
	}
	if len(s.state.Players) >= s.settings.MaxPlayers {
		return domain.Player{}, domain.ErrGameFull
	}
	if _, ok := s.state.GetPlayer(playerID); ok {
		return domain.Player{}, domain.ErrPlayerExists
	}

	player := domain.NewPlayer(playerID, username, colorFor(len(s.state.Players)), SpawnPoint)

	// First player becomes the host and the session's local player
	if s.hostID == "" {
		s.hostID = playerID
		s.state.CurrentPlayer = player
	}

	s.dispatch(domain.JoinGame{Player: player})
	s.queueEvent(domain.NewEvent(domain.EventPlayerJoined, s.id, s.lobbyState()))
	s.publish()

	joined, _ := s.state.GetPlayer(playerID)
	return joined, nil
}

// RemovePlayer removes a player from the game
func (s *GameSession) RemovePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removePlayer(playerID)
}

func (s *GameSession) removePlayer(playerID string) error {
	if _, ok := s.state.GetPlayer(playerID); !ok {
		return domain.ErrPlayerNotFound
	}

	s.dispatch(domain.LeaveGame{PlayerID: playerID})

	// If host left, hand the session to the longest-standing player
	if s.hostID == playerID {
		s.hostID = ""
		s.state.CurrentPlayer = domain.Player{}
		if len(s.state.Players) > 0 {
			s.hostID = s.state.Players[0].ID
			s.state.CurrentPlayer = s.state.Players[0]
		}
	}

	// Leaving is not a transition the win check runs on
	if s.state.GameStatus == domain.StatusInProgress || s.state.GameStatus == domain.StatusMeeting {
		if winner := domain.CheckGameEnd(s.state); winner != "" {
			s.dispatch(domain.EndGame{Winner: winner})
		}
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.id, s.lobbyState()))
	s.publish()

	return nil
}

// DisconnectPlayer handles a dropped connection. Lobby players are removed;
// players in a running game stay so they can reconnect.
func (s *GameSession) DisconnectPlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.GameStatus == domain.StatusWaiting {
		if err := s.removePlayer(playerID); err == nil {
			s.logger.Info("player left lobby", "playerID", playerID)
		}
		return
	}
	s.logger.Info("player disconnected", "playerID", playerID)
}

// ReconnectPlayer returns the player for a returning client
func (s *GameSession) ReconnectPlayer(playerID string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.state.GetPlayer(playerID)
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerReconnected, s.id, s.lobbyState()))
	s.publish()

	return player, nil
}

// StartGame assigns roles and starts the game (host only)
func (s *GameSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostID != playerID {
		return domain.ErrNotHost
	}
	if s.state.GameStatus != domain.StatusWaiting {
		return domain.ErrGameAlreadyStarted
	}
	if len(s.state.Players) < s.settings.MinPlayers {
		return domain.ErrNotEnoughPlayers
	}

	roles := s.pickRoles()
	s.dispatch(domain.AssignRoles{Roles: roles})
	s.dispatch(domain.StartGame{})

	impostors := make([]string, 0)
	for _, p := range s.state.Players {
		if p.Role.IsImpostor() {
			impostors = append(impostors, p.ID)
		}
	}

	// Send role assignments to each player
	for _, p := range s.state.Players {
		payload := &domain.RoleAssignedPayload{Role: p.Role}
		if p.Role.IsImpostor() {
			payload.Impostors = impostors
		}
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoleAssigned, s.id, p.ID, payload))
	}
	s.queueEvent(domain.NewEvent(domain.EventGameStarted, s.id, s.lobbyState()))
	s.publish()

	s.logger.Info("game started", "players", len(s.state.Players), "impostors", len(impostors))

	return nil
}

// pickRoles chooses impostors at random, always leaving them outnumbered
func (s *GameSession) pickRoles() map[string]domain.Role {
	n := len(s.state.Players)
	count := min(s.settings.NumImpostors, (n-1)/2)
	if count < 1 {
		count = 1
	}

	roles := make(map[string]domain.Role, n)
	for i, idx := range s.rng.Perm(n) {
		role := domain.RoleCrewmate
		if i < count {
			role = domain.RoleImpostor
		}
		roles[s.state.Players[idx].ID] = role
	}
	return roles
}

// MovePlayer moves a player one step and returns the new position
func (s *GameSession) MovePlayer(playerID string, dir Direction) (domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.state.GetPlayer(playerID)
	if !ok {
		return domain.Position{}, domain.ErrPlayerNotFound
	}
	if s.state.GameStatus != domain.StatusWaiting && s.state.GameStatus != domain.StatusInProgress {
		return player.Position(), domain.ErrInvalidPhase
	}

	pos := Step(player.Position(), dir)
	if pos == player.Position() {
		return pos, nil
	}

	s.dispatch(domain.UpdatePlayerPosition{PlayerID: playerID, Position: pos})
	s.publish()

	return pos, nil
}

// SubmitSolution evaluates code for a task and completes the task when
// every test case passes
func (s *GameSession) SubmitSolution(ctx context.Context, playerID, taskID, code string) (challenge.Result, error) {
	s.mu.RLock()
	task, err := s.checkTaskAccess(playerID, taskID)
	s.mu.RUnlock()
	if err != nil {
		return challenge.Result{}, err
	}

	// Evaluate without holding the lock
	result := s.validator.Validate(ctx, code, task.TestCases)
	if !result.Success {
		s.logger.Debug("solution rejected", "playerID", playerID, "taskID", taskID, "errorKind", result.ErrorKind)
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The game may have moved on while the code ran
	if _, err := s.checkTaskAccess(playerID, taskID); err != nil {
		return result, err
	}

	s.dispatch(domain.CompleteTask{TaskID: taskID, PlayerID: playerID})
	s.queueEvent(domain.NewEvent(domain.EventTaskCompleted, s.id, &domain.TaskCompletedPayload{
		TaskID:    taskID,
		PlayerID:  playerID,
		Completed: domain.CompletedTaskCount(s.state.CodingTasks),
		Total:     len(s.state.CodingTasks),
	}))

	if s.state.GameStatus == domain.StatusInProgress && s.settings.TaskCompletionGoal > 0 &&
		domain.CompletedTaskCount(s.state.CodingTasks) >= s.settings.TaskCompletionGoal {
		s.dispatch(domain.EndGame{Winner: domain.TeamCrewmates})
	}
	s.publish()

	s.logger.Info("task completed", "playerID", playerID, "taskID", taskID)

	return result, nil
}

// checkTaskAccess verifies a player may attempt a task (caller must hold lock)
func (s *GameSession) checkTaskAccess(playerID, taskID string) (domain.CodingTask, error) {
	if s.state.GameStatus != domain.StatusInProgress {
		return domain.CodingTask{}, domain.ErrInvalidPhase
	}
	player, err := s.alivePlayer(playerID)
	if err != nil {
		return domain.CodingTask{}, err
	}
	if player.Role.IsImpostor() {
		return domain.CodingTask{}, domain.ErrWrongRole
	}
	task, ok := domain.FindTask(s.state.CodingTasks, taskID)
	if !ok {
		return domain.CodingTask{}, domain.ErrTaskNotFound
	}
	if task.Completed {
		return domain.CodingTask{}, domain.ErrTaskCompleted
	}
	if player.Position().DistanceTo(task.Position()) > s.settings.InteractionDistance {
		return domain.CodingTask{}, domain.ErrTooFar
	}
	return task, nil
}

// KillPlayer lets an impostor kill a nearby crewmate
func (s *GameSession) KillPlayer(killerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.GameStatus != domain.StatusInProgress {
		return domain.ErrInvalidPhase
	}
	killer, err := s.alivePlayer(killerID)
	if err != nil {
		return err
	}
	if !killer.Role.IsImpostor() {
		return domain.ErrWrongRole
	}
	target, ok := s.state.GetPlayer(targetID)
	if !ok || !target.Alive() || target.Role.IsImpostor() {
		return domain.ErrInvalidTargetID
	}
	if killer.Position().DistanceTo(target.Position()) > s.settings.KillDistance {
		return domain.ErrTooFar
	}
	now := s.now()
	if last, ok := s.lastKill[killerID]; ok && now.Sub(last) < s.settings.KillCooldown {
		return domain.ErrKillCooldown
	}

	s.lastKill[killerID] = now
	s.dispatch(domain.KillPlayer{TargetID: targetID})
	s.queueEvent(domain.NewEvent(domain.EventPlayerKilled, s.id, &domain.PlayerKilledPayload{PlayerID: targetID}))
	s.publish()

	s.logger.Info("player killed", "playerID", targetID)

	return nil
}

// ReportBody opens a meeting for a dead player's body nearby
func (s *GameSession) ReportBody(reporterID, bodyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.GameStatus != domain.StatusInProgress {
		return domain.ErrInvalidPhase
	}
	reporter, err := s.alivePlayer(reporterID)
	if err != nil {
		return err
	}
	body, ok := s.state.GetPlayer(bodyID)
	if !ok || body.Alive() || s.reported[bodyID] {
		return domain.ErrInvalidTargetID
	}
	if reporter.Position().DistanceTo(body.Position()) > s.settings.ReportDistance {
		return domain.ErrTooFar
	}

	s.reported[bodyID] = true
	s.dispatch(domain.ReportBody{ReporterID: reporterID, Location: body.Position()})
	s.startMeeting()

	return nil
}

// CallMeeting opens an emergency meeting if the caller has one left
func (s *GameSession) CallMeeting(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.GameStatus != domain.StatusInProgress {
		return domain.ErrInvalidPhase
	}
	if _, err := s.alivePlayer(callerID); err != nil {
		return err
	}
	if s.meetingsUsed[callerID] >= s.settings.EmergencyMeetings {
		return domain.ErrNoMeetingsLeft
	}

	s.meetingsUsed[callerID]++
	s.dispatch(domain.CallMeeting{CallerID: callerID})
	s.startMeeting()

	return nil
}

// alivePlayer returns a player that exists and is alive (caller must hold lock)
func (s *GameSession) alivePlayer(playerID string) (domain.Player, error) {
	player, ok := s.state.GetPlayer(playerID)
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if !player.Alive() {
		return domain.Player{}, domain.ErrPlayerDead
	}
	return player, nil
}

// startMeeting announces the new meeting and starts its timer (caller must hold lock)
func (s *GameSession) startMeeting() {
	meeting := s.state.Meeting
	if meeting == nil {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventMeetingCalled, s.id, &domain.MeetingCalledPayload{
		CallerID:       meeting.Caller,
		ReportLocation: meeting.ReportLocation,
		Phase:          meeting.Phase,
		TimeRemaining:  meeting.TimeRemaining,
	}))
	s.publish()

	s.stopMeetingTimer()
	s.meetingDone = make(chan struct{})
	go s.meetingCountdown(s.meetingDone, meeting.Phase, meeting.TimeRemaining)

	s.logger.Info("meeting called", "callerID", meeting.Caller)
}

// meetingCountdown drives the meeting clock: discussion expiry starts the
// vote, voting expiry resolves the meeting
func (s *GameSession) meetingCountdown(done chan struct{}, phase domain.MeetingPhase, seconds int) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	remaining := seconds

	for {
		select {
		case <-done:
			return
		case <-s.done:
			return
		case <-ticker.C:
			remaining--
			if remaining > 0 {
				s.queueEvent(domain.NewEvent(domain.EventMeetingCountdown, s.id, &domain.MeetingCountdownPayload{
					Phase:         phase,
					TimeRemaining: remaining,
				}))
				continue
			}

			phase, remaining = s.advanceMeeting(done)
			if remaining <= 0 {
				return
			}
		}
	}
}

// advanceMeeting moves an expired meeting phase forward and returns the
// new phase clock, or zero once the meeting is over
func (s *GameSession) advanceMeeting(done chan struct{}) (domain.MeetingPhase, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer timer or an early resolution already took over
	if s.meetingDone != done || s.state.Meeting == nil {
		return "", 0
	}

	if s.state.Meeting.Phase == domain.MeetingDiscussion {
		s.dispatch(domain.StartVoting{})
		meeting := s.state.Meeting
		s.queueEvent(domain.NewEvent(domain.EventVotingStarted, s.id, &domain.MeetingCountdownPayload{
			Phase:         meeting.Phase,
			TimeRemaining: meeting.TimeRemaining,
		}))
		s.publish()
		return meeting.Phase, meeting.TimeRemaining
	}

	s.resolveMeeting()
	return "", 0
}

// CastVote records a vote during the voting phase. The meeting resolves as
// soon as every living player has voted.
func (s *GameSession) CastVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meeting := s.state.Meeting
	if s.state.GameStatus != domain.StatusMeeting || meeting == nil || meeting.Phase != domain.MeetingVoting {
		return domain.ErrInvalidPhase
	}
	if _, err := s.alivePlayer(voterID); err != nil {
		return err
	}
	if meeting.HasVoted(voterID) {
		return domain.ErrAlreadyVoted
	}
	if targetID != domain.SkipVote {
		target, ok := s.state.GetPlayer(targetID)
		if !ok || !target.Alive() {
			return domain.ErrInvalidTargetID
		}
	}

	s.dispatch(domain.CastVote{VoterID: voterID, SuspectID: targetID})

	voters := len(s.state.AlivePlayers())
	voted := len(s.state.Meeting.Votes)
	s.queueEvent(domain.NewEvent(domain.EventVoteCast, s.id, &domain.VoteUpdatePayload{
		VotedCount:  voted,
		TotalVoters: voters,
	}))

	if voted >= voters {
		s.resolveMeeting()
		return nil
	}
	s.publish()

	return nil
}

// resolveMeeting tallies the votes and ends the meeting (caller must hold lock)
func (s *GameSession) resolveMeeting() {
	meeting := s.state.Meeting
	if meeting == nil {
		return
	}
	s.stopMeetingTimer()

	ejectedID := domain.CalculateVoteResult(meeting.Votes)
	payload := &domain.MeetingEndedPayload{
		Votes:     domain.TallyVotes(meeting.Votes, s.state.PlayerIDs()),
		EjectedID: ejectedID,
	}

	s.dispatch(domain.EndMeeting{EjectedID: ejectedID})

	if ejected, ok := s.state.GetPlayer(ejectedID); ok {
		s.reported[ejectedID] = true
		info := ejected.ToInfo()
		payload.Ejected = &info
	}
	s.queueEvent(domain.NewEvent(domain.EventMeetingEnded, s.id, payload))
	s.publish()

	s.logger.Info("meeting ended", "ejectedID", ejectedID)
}

// stopMeetingTimer stops the running meeting countdown (caller must hold lock)
func (s *GameSession) stopMeetingTimer() {
	if s.meetingDone != nil {
		close(s.meetingDone)
		s.meetingDone = nil
	}
}

// dispatch applies an action through the reducer (caller must hold lock)
func (s *GameSession) dispatch(action domain.Action) {
	wasCompleted := s.state.GameStatus == domain.StatusCompleted
	s.state = domain.Reduce(s.state, action)

	s.logger.Debug("action applied", "action", action.Type(), "status", s.state.GameStatus)

	if !wasCompleted && s.state.GameStatus == domain.StatusCompleted {
		s.stopMeetingTimer()
		s.pendingEnd = true
		s.logger.Info("game ended", "winner", s.state.Winner)
	}
}

// GetGameState returns the game as seen by the given player
func (s *GameSession) GetGameState(playerID string) domain.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewFor(playerID)
}

// viewFor builds a player's view of the state (caller must hold lock).
// The viewer becomes the current player; other players' roles are hidden
// from crewmates until the game is over.
func (s *GameSession) viewFor(playerID string) domain.GameState {
	view := s.state.Clone()

	viewer, ok := view.GetPlayer(playerID)
	if ok {
		view.CurrentPlayer = viewer
	} else {
		view.CurrentPlayer = domain.Player{}
	}

	if view.GameStatus == domain.StatusCompleted || (ok && viewer.Role.IsImpostor()) {
		return view
	}
	for i := range view.Players {
		if view.Players[i].ID != playerID {
			view.Players[i].Role = ""
		}
	}
	return view
}

// GetLobbyState returns the current lobby state for broadcasting
func (s *GameSession) GetLobbyState() *domain.LobbyUpdatePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobbyState()
}

func (s *GameSession) lobbyState() *domain.LobbyUpdatePayload {
	players := make([]domain.PlayerInfo, 0, len(s.state.Players))
	for _, p := range s.state.Players {
		players = append(players, p.ToInfo())
	}

	return &domain.LobbyUpdatePayload{
		Players:  players,
		HostID:   s.hostID,
		CanStart: s.state.GameStatus == domain.StatusWaiting && len(s.state.Players) >= s.settings.MinPlayers,
	}
}

// publish queues the game-over announcement, if due, and every client's
// view of the new state (caller must hold lock)
func (s *GameSession) publish() {
	if s.pendingEnd {
		s.pendingEnd = false
		s.queueEvent(domain.NewEvent(domain.EventGameEnded, s.id, &domain.GameEndedPayload{
			Winner:  s.state.Winner,
			Players: s.state.Players,
		}))
	}

	s.clientsMu.RLock()
	playerIDs := make([]string, 0, len(s.clients))
	for playerID := range s.clients {
		playerIDs = append(playerIDs, playerID)
	}
	s.clientsMu.RUnlock()

	for _, playerID := range playerIDs {
		s.queueEvent(domain.NewPlayerEvent(domain.EventStateUpdated, s.id, playerID, s.viewFor(playerID)))
	}
}

// queueEvent adds an event to the broadcast queue
func (s *GameSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to appropriate clients
func (s *GameSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	// If player-specific, send only to that player
	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	// Broadcast to all clients
	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts down the session
func (s *GameSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.mu.Lock()
	s.stopMeetingTimer()
	s.mu.Unlock()

	// Close all client connections
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
