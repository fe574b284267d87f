package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codeamongus/internal/app"
	"codeamongus/internal/challenge"
	"codeamongus/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Submissions carry source code.
	maxMessageSize = 64 * 1024

	// Size of the send channel buffer
	sendBufferSize = 256
)

// gameSession is the part of app.GameSession a client drives
type gameSession interface {
	GetRoomCode() string
	AddPlayer(playerID, username string) (domain.Player, error)
	StartGame(playerID string) error
	MovePlayer(playerID string, dir app.Direction) (domain.Position, error)
	SubmitSolution(ctx context.Context, playerID, taskID, code string) (challenge.Result, error)
	KillPlayer(killerID, targetID string) error
	ReportBody(reporterID, bodyID string) error
	CallMeeting(callerID string) error
	CastVote(voterID, targetID string) error
	GetGameState(playerID string) domain.GameState
	UnregisterClient(playerID string, client app.ClientConnection) bool
	DisconnectPlayer(playerID string)
}

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	session  gameSession
	playerID string
	send     chan []byte
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session gameSession, playerID string, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.With("roomCode", session.GetRoomCode(), "playerID", playerID),
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()
	close(c.done)
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.session.UnregisterClient(c.playerID, c) {
			c.session.DisconnectPlayer(c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			// One JSON document per frame
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinGame:
		c.handleJoinGame(msg.Payload)
	case MsgStartGame:
		c.reply(c.session.StartGame(c.playerID))
	case MsgMove:
		c.handleMove(msg.Payload)
	case MsgSubmitSolution:
		c.handleSubmitSolution(msg.Payload)
	case MsgKillPlayer:
		var p TargetPayload
		if c.decode(msg.Payload, &p) && c.require(p.TargetID, "Target ID is required") {
			c.reply(c.session.KillPlayer(c.playerID, p.TargetID))
		}
	case MsgReportBody:
		var p ReportBodyPayload
		if c.decode(msg.Payload, &p) && c.require(p.BodyID, "Body ID is required") {
			c.reply(c.session.ReportBody(c.playerID, p.BodyID))
		}
	case MsgCallMeeting:
		c.reply(c.session.CallMeeting(c.playerID))
	case MsgCastVote:
		var p TargetPayload
		if c.decode(msg.Payload, &p) && c.require(p.TargetID, "Target ID is required") {
			c.reply(c.session.CastVote(c.playerID, p.TargetID))
		}
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinGame handles a join_game message
func (c *Client) handleJoinGame(raw json.RawMessage) {
	var p JoinGamePayload
	if !c.decode(raw, &p) || !c.require(p.Username, "Username is required") {
		return
	}

	if _, err := c.session.AddPlayer(c.playerID, p.Username); err != nil {
		c.reply(err)
		return
	}

	// Send connected confirmation
	c.sendConnected()
}

// handleMove handles a move message
func (c *Client) handleMove(raw json.RawMessage) {
	var p MovePayload
	if !c.decode(raw, &p) {
		return
	}

	dir, ok := app.ParseDirection(p.Direction)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Unknown direction")
		return
	}

	_, err := c.session.MovePlayer(c.playerID, dir)
	c.reply(err)
}

// handleSubmitSolution handles a submit_solution message
func (c *Client) handleSubmitSolution(raw json.RawMessage) {
	var p SubmitSolutionPayload
	if !c.decode(raw, &p) || !c.require(p.TaskID, "Task ID is required") {
		return
	}

	result, err := c.session.SubmitSolution(c.ctx, c.playerID, p.TaskID, p.Code)
	if err != nil {
		c.reply(err)
		return
	}

	c.Send(NewServerMessage(MsgSolutionResult, &SolutionResultPayload{
		TaskID: p.TaskID,
		Result: result,
	}))
}

// decode unmarshals a payload, replying with an error when it is malformed
func (c *Client) decode(raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// require replies with an error when a mandatory field is empty
func (c *Client) require(value, message string) bool {
	if value == "" {
		c.sendError(ErrCodeInvalidMessage, message)
		return false
	}
	return true
}

// reply reports a failed session call to the client
func (c *Client) reply(err error) {
	if err == nil {
		return
	}

	code := errorCode(err)
	if code == ErrCodeInternalError {
		c.logger.Error("unexpected session error", "error", err)
	}
	c.sendError(code, err.Error())
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		PlayerID:  c.playerID,
		GameID:    c.session.GetRoomCode(),
		GameState: c.session.GetGameState(c.playerID),
	}

	msg := NewServerMessage(MsgConnected, payload)
	c.Send(msg)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	msg := NewServerMessage(MsgError, payload)
	c.Send(msg)
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}
