package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeamongus/internal/app"
	"codeamongus/internal/challenge"
	"codeamongus/internal/domain"
)

type fakeSession struct {
	err       error
	result    challenge.Result
	moved     app.Direction
	target    string
	submitted string
}

func (f *fakeSession) GetRoomCode() string { return "ROOM42" }
func (f *fakeSession) AddPlayer(playerID, username string) (domain.Player, error) {
	return domain.NewPlayer(playerID, username, "#FF0000", app.SpawnPoint), f.err
}
func (f *fakeSession) StartGame(string) error { return f.err }
func (f *fakeSession) MovePlayer(_ string, dir app.Direction) (domain.Position, error) {
	f.moved = dir
	return domain.Position{}, f.err
}
func (f *fakeSession) SubmitSolution(_ context.Context, _, taskID, _ string) (challenge.Result, error) {
	f.submitted = taskID
	return f.result, f.err
}
func (f *fakeSession) KillPlayer(_, targetID string) error {
	f.target = targetID
	return f.err
}
func (f *fakeSession) ReportBody(_, bodyID string) error {
	f.target = bodyID
	return f.err
}
func (f *fakeSession) CallMeeting(string) error { return f.err }
func (f *fakeSession) CastVote(_, targetID string) error {
	f.target = targetID
	return f.err
}
func (f *fakeSession) GetGameState(string) domain.GameState {
	return domain.NewGameState(domain.Player{}, nil)
}
func (f *fakeSession) UnregisterClient(string, app.ClientConnection) bool { return true }
func (f *fakeSession) DisconnectPlayer(string)                            {}

type received struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(session *fakeSession) *Client {
	return NewClient(nil, session, "p1", testLogger())
}

func next(t *testing.T, c *Client) received {
	t.Helper()
	select {
	case data := <-c.send:
		var msg received
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("no message queued")
		return received{}
	}
}

func nextError(t *testing.T, c *Client) ErrorPayload {
	t.Helper()
	msg := next(t, c)
	require.Equal(t, MsgError, msg.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload
}

func TestHandleMessageRejectsMalformedInput(t *testing.T) {
	c := newTestClient(&fakeSession{})

	c.handleMessage([]byte("not json"))
	assert.Equal(t, ErrCodeInvalidMessage, nextError(t, c).Code)

	c.handleMessage([]byte(`{"type":"dance"}`))
	assert.Equal(t, ErrCodeInvalidMessage, nextError(t, c).Code)

	c.handleMessage([]byte(`{"type":"join_game","payload":{"username":""}}`))
	assert.Equal(t, "Username is required", nextError(t, c).Message)

	c.handleMessage([]byte(`{"type":"kill_player","payload":"oops"}`))
	assert.Equal(t, "Invalid payload", nextError(t, c).Message)

	c.handleMessage([]byte(`{"type":"cast_vote"}`))
	assert.Equal(t, "Target ID is required", nextError(t, c).Message)

	c.handleMessage([]byte(`{"type":"move","payload":{"direction":"sideways"}}`))
	assert.Equal(t, "Unknown direction", nextError(t, c).Message)
}

func TestHandleJoinGame(t *testing.T) {
	c := newTestClient(&fakeSession{})

	c.handleMessage([]byte(`{"type":"join_game","payload":{"username":"alice"}}`))

	msg := next(t, c)
	require.Equal(t, MsgConnected, msg.Type)
	var payload ConnectedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, "ROOM42", payload.GameID)
	assert.Equal(t, domain.StatusWaiting, payload.GameState.GameStatus)
}

func TestHandleMessageMapsSessionErrors(t *testing.T) {
	tests := []struct {
		message string
		err     error
		code    string
	}{
		{`{"type":"join_game","payload":{"username":"a"}}`, domain.ErrGameFull, ErrCodeGameFull},
		{`{"type":"start_game"}`, domain.ErrNotHost, ErrCodeNotHost},
		{`{"type":"start_game"}`, domain.ErrNotEnoughPlayers, ErrCodeNotEnoughPlayers},
		{`{"type":"kill_player","payload":{"targetId":"p2"}}`, domain.ErrKillCooldown, ErrCodeKillCooldown},
		{`{"type":"report_body","payload":{"bodyId":"p2"}}`, domain.ErrTooFar, ErrCodeTooFar},
		{`{"type":"call_meeting"}`, domain.ErrNoMeetingsLeft, ErrCodeNoMeetingsLeft},
		{`{"type":"cast_vote","payload":{"targetId":"skip"}}`, domain.ErrAlreadyVoted, ErrCodeAlreadyVoted},
		{`{"type":"submit_solution","payload":{"taskId":"1","code":""}}`, domain.ErrWrongRole, ErrCodeWrongRole},
		{`{"type":"move","payload":{"direction":"up"}}`, domain.ErrInvalidPhase, ErrCodeInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c := newTestClient(&fakeSession{err: tt.err})
			c.handleMessage([]byte(tt.message))

			payload := nextError(t, c)
			assert.Equal(t, tt.code, payload.Code)
			assert.Equal(t, tt.err.Error(), payload.Message)
		})
	}
}

func TestHandleMessageForwardsArguments(t *testing.T) {
	session := &fakeSession{}
	c := newTestClient(session)

	c.handleMessage([]byte(`{"type":"move","payload":{"direction":"ArrowLeft"}}`))
	assert.Equal(t, app.DirLeft, session.moved)

	c.handleMessage([]byte(`{"type":"kill_player","payload":{"targetId":"p7"}}`))
	assert.Equal(t, "p7", session.target)

	c.handleMessage([]byte(`{"type":"cast_vote","payload":{"targetId":"skip"}}`))
	assert.Equal(t, domain.SkipVote, session.target)

	// Successful actions answer through game events only
	assert.Empty(t, c.send)
}

func TestHandleSubmitSolution(t *testing.T) {
	session := &fakeSession{result: challenge.Result{
		Success:     true,
		TestResults: []challenge.CaseResult{{Input: "2", ExpectedOutput: "4", ActualOutput: "4", Passed: true}},
	}}
	c := newTestClient(session)

	c.handleMessage([]byte(`{"type":"submit_solution","payload":{"taskId":"1","code":"function f(n){return n*2}"}}`))

	msg := next(t, c)
	require.Equal(t, MsgSolutionResult, msg.Type)
	var payload SolutionResultPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "1", payload.TaskID)
	assert.True(t, payload.Result.Success)
	require.Len(t, payload.Result.TestResults, 1)
	assert.Equal(t, "1", session.submitted)
}

func TestPing(t *testing.T) {
	c := newTestClient(&fakeSession{})
	c.handleMessage([]byte(`{"type":"ping"}`))
	assert.Equal(t, MsgPong, next(t, c).Type)
}

func TestErrorCodeUnwraps(t *testing.T) {
	assert.Equal(t, ErrCodeTaskCompleted, errorCode(fmt.Errorf("submit: %w", domain.ErrTaskCompleted)))
	assert.Equal(t, ErrCodeInternalError, errorCode(fmt.Errorf("boom")))
}

func TestHandlerJoinOverWebSocket(t *testing.T) {
	hub := app.NewGameHub(app.HubConfig{Settings: domain.DefaultGameSettings()},
		challenge.NewEvaluator(challenge.DefaultTimeout, nil), testLogger())
	t.Cleanup(hub.Close)
	session, err := hub.CreateGame()
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(hub, testLogger()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?roomCode=" + strings.ToLower(session.GetRoomCode())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "join_game",
		"payload": map[string]string{"username": "alice"},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg received
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != MsgConnected {
			continue
		}
		var payload ConnectedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.NotEmpty(t, payload.PlayerID)
		assert.Equal(t, payload.PlayerID, payload.GameState.CurrentPlayer.ID)
		break
	}
	assert.Equal(t, 1, session.GetPlayerCount())
}

func TestHandlerRejectsUnknownRoom(t *testing.T) {
	hub := app.NewGameHub(app.HubConfig{Settings: domain.DefaultGameSettings()}, nil, testLogger())
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(NewHandler(hub, testLogger()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?roomCode=NOPE00"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
