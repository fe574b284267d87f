package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeamongus/internal/domain"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.Action
	}{
		{`{"type":"START_GAME"}`, domain.StartGame{}},
		{`{"type":"LEAVE_GAME","playerId":"p1"}`, domain.LeaveGame{PlayerID: "p1"}},
		{`{"type":"UPDATE_PLAYER_POSITION","playerId":"p1","position":{"x":10,"y":20}}`,
			domain.UpdatePlayerPosition{PlayerID: "p1", Position: domain.Position{X: 10, Y: 20}}},
		{`{"type":"COMPLETE_TASK","taskId":"2","playerId":"p1"}`, domain.CompleteTask{TaskID: "2", PlayerID: "p1"}},
		{`{"type":"REPORT_BODY","reporterId":"p2","location":{"x":1,"y":2}}`,
			domain.ReportBody{ReporterID: "p2", Location: domain.Position{X: 1, Y: 2}}},
		{`{"type":"CAST_VOTE","voterId":"p1","suspectId":"skip"}`, domain.CastVote{VoterID: "p1", SuspectID: domain.SkipVote}},
		{`{"type":"END_MEETING"}`, domain.EndMeeting{}},
		{`{"type":"END_GAME","winner":"impostors"}`, domain.EndGame{Winner: domain.TeamImpostors}},
	}

	for _, tt := range tests {
		action, err := domain.DecodeAction([]byte(tt.input))
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, action)
	}
}

func TestDecodeActionErrors(t *testing.T) {
	_, err := domain.DecodeAction([]byte(`{"type":"SABOTAGE"}`))
	assert.True(t, errors.Is(err, domain.ErrUnknownAction))

	_, err = domain.DecodeAction([]byte(`{"type":"JOIN_GAME"}`))
	assert.Error(t, err)

	_, err = domain.DecodeAction([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeActionUsesWireNames(t *testing.T) {
	data, err := domain.EncodeAction(domain.CallMeeting{CallerID: "p1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"CALL_MEETING","callerId":"p1"}`, string(data))

	data, err = domain.EncodeAction(domain.JoinGame{Player: domain.Player{ID: "p1", Color: "#fff", Role: domain.RoleCrewmate}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"JOIN_GAME","player":{"id":"p1","x":0,"y":0,"color":"#fff","role":"crewmate"}}`, string(data))

	_, err = domain.EncodeAction(nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}
