package replay

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeamongus/internal/domain"
)

const impostorGameLog = `
# three players, one impostor
{"type":"JOIN_GAME","player":{"id":"a","x":100,"y":100,"color":"#FF0000","role":"crewmate"}}
{"type":"JOIN_GAME","player":{"id":"b","x":100,"y":100,"color":"#0000FF","role":"crewmate"}}
{"type":"JOIN_GAME","player":{"id":"c","x":100,"y":100,"color":"#00AA00","role":"crewmate"}}
{"type":"ASSIGN_ROLES","roles":{"c":"impostor"}}
{"type":"START_GAME"}
{"type":"CALL_MEETING","callerId":"a"}
{"type":"START_VOTING"}
{"type":"CAST_VOTE","voterId":"a","suspectId":"skip"}
{"type":"END_MEETING"}
{"type":"KILL_PLAYER","targetId":"b"}
{"type":"KILL_PLAYER","targetId":"zzz"}
`

func TestRunImpostorWin(t *testing.T) {
	var steps []Step
	final, err := Run(strings.NewReader(impostorGameLog), domain.NewGameState(domain.Player{}, nil), func(s Step) {
		steps = append(steps, s)
	})
	require.NoError(t, err)

	require.Len(t, steps, 11)
	assert.Equal(t, 3, steps[0].Line)
	assert.Equal(t, domain.ActionStartGame, steps[4].Action.Type())
	assert.Equal(t, domain.StatusMeeting, steps[5].After.GameStatus)
	assert.Equal(t, domain.MeetingVoting, steps[6].After.Meeting.Phase)

	assert.Equal(t, domain.StatusCompleted, final.GameStatus)
	assert.Equal(t, domain.TeamImpostors, final.Winner)
	assert.Nil(t, final.Meeting)
}

func TestRunReportsBadLine(t *testing.T) {
	log := "{\"type\":\"START_GAME\"}\n{\"type\":\"TELEPORT\"}\n"

	state, err := Run(strings.NewReader(log), domain.NewGameState(domain.Player{}, nil), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownAction))
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, domain.StatusInProgress, state.GameStatus)
}

func TestPrinter(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printer := NewPrinter(&out)
	final, err := Run(strings.NewReader(impostorGameLog), domain.NewGameState(domain.Player{}, nil), printer.Print)
	require.NoError(t, err)
	printer.Summary(final)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[5], "status=meeting")
	assert.Contains(t, lines[5], "meeting=discussion(45s, 0 votes)")
	assert.Contains(t, lines[9], "winner=impostors")
	assert.Contains(t, lines[10], "(no change)")
	assert.Equal(t, "final status completed, impostors win", lines[11])
}
