package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayCommand(t *testing.T) {
	color.NoColor = true

	log := `{"type":"JOIN_GAME","player":{"id":"a","x":100,"y":100,"color":"#FF0000","role":"crewmate"}}
{"type":"JOIN_GAME","player":{"id":"b","x":100,"y":100,"color":"#0000FF","role":"crewmate"}}
{"type":"JOIN_GAME","player":{"id":"c","x":100,"y":100,"color":"#00AA00","role":"crewmate"}}
{"type":"ASSIGN_ROLES","roles":{"c":"impostor"}}
{"type":"START_GAME"}
{"type":"COMPLETE_TASK","taskId":"1","playerId":"a"}
{"type":"KILL_PLAYER","targetId":"b"}
`
	path := filepath.Join(t.TempDir(), "game.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(log), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"replay", "--env-file", "", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "tasks=1/3")
	assert.Contains(t, out.String(), "final status completed, impostors win")
}

func TestReplayCommandMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", "--env-file", "", filepath.Join(t.TempDir(), "nope.jsonl")})
	assert.Error(t, cmd.Execute())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "ERROR", parseLogLevel("error").String())
	assert.Equal(t, "INFO", parseLogLevel("verbose").String())
}
