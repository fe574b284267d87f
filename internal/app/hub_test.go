package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeamongus/internal/domain"
)

func newTestHub(t *testing.T) *GameHub {
	t.Helper()
	hub := NewGameHub(HubConfig{Settings: domain.DefaultGameSettings()}, &stubValidator{}, testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestCreateGame(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateGame()
	require.NoError(t, err)

	code := session.GetRoomCode()
	assert.Len(t, code, DefaultRoomCodeLength)
	for _, c := range code {
		assert.Contains(t, RoomCodeChars, string(c))
	}

	found, err := hub.GetSession(code)
	require.NoError(t, err)
	assert.Same(t, session, found)
	assert.Equal(t, 1, hub.GetSessionCount())
	assert.Equal(t, domain.StatusWaiting, found.GetStatus())
}

func TestGetSessionMissing(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.GetSession("NOPE00")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestHubCounts(t *testing.T) {
	hub := newTestHub(t)

	a, err := hub.CreateGame()
	require.NoError(t, err)
	b, err := hub.CreateGame()
	require.NoError(t, err)
	assert.NotEqual(t, a.GetRoomCode(), b.GetRoomCode())

	_, err = a.AddPlayer("p1", "one")
	require.NoError(t, err)
	_, err = b.AddPlayer("p2", "two")
	require.NoError(t, err)
	_, err = b.AddPlayer("p3", "three")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.GetSessionCount())
	assert.Equal(t, 3, hub.GetTotalPlayerCount())

	hub.DeleteSession(a.GetRoomCode())
	assert.Equal(t, 1, hub.GetSessionCount())
	_, err = hub.GetSession(a.GetRoomCode())
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestCleanupStaleGames(t *testing.T) {
	hub := newTestHub(t)

	empty, err := hub.CreateGame()
	require.NoError(t, err)
	busy, err := hub.CreateGame()
	require.NoError(t, err)
	_, err = busy.AddPlayer("p1", "one")
	require.NoError(t, err)

	assert.Zero(t, hub.cleanupStaleGames(time.Now()))

	removed := hub.cleanupStaleGames(time.Now().Add(StaleGameTimeout + time.Minute))
	assert.Equal(t, 1, removed)

	_, err = hub.GetSession(empty.GetRoomCode())
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	_, err = hub.GetSession(busy.GetRoomCode())
	assert.NoError(t, err)
}
