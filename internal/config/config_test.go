package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeamongus/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 6, cfg.Game.RoomCodeLength)
	assert.Equal(t, 2*time.Second, cfg.Game.EvalTimeout)
	assert.Equal(t, domain.DefaultGameSettings(), cfg.Settings())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("MIN_PLAYERS", "5")
	t.Setenv("KILL_COOLDOWN", "45s")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.Game.MinPlayers)
	assert.Equal(t, 45*time.Second, cfg.Settings().KillCooldown)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--port=7070", "--num-impostors=3"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Settings().NumImpostors)
	assert.Equal(t, 10, cfg.Game.MaxPlayers)
}

func TestLoadDotEnv(t *testing.T) {
	// Registers restoration of the variable once the test ends
	t.Setenv("MAX_PLAYERS", "")
	require.NoError(t, os.Unsetenv("MAX_PLAYERS"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAX_PLAYERS=7\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Game.MaxPlayers)

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, LoadDotEnv(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"too few players", map[string]string{"MIN_PLAYERS": "2"}},
		{"max below min", map[string]string{"MIN_PLAYERS": "6", "MAX_PLAYERS": "5"}},
		{"no impostors", map[string]string{"NUM_IMPOSTORS": "0"}},
		{"short room code", map[string]string{"ROOM_CODE_LENGTH": "2"}},
		{"negative cooldown", map[string]string{"KILL_COOLDOWN": "-1s"}},
		{"zero eval timeout", map[string]string{"EVAL_TIMEOUT": "0s"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}
