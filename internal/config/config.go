package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeamongus/internal/domain"
)

// Keys shared by flags, environment variables and defaults. The
// environment name is the key upper-cased with dashes replaced.
const (
	KeyPort              = "port"
	KeyHost              = "host"
	KeyEnv               = "env"
	KeyPublicURL         = "public-url"
	KeyMinPlayers        = "min-players"
	KeyMaxPlayers        = "max-players"
	KeyNumImpostors      = "num-impostors"
	KeyTaskGoal          = "task-completion-goal"
	KeyEmergencyMeetings = "emergency-meetings"
	KeyKillCooldown      = "kill-cooldown"
	KeyRoomCodeLength    = "room-code-length"
	KeyStaleGameTimeout  = "stale-game-timeout"
	KeyEvalTimeout       = "eval-timeout"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      string
	Host      string
	Env       string // "development" or "production"
	PublicURL string // Base URL encoded in invite QR codes
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers         int
	MaxPlayers         int
	NumImpostors       int
	TaskCompletionGoal int
	EmergencyMeetings  int
	KillCooldown       time.Duration
	RoomCodeLength     int
	StaleGameTimeout   time.Duration
	EvalTimeout        time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// New returns a viper instance with defaults and environment lookup
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := domain.DefaultGameSettings()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyHost, "0.0.0.0")
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyPublicURL, "")
	v.SetDefault(KeyMinPlayers, defaults.MinPlayers)
	v.SetDefault(KeyMaxPlayers, defaults.MaxPlayers)
	v.SetDefault(KeyNumImpostors, defaults.NumImpostors)
	v.SetDefault(KeyTaskGoal, defaults.TaskCompletionGoal)
	v.SetDefault(KeyEmergencyMeetings, defaults.EmergencyMeetings)
	v.SetDefault(KeyKillCooldown, defaults.KillCooldown)
	v.SetDefault(KeyRoomCodeLength, 6)
	v.SetDefault(KeyStaleGameTimeout, 2*time.Hour)
	v.SetDefault(KeyEvalTimeout, 2*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	return v
}

// BindFlags registers the server flags on fs and binds them to v
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.StringP(KeyPort, "p", v.GetString(KeyPort), "port to listen on (env: PORT)")
	fs.String(KeyHost, v.GetString(KeyHost), "address to bind to (env: HOST)")
	fs.String(KeyEnv, v.GetString(KeyEnv), "development or production (env: ENV)")
	fs.String(KeyPublicURL, v.GetString(KeyPublicURL), "base URL used in invite links (env: PUBLIC_URL)")
	fs.Int(KeyMinPlayers, v.GetInt(KeyMinPlayers), "players needed to start (env: MIN_PLAYERS)")
	fs.Int(KeyMaxPlayers, v.GetInt(KeyMaxPlayers), "room capacity (env: MAX_PLAYERS)")
	fs.Int(KeyNumImpostors, v.GetInt(KeyNumImpostors), "impostors per game (env: NUM_IMPOSTORS)")
	fs.Int(KeyTaskGoal, v.GetInt(KeyTaskGoal), "completed tasks that win for crewmates (env: TASK_COMPLETION_GOAL)")
	fs.Int(KeyEmergencyMeetings, v.GetInt(KeyEmergencyMeetings), "emergency meetings per player (env: EMERGENCY_MEETINGS)")
	fs.Duration(KeyKillCooldown, v.GetDuration(KeyKillCooldown), "time between kills (env: KILL_COOLDOWN)")
	fs.Int(KeyRoomCodeLength, v.GetInt(KeyRoomCodeLength), "room code length (env: ROOM_CODE_LENGTH)")
	fs.Duration(KeyStaleGameTimeout, v.GetDuration(KeyStaleGameTimeout), "age after which idle rooms are removed (env: STALE_GAME_TIMEOUT)")
	fs.Duration(KeyEvalTimeout, v.GetDuration(KeyEvalTimeout), "time limit per test case (env: EVAL_TIMEOUT)")
	fs.String(KeyLogLevel, v.GetString(KeyLogLevel), "debug, info, warn or error (env: LOG_LEVEL)")
	fs.String(KeyLogFormat, v.GetString(KeyLogFormat), "text or json (env: LOG_FORMAT)")

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil && err == nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// LoadDotEnv loads variables from a .env file. A missing file is not an
// error; variables already in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString(KeyPort),
			Host:      v.GetString(KeyHost),
			Env:       v.GetString(KeyEnv),
			PublicURL: strings.TrimRight(v.GetString(KeyPublicURL), "/"),
		},
		Game: GameConfig{
			MinPlayers:         v.GetInt(KeyMinPlayers),
			MaxPlayers:         v.GetInt(KeyMaxPlayers),
			NumImpostors:       v.GetInt(KeyNumImpostors),
			TaskCompletionGoal: v.GetInt(KeyTaskGoal),
			EmergencyMeetings:  v.GetInt(KeyEmergencyMeetings),
			KillCooldown:       v.GetDuration(KeyKillCooldown),
			RoomCodeLength:     v.GetInt(KeyRoomCodeLength),
			StaleGameTimeout:   v.GetDuration(KeyStaleGameTimeout),
			EvalTimeout:        v.GetDuration(KeyEvalTimeout),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	g := c.Game
	if c.Server.Port == "" {
		return errors.New("port must not be empty")
	}
	if g.MinPlayers < 3 {
		return fmt.Errorf("min players must be at least 3: %d", g.MinPlayers)
	}
	if g.MaxPlayers < g.MinPlayers {
		return fmt.Errorf("max players (%d) is below min players (%d)", g.MaxPlayers, g.MinPlayers)
	}
	if g.NumImpostors < 1 {
		return fmt.Errorf("num impostors must be at least 1: %d", g.NumImpostors)
	}
	if g.EmergencyMeetings < 0 || g.TaskCompletionGoal < 0 || g.KillCooldown < 0 {
		return errors.New("game limits must not be negative")
	}
	if g.RoomCodeLength < 4 {
		return fmt.Errorf("room code length must be at least 4: %d", g.RoomCodeLength)
	}
	if g.EvalTimeout <= 0 {
		return fmt.Errorf("eval timeout must be positive: %s", g.EvalTimeout)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}

// Settings converts the game configuration into room settings
func (c *Config) Settings() domain.GameSettings {
	settings := domain.DefaultGameSettings()
	settings.MinPlayers = c.Game.MinPlayers
	settings.MaxPlayers = c.Game.MaxPlayers
	settings.NumImpostors = c.Game.NumImpostors
	settings.TaskCompletionGoal = c.Game.TaskCompletionGoal
	settings.EmergencyMeetings = c.Game.EmergencyMeetings
	settings.KillCooldown = c.Game.KillCooldown
	return settings
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
