package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeamongus/internal/app"
	"codeamongus/internal/challenge"
	"codeamongus/internal/config"
	"codeamongus/internal/domain"
	"codeamongus/internal/replay"
	httpTransport "codeamongus/internal/transport/http"
)

//go:embed web/*
var webFS embed.FS

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}

func newRootCmd() *cobra.Command {
	var envFile string
	v := config.New()

	cmd := &cobra.Command{
		Use:           "codeamongus",
		Short:         "Game server for a social deduction game won by solving coding tasks.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file to load environment variables from")
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		cobra.CheckErr(err)
	}

	cmd.AddCommand(newReplayCmd())
	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <log.jsonl>",
		Short: "Re-run a recorded action log through the game reducer and print each step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			printer := replay.NewPrinter(cmd.OutOrStdout())
			final, err := replay.Run(f, domain.NewGameState(domain.Player{}, app.DefaultTasks()), printer.Print)
			if err != nil {
				return fmt.Errorf("replay %s: %w", args[0], err)
			}
			printer.Summary(final)
			return nil
		},
	}
}

func serve(ctx context.Context, v *viper.Viper) error {
	// Load configuration
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting codeamongus game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Create game hub
	evaluator := challenge.NewEvaluator(cfg.Game.EvalTimeout, logger)
	hub := app.NewGameHub(app.HubConfig{
		Settings:       cfg.Settings(),
		RoomCodeLength: cfg.Game.RoomCodeLength,
		StaleTimeout:   cfg.Game.StaleGameTimeout,
	}, evaluator, logger)
	defer hub.Close()

	// Create HTTP server
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("web assets: %w", err)
	}
	server := httpTransport.NewServer(cfg, hub, logger, webContent)

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		logger.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
