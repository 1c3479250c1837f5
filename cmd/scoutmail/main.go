package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/app"
	"github.com/abdulachik/scoutmail/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "scoutmail",
	Short: "Literary scouting pipeline: manuscript DNA, publisher matching and pitch dispatch",
	Long: `Scoutmail reads a manuscript, extracts its DNA with a language model,
scores it against a roster of publisher profiles and emails a pitch to the
selected publishers, never pitching the same book twice to the same house.`,
	SilenceUsage: true,
}

func init() {
	_ = godotenv.Load()
	slog.SetDefault(newLogger(os.Getenv("LOG_LEVEL")))
}

// newLogger writes text records to stderr. Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM. Long-running commands stop
// before their next batch or recipient.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// openApp loads configuration and opens the database.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	return a, nil
}
