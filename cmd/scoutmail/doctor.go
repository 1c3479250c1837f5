package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/app"
	"github.com/abdulachik/scoutmail/internal/health"
	"github.com/abdulachik/scoutmail/internal/vectorstore"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and connectivity of every collaborator",
	Long: `Run preflight checks: database, oracle configuration, ledger backend,
publisher roster, SMTP login and the publisher index. Components without
configuration are reported as skipped.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tracker := health.NewTracker()
	tracker.Run(ctx, doctorChecks(a))

	t := newTable()
	for _, s := range tracker.All() {
		state := goodStyle.Render("ok")
		switch {
		case s.Skipped:
			state = mutedStyle.Render("skip")
		case !s.Healthy:
			state = badStyle.Render("FAIL")
		}
		t.row(headerStyle.Render(s.Component), state, truncate(s.Message, 100))
	}
	t.render(cmd.OutOrStdout())

	if !tracker.Healthy() {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}

func doctorChecks(a *app.App) []health.Check {
	cfg := a.Config
	return []health.Check{
		{Component: "database", Run: func(ctx context.Context) (string, error) {
			n, err := a.Store.CountSessions(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%d sessions)", cfg.DatabasePath, n), nil
		}},
		{Component: "oracle", Run: func(ctx context.Context) (string, error) {
			if _, err := a.Oracle(ctx); err != nil {
				return "", err
			}
			return cfg.OracleProvider, nil
		}},
		{Component: "ledger", Run: func(ctx context.Context) (string, error) {
			l, err := a.Ledger(ctx)
			if err != nil {
				return "", err
			}
			rows, err := l.History(ctx, "")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s backend, %d rows", cfg.LedgerBackend, len(rows)), nil
		}},
		{Component: "roster", Run: func(ctx context.Context) (string, error) {
			src, err := a.Roster(ctx)
			if err != nil {
				return "", err
			}
			pubs, err := src.Load(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d publishers", len(pubs)), nil
		}},
		{Component: "smtp", Run: func(ctx context.Context) (string, error) {
			if cfg.SMTPUsername == "" {
				return "", health.ErrSkipped
			}
			t, err := a.Transport()
			if err != nil {
				return "", err
			}
			if err := t.ValidateCredentials(ctx); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s:%d as %s", cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername), nil
		}},
		{Component: "research", Run: func(ctx context.Context) (string, error) {
			if cfg.FirecrawlAPIKey == "" {
				return "", health.ErrSkipped
			}
			return "firecrawl", nil
		}},
		{Component: "veclite", Run: func(ctx context.Context) (string, error) {
			index, err := vectorstore.New(vectorstore.Config{Path: cfg.VecLitePath, ConfigPath: cfg.VecLiteConfig})
			if err != nil {
				return "", err
			}
			defer index.Close()
			return fmt.Sprintf("%s, %d publishers", cfg.VecLitePath, index.Count()), nil
		}},
	}
}
