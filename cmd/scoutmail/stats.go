package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/vectorstore"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  `Display statistics about sessions, the local ledger, dispatch outcomes and the publisher index.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := a.Store.CountSessions(ctx)
	if err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}

	ledgerRows, err := a.Store.CountLedgerEntries(ctx)
	if err != nil {
		return fmt.Errorf("count ledger entries: %w", err)
	}

	outcomes, err := a.Store.CountDispatchOutcomesByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count dispatch outcomes: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render("=== Scoutmail Statistics ==="))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", a.Config.DatabasePath)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Sessions: %d\n", sessions)
	fmt.Fprintf(out, "Local ledger rows: %d (backend: %s)\n", ledgerRows, a.Config.LedgerBackend)
	fmt.Fprintln(out)

	if len(outcomes) > 0 {
		fmt.Fprintln(out, "Dispatch outcomes:")
		for _, row := range outcomes {
			fmt.Fprintf(out, "  %s: %d\n", row.Status, row.Count)
		}
		fmt.Fprintln(out)
	}

	if sess, err := a.Sessions.Load(ctx, ""); err == nil {
		fmt.Fprintln(out, "Latest session:")
		fmt.Fprintf(out, "  ID: %s\n", sess.ID)
		fmt.Fprintf(out, "  Book: %s\n", sess.Book())
		fmt.Fprintf(out, "  Words: %d\n", sess.WordCount)
		fmt.Fprintf(out, "  Matches: %d\n", len(sess.Matches))
		fmt.Fprintln(out)
	}

	// Check VecLite stats if configured
	if a.Config.VecLitePath != "" {
		index, err := vectorstore.New(vectorstore.Config{
			Path:       a.Config.VecLitePath,
			ConfigPath: a.Config.VecLiteConfig,
		})
		if err != nil {
			slog.Warn("failed to open VecLite", "error", err)
		} else {
			defer index.Close()
			stats := index.Stats()
			fmt.Fprintln(out, "VecLite:")
			fmt.Fprintf(out, "  Path: %s\n", a.Config.VecLitePath)
			fmt.Fprintf(out, "  Publishers: %d\n", stats.Count)
			fmt.Fprintf(out, "  Dimension: %d\n", stats.Dimension)
			fmt.Fprintf(out, "  Distance: %s\n", stats.DistanceType)
			fmt.Fprintf(out, "  Index: %s\n", stats.IndexType)
			fmt.Fprintln(out)
		}
	}

	return nil
}
