package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/vectorstore"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed publisher profiles into the vector index",
	Long: `Embed every publisher profile from the roster into the VecLite file at
VECLITE_PATH. match --shortlist N then scores only the N closest publishers.

The embedding provider comes from veclite.yaml (VECLITE_CONFIG).`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Config.ValidateForVecLite(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	src, err := a.Roster(ctx)
	if err != nil {
		return err
	}
	publishers, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	index, err := vectorstore.New(vectorstore.Config{
		Path:       a.Config.VecLitePath,
		ConfigPath: a.Config.VecLiteConfig,
	})
	if err != nil {
		return err
	}
	defer index.Close()

	start := time.Now()
	n, err := index.Index(ctx, publishers)
	if err != nil {
		return fmt.Errorf("index publishers: %w", err)
	}

	took := time.Since(start).Round(time.Millisecond)
	slog.Info("publisher index updated", "indexed", n, "roster", len(publishers), "took", took)
	fmt.Printf("%s %d of %d profiles indexed, %d in %s\n",
		goodStyle.Render("✓"), n, len(publishers), index.Count(), a.Config.VecLitePath)
	return nil
}
