package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/scanner"
)

var dnaFile string

var dnaCmd = &cobra.Command{
	Use:   "dna",
	Short: "Extract a manuscript's DNA profile and start a session",
	Long: `Load a manuscript, scan it for sensitive signals and ask the oracle for
its DNA profile. The result is stored as a new session that later commands
(intel, match) work on.

Examples:
  scoutmail dna --file manuscript.pdf`,
	RunE: runDNA,
}

func init() {
	dnaCmd.Flags().StringVar(&dnaFile, "file", "", "Manuscript file (.pdf, .txt, .md)")
	_ = dnaCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(dnaCmd)
}

func runDNA(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ext, err := a.Extractor(ctx)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	raw, err := extractor.LoadFile(dnaFile)
	if err != nil {
		return fmt.Errorf("load manuscript: %w", err)
	}
	m := extractor.Prepare(filepath.Base(dnaFile), raw)
	if m.Empty() {
		return fmt.Errorf("manuscript %s has no readable text", m.Name)
	}
	scan := scanner.Scan(m.Text)

	sess, err := a.Sessions.Start(ctx, m, scan)
	if err != nil {
		return err
	}
	slog.Info("session started", "session", sess.ID, "manuscript", m.Name, "words", m.WordCount)

	profile, err := ext.Extract(ctx, m.Text, scan)
	if err != nil {
		return fmt.Errorf("extract DNA: %w", err)
	}
	if err := a.Sessions.SaveProfile(ctx, sess, profile); err != nil {
		return err
	}

	printProfile(cmd, sess.ID, profile, scan)
	return nil
}

func printProfile(cmd *cobra.Command, sessionID string, p *extractor.BookProfile, scan scanner.Result) {
	out := cmd.OutOrStdout()
	row := func(label, value string) {
		fmt.Fprintf(out, "%s %s\n", headerStyle.Render(fmt.Sprintf("%-20s", label)), value)
	}

	row("Session", sessionID)
	row("Title", p.Title)
	row("Author", p.Author)
	row("Genre", p.PrimaryGenre)
	row("Subgenres", p.Subgenres)
	row("Audience", p.TargetAudience)
	row("Language", p.LanguageDifficulty)
	row("Pacing", p.Pacing)
	row("Atmosphere", p.Atmosphere)
	row("Themes", p.Themes)
	row("Comparable titles", p.ComparableTitles)
	fmt.Fprintf(out, "\n%s\n%s\n\n", headerStyle.Render("Pitch"), p.Pitch)

	fmt.Fprintln(out, headerStyle.Render("Sensitive content"))
	for _, cat := range scanner.Categories {
		v := p.Risk(cat)
		style := mutedStyle
		if v.Present {
			style = warnStyle
		}
		signal := ""
		if token := scan.Token(cat); token != "" {
			signal = mutedStyle.Render(fmt.Sprintf(" (scanner: %s)", token))
		}
		fmt.Fprintf(out, "  %-26s %s%s\n", cat, style.Render(v.Raw), signal)
	}
}
