package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/scanner"
)

var scanFile string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Flag sensitive-content signals in a manuscript",
	Long: `Scan a manuscript for sensitive-content keywords without calling the oracle.

Examples:
  scoutmail scan --file manuscript.pdf`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFile, "file", "", "Manuscript file (.pdf, .txt, .md)")
	_ = scanCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	raw, err := extractor.LoadFile(scanFile)
	if err != nil {
		return fmt.Errorf("load manuscript: %w", err)
	}
	m := extractor.Prepare(filepath.Base(scanFile), raw)
	result := scanner.Scan(m.Text)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%d words, %d chapters)\n\n",
		headerStyle.Render("Manuscript:"), m.Name, m.WordCount, len(m.Chapters))

	for _, cat := range scanner.Categories {
		if token := result.Token(cat); token != "" {
			fmt.Fprintf(out, "  %-26s %s\n", cat, warnStyle.Render(token))
		} else {
			fmt.Fprintf(out, "  %-26s %s\n", cat, mutedStyle.Render("-"))
		}
	}
	return nil
}
