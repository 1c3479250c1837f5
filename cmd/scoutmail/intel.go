package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	intelSession string
	intelURL     string
	intelFile    string
)

var intelCmd = &cobra.Command{
	Use:   "intel",
	Short: "Summarize market intelligence for the session's book",
	Long: `Fetch a web page about the book (reviews, rights listings, Goodreads)
or read a saved text file, and condense it into a market intelligence
record attached to the session. Failures leave the record empty.

Examples:
  scoutmail intel --url https://www.goodreads.com/book/show/123
  scoutmail intel --session 6f1c... --file notes.txt`,
	RunE: runIntel,
}

func init() {
	intelCmd.Flags().StringVar(&intelSession, "session", "", "Session ID (default: latest)")
	intelCmd.Flags().StringVar(&intelURL, "url", "", "Page to fetch")
	intelCmd.Flags().StringVar(&intelFile, "file", "", "Text file to read instead of fetching")
	rootCmd.AddCommand(intelCmd)
}

func runIntel(cmd *cobra.Command, args []string) error {
	if intelURL == "" && intelFile == "" {
		return fmt.Errorf("must specify --url or --file")
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	refiner, err := a.Refiner(ctx)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	sess, err := a.Sessions.Load(ctx, intelSession)
	if err != nil {
		return err
	}

	var raw string
	if intelFile != "" {
		data, err := os.ReadFile(intelFile)
		if err != nil {
			return fmt.Errorf("read intel file: %w", err)
		}
		raw = string(data)
	} else {
		raw = a.Fetcher().Fetch(ctx, intelURL)
	}

	intel := refiner.Refine(ctx, raw)
	if err := a.Sessions.SaveIntel(ctx, sess, intel); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if intel.IsEmpty() {
		fmt.Fprintln(out, mutedStyle.Render("No intelligence could be extracted."))
		return nil
	}
	row := func(label, value string) {
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(out, "%s %s\n", headerStyle.Render(fmt.Sprintf("%-14s", label)), value)
	}
	row("Book", sess.Book())
	row("Rating", intel.Rating)
	row("Pages", intel.PageCount)
	row("Awards", intel.Awards)
	row("Rights sales", intel.RightsSales)
	row("Author", intel.AuthorBio)
	row("Summary", intel.Summary)
	return nil
}
