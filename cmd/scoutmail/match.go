package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/matcher"
	"github.com/abdulachik/scoutmail/internal/roster"
	"github.com/abdulachik/scoutmail/internal/vectorstore"
)

var (
	matchSession     string
	matchDepartments []string
	matchShortlist   int
	matchMinScore    int
	matchListDepts   bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the session's book against the publisher roster",
	Long: `Send the book's DNA and the publisher profiles to the oracle in batches
and print the publishers ranked by compatibility. A batch the oracle fails
on is reported with score 0 and does not stop the run.

Examples:
  scoutmail match
  scoutmail match --departments Edebiyat,Polisiye --shortlist 20
  scoutmail match --list-departments`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchSession, "session", "", "Session ID (default: latest)")
	matchCmd.Flags().StringSliceVar(&matchDepartments, "departments", nil, "Only publishers of these departments")
	matchCmd.Flags().IntVar(&matchShortlist, "shortlist", 0, "Pre-select the N closest publishers from the vector index")
	matchCmd.Flags().IntVar(&matchMinScore, "min-score", 0, "Hide results below this score")
	matchCmd.Flags().BoolVar(&matchListDepts, "list-departments", false, "List roster departments and exit")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.Roster(ctx)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	publishers, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	if matchListDepts {
		for _, d := range roster.Departments(publishers) {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	}

	sess, err := a.Sessions.Load(ctx, matchSession)
	if err != nil {
		return err
	}
	if sess.Profile == nil {
		return fmt.Errorf("session %s has no DNA profile; run dna first", sess.ID)
	}

	publishers = roster.FilterDepartments(publishers, matchDepartments)
	if len(publishers) == 0 {
		return fmt.Errorf("no publishers in departments %s", strings.Join(matchDepartments, ", "))
	}

	if matchShortlist > 0 {
		index, err := vectorstore.New(vectorstore.Config{
			Path:       a.Config.VecLitePath,
			ConfigPath: a.Config.VecLiteConfig,
		})
		if err != nil {
			slog.Warn("publisher index unavailable, matching full roster", "error", err)
		} else {
			publishers = vectorstore.Shortlist(ctx, index, sess.Profile, publishers, matchShortlist)
			index.Close()
		}
	}

	engine, err := a.Matcher(ctx, newProgress(os.Stderr, "Matching publishers..."))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Match only fails on cancellation, and still returns a full result set.
	results, matchErr := engine.Match(ctx, sess.Profile, publishers)
	if err := a.Sessions.SaveMatches(context.WithoutCancel(ctx), sess, results); err != nil {
		return err
	}

	printMatches(cmd, matcher.AtLeast(matcher.Rank(results), matchMinScore))
	if matchErr != nil {
		return fmt.Errorf("match interrupted: %w", matchErr)
	}
	return nil
}

func printMatches(cmd *cobra.Command, results []matcher.Result) {
	t := newTable("Score", "Publisher", "Rationale")
	for _, r := range results {
		score := scoreStyle(r.Score, r.Degraded).Render(fmt.Sprintf("%3d", r.Score))
		t.row(score, truncate(r.Publisher, 40), truncate(r.Rationale, 120))
	}
	t.render(cmd.OutOrStdout())
}
