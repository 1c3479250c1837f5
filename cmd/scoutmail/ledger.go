package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/ledger"
)

var (
	ledgerBook      string
	ledgerPublisher string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the send ledger",
}

var ledgerCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a book was already sent to a publisher",
	Long: `Check the ledger the same way dispatch does before sending.

Examples:
  scoutmail ledger check --book "Kuzey Yıldızı" --publisher "Deniz Kitap"`,
	RunE: runLedgerCheck,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger rows",
	RunE:  runLedgerList,
}

func init() {
	ledgerCheckCmd.Flags().StringVar(&ledgerBook, "book", "", "Book title (exact)")
	ledgerCheckCmd.Flags().StringVar(&ledgerPublisher, "publisher", "", "Publisher name")
	_ = ledgerCheckCmd.MarkFlagRequired("book")
	_ = ledgerCheckCmd.MarkFlagRequired("publisher")

	ledgerListCmd.Flags().StringVar(&ledgerBook, "book", "", "Only rows for this book")

	ledgerCmd.AddCommand(ledgerCheckCmd, ledgerListCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.Ledger(ctx)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if l.HasBeenSent(ctx, ledgerBook, ledgerPublisher) {
		fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("already sent"))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), goodStyle.Render("not sent"))
	}
	return nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.Ledger(ctx)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	entries, err := l.History(ctx, ledgerBook)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No ledger rows."))
		return nil
	}

	t := newTable("Date", "Book", "Publishers", "Rights holder", "Source")
	for _, e := range entries {
		date := mutedStyle.Render("?")
		if !e.Date.IsZero() {
			date = e.Date.Format(ledger.DateLayout)
		}
		t.row(date, e.Book, truncate(e.Publishers, 80), e.RightsHolder, e.Source)
	}
	t.render(cmd.OutOrStdout())
	return nil
}
