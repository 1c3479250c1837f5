package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/dispatch"
	"github.com/abdulachik/scoutmail/internal/mailer"
	"github.com/abdulachik/scoutmail/internal/roster"
)

var (
	dispatchBook          string
	dispatchSession       string
	dispatchRecipients    string
	dispatchSheet         string
	dispatchSubject       string
	dispatchBody          string
	dispatchRightsContact string
	dispatchAttach        []string
	dispatchCc            []string
	dispatchYes           bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Email the pitch to the selected recipients",
	Long: `Send the pitch to each ticked recipient of a spreadsheet, one message per
recipient. Publishers already recorded in the ledger for this book are
skipped. Successful sends are added to the ledger as one row.

The body file may be HTML or markdown; {{publisher}} and {{salutation}}
are replaced per recipient.

Examples:
  scoutmail dispatch --recipients list.xlsx --subject "Rights offer" \
    --body pitch.html --rights-contact agent@example.com --attach onepager.pdf`,
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchBook, "book", "", "Book title for the ledger (default: session's title)")
	dispatchCmd.Flags().StringVar(&dispatchSession, "session", "", "Session ID (default: latest)")
	dispatchCmd.Flags().StringVar(&dispatchRecipients, "recipients", "", "Recipient list (.xlsx or .csv)")
	dispatchCmd.Flags().StringVar(&dispatchSheet, "sheet", "", "Worksheet of the .xlsx list (default: first)")
	dispatchCmd.Flags().StringVar(&dispatchSubject, "subject", "", "Email subject")
	dispatchCmd.Flags().StringVar(&dispatchBody, "body", "", "Email body file (HTML or markdown)")
	dispatchCmd.Flags().StringVar(&dispatchRightsContact, "rights-contact", "", "Rights holder contact for the ledger")
	dispatchCmd.Flags().StringSliceVar(&dispatchAttach, "attach", nil, "Files to attach")
	dispatchCmd.Flags().StringSliceVar(&dispatchCc, "cc", nil, "Cc addresses")
	dispatchCmd.Flags().BoolVarP(&dispatchYes, "yes", "y", false, "Send without asking for confirmation")
	_ = dispatchCmd.MarkFlagRequired("recipients")
	_ = dispatchCmd.MarkFlagRequired("subject")
	_ = dispatchCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Config.ValidateForDispatch(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	book := dispatchBook
	if book == "" {
		sess, err := a.Sessions.Load(ctx, dispatchSession)
		if err != nil {
			return fmt.Errorf("no --book given and no session: %w", err)
		}
		book = sess.Book()
	}

	recipients, err := roster.LoadRecipients(dispatchRecipients, dispatchSheet)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients selected in %s", dispatchRecipients)
	}

	rawBody, err := os.ReadFile(dispatchBody)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	body, err := mailer.FormatBody(string(rawBody))
	if err != nil {
		return err
	}
	if body == "" {
		return fmt.Errorf("body file %s is empty", dispatchBody)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n%s %s\n%s %d\n\n",
		headerStyle.Render("Book:"), book,
		headerStyle.Render("Subject:"), dispatchSubject,
		headerStyle.Render("Recipients:"), len(recipients))
	for _, r := range recipients {
		fmt.Fprintf(out, "  %s %s\n", r.Publisher, mutedStyle.Render("<"+r.Email+">"))
	}
	fmt.Fprintln(out)

	if !dispatchYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Send to %d recipients?", len(recipients))) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	transport, err := a.Transport()
	if err != nil {
		return err
	}
	if err := transport.ValidateCredentials(ctx); err != nil {
		return fmt.Errorf("validate smtp credentials: %w", err)
	}

	controller, err := a.Dispatcher(ctx, transport)
	if err != nil {
		return err
	}

	report, runErr := controller.Dispatch(ctx, dispatch.Request{
		Book:          book,
		Recipients:    recipients,
		Subject:       dispatchSubject,
		Body:          body,
		RightsContact: dispatchRightsContact,
		ReplyTo:       a.Config.ReplyTo,
		Cc:            dispatchCc,
		Attachments:   dispatchAttach,
	})

	printReport(cmd, report)
	if runErr != nil {
		return fmt.Errorf("dispatch interrupted: %w", runErr)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *dispatch.Report) {
	out := cmd.OutOrStdout()
	t := newTable("Status", "Publisher", "Email", "Message")
	for _, o := range report.Outcomes {
		style := mutedStyle
		switch o.Status {
		case dispatch.StatusSent:
			style = goodStyle
		case dispatch.StatusSkipped:
			style = warnStyle
		case dispatch.StatusFailed:
			style = badStyle
		}
		t.row(style.Render(strings.ToUpper(string(o.Status))),
			o.Recipient.Publisher,
			o.Recipient.Email,
			truncate(o.Message, 80))
	}
	t.render(out)

	fmt.Fprintf(out, "\nsent %d, skipped %d, failed %d, pending %d (run %s)\n",
		report.Count(dispatch.StatusSent),
		report.Count(dispatch.StatusSkipped),
		report.Count(dispatch.StatusFailed),
		report.Count(dispatch.StatusPending),
		report.RunID)
	if report.LedgerErr != nil {
		fmt.Fprintln(out, badStyle.Render("Ledger not updated: "+report.LedgerErr.Error()))
	}
}
