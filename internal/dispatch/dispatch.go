// Package dispatch sends a pitch to a recipient list, skipping publishers the
// ledger says were already contacted for the same book.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdulachik/scoutmail/internal/mailer"
	"github.com/abdulachik/scoutmail/internal/notify"
	"github.com/abdulachik/scoutmail/internal/oracle"
	"github.com/abdulachik/scoutmail/internal/roster"
)

// Status is the state of one recipient in a run.
type Status string

const (
	StatusPending Status = "pending"
	StatusSkipped Status = "skipped"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

const alreadySent = "already sent for this book"

// Ledger is the send history the controller consults and updates.
type Ledger interface {
	HasBeenSent(ctx context.Context, book, publisher string) bool
	Record(ctx context.Context, book string, publishers []string, rightsContact string) error
}

// Recorder persists per-recipient outcomes.
type Recorder interface {
	RecordOutcome(ctx context.Context, runID, book string, o Outcome) error
}

// Request describes one dispatch run.
type Request struct {
	Book          string
	Recipients    []roster.Recipient
	Subject       string
	Body          string // HTML; may use {{publisher}} and {{salutation}}
	RightsContact string
	ReplyTo       string
	Cc            []string
	Attachments   []string
}

// Outcome is what happened to one recipient.
type Outcome struct {
	Recipient roster.Recipient
	Status    Status
	Message   string
}

// Report summarizes a run. Outcomes follow the request order.
type Report struct {
	RunID      string
	Book       string
	Outcomes   []Outcome
	StartedAt  time.Time
	FinishedAt time.Time
	// LedgerErr is set when the successes could not be recorded.
	LedgerErr error
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Sent returns the publishers that received the email, in order.
func (r *Report) Sent() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Status == StatusSent {
			names = append(names, o.Recipient.Publisher)
		}
	}
	return names
}

// Summary renders the report as plain text.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Book: %s\nRun: %s\n", r.Book, r.RunID)
	fmt.Fprintf(&b, "sent: %d, skipped: %d, failed: %d, pending: %d\n",
		r.Count(StatusSent), r.Count(StatusSkipped), r.Count(StatusFailed), r.Count(StatusPending))
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "\n%-8s %s <%s>", strings.ToUpper(string(o.Status)), o.Recipient.Publisher, o.Recipient.Email)
		if o.Message != "" {
			fmt.Fprintf(&b, ": %s", o.Message)
		}
	}
	if r.LedgerErr != nil {
		fmt.Fprintf(&b, "\n\nledger not updated: %v", r.LedgerErr)
	}
	return b.String()
}

// Controller runs dispatches.
type Controller struct {
	ledger    Ledger
	transport mailer.Transport
	limiter   oracle.Limiter
	recorder  Recorder
	notifier  notify.Notifier
	newID     func() string
	now       func() time.Time
}

// Config holds configuration for the controller.
type Config struct {
	Ledger    Ledger
	Transport mailer.Transport
	Limiter   oracle.Limiter  // paces sends; default: no limit
	Recorder  Recorder        // optional
	Notifier  notify.Notifier // optional
}

// New creates a Controller.
func New(cfg Config) *Controller {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = oracle.NoLimit{}
	}
	return &Controller{
		ledger:    cfg.Ledger,
		transport: cfg.Transport,
		limiter:   limiter,
		recorder:  cfg.Recorder,
		notifier:  cfg.Notifier,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Dispatch sends the request to each recipient in order. Recipients already
// in the ledger for this book are skipped without a send. Successful
// publishers are recorded in one ledger row after the loop.
//
// Cancelling ctx stops before the next recipient; the ones not reached stay
// pending, the sends already made are still recorded, and ctx.Err() is
// returned alongside the report.
func (c *Controller) Dispatch(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RunID:     c.newID(),
		Book:      req.Book,
		Outcomes:  make([]Outcome, len(req.Recipients)),
		StartedAt: c.now(),
	}
	for i, r := range req.Recipients {
		report.Outcomes[i] = Outcome{Recipient: r, Status: StatusPending}
	}

	slog.Info("dispatch started",
		"run", report.RunID,
		"book", req.Book,
		"recipients", len(req.Recipients),
		"transport", c.transport.Name(),
	)

	var (
		sent   []string
		runErr error
	)
	for i := range report.Outcomes {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		out := &report.Outcomes[i]
		rcpt := out.Recipient

		if c.ledger.HasBeenSent(ctx, req.Book, rcpt.Publisher) {
			out.Status = StatusSkipped
			out.Message = alreadySent
			slog.Info("recipient skipped", "publisher", rcpt.Publisher, "reason", alreadySent)
			c.record(ctx, report, *out)
			continue
		}

		// Skips are not paced. The first attempted send passes at once.
		if err := c.limiter.Wait(ctx); err != nil {
			runErr = ctx.Err()
			if runErr == nil {
				runErr = err
			}
			break
		}

		res := c.transport.Send(context.WithoutCancel(ctx), mailer.Envelope{
			To:          []string{rcpt.Email},
			Cc:          req.Cc,
			Subject:     req.Subject,
			HTMLBody:    mailer.Personalize(req.Body, rcpt.Publisher, rcpt.Salutation),
			ReplyTo:     req.ReplyTo,
			Attachments: req.Attachments,
		})
		if res.OK {
			out.Status = StatusSent
			out.Message = res.Message
			sent = append(sent, rcpt.Publisher)
			slog.Info("recipient sent", "publisher", rcpt.Publisher, "email", rcpt.Email)
		} else {
			out.Status = StatusFailed
			out.Message = res.Message
			slog.Warn("recipient failed", "publisher", rcpt.Publisher, "error", res.Err())
		}
		c.record(ctx, report, *out)
	}

	if len(sent) > 0 {
		if err := c.ledger.Record(context.WithoutCancel(ctx), req.Book, sent, req.RightsContact); err != nil {
			report.LedgerErr = err
		}
	}
	report.FinishedAt = c.now()

	slog.Info("dispatch finished",
		"run", report.RunID,
		"sent", report.Count(StatusSent),
		"skipped", report.Count(StatusSkipped),
		"failed", report.Count(StatusFailed),
		"pending", report.Count(StatusPending),
	)

	if c.notifier != nil {
		n := notify.Notification{
			Subject: fmt.Sprintf("Dispatch report: %s", req.Book),
			Body:    report.Summary(),
		}
		if err := c.notifier.Send(context.WithoutCancel(ctx), n); err != nil {
			slog.Warn("failed to send dispatch notification", "error", err)
		}
	}

	return report, runErr
}

func (c *Controller) record(ctx context.Context, report *Report, o Outcome) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordOutcome(context.WithoutCancel(ctx), report.RunID, report.Book, o); err != nil {
		slog.Warn("failed to record dispatch outcome", "publisher", o.Recipient.Publisher, "error", err)
	}
}
