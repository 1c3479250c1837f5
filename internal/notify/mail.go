package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/abdulachik/scoutmail/internal/mailer"
)

// MailNotifier emails notifications to the operator.
type MailNotifier struct {
	transport mailer.Transport
	to        string
}

// NewMailNotifier creates a notifier sending to the given address.
func NewMailNotifier(transport mailer.Transport, to string) *MailNotifier {
	return &MailNotifier{transport: transport, to: to}
}

// Send emails the notification as preformatted text.
func (m *MailNotifier) Send(ctx context.Context, n Notification) error {
	body := strings.ReplaceAll(html.EscapeString(n.Body), "\n", "<br>")
	res := m.transport.Send(ctx, mailer.Envelope{
		To:       []string{m.to},
		Subject:  n.Subject,
		HTMLBody: body,
	})
	if err := res.Err(); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
