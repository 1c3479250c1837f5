// Package notify delivers run summaries to the operator.
package notify

import "context"

// Notification is a plain-text message for the operator.
type Notification struct {
	Subject string
	Body    string // newlines are preserved by every notifier
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
