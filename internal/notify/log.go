package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

// Send logs the notification.
func (LogNotifier) Send(_ context.Context, n Notification) error {
	slog.Info("notification", "subject", n.Subject, "body", n.Body)
	return nil
}
