// Package mailer sends pitch emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

// ErrTransportFailed marks a send that did not go through.
var ErrTransportFailed = errors.New("transport failed")

// Envelope is one outgoing message.
type Envelope struct {
	To          []string
	Cc          []string
	Subject     string
	HTMLBody    string
	ReplyTo     string
	Attachments []string // file paths
}

// Result is the outcome of a single send.
type Result struct {
	OK      bool
	Message string
}

// Err returns nil for a successful send, otherwise an error wrapping
// ErrTransportFailed.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTransportFailed, r.Message)
}

// Transport is the interface for delivering mail.
type Transport interface {
	// Name returns the name of the transport.
	Name() string

	// Send delivers one envelope. Failures are reported in the Result.
	Send(ctx context.Context, env Envelope) Result

	// ValidateCredentials checks if the credentials are valid.
	ValidateCredentials(ctx context.Context) error
}
