package mailer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeClient struct {
	sent    []*mail.Msg
	sendErr error
	dialErr error
	closed  bool
}

func (f *fakeClient) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func (f *fakeClient) DialWithContext(context.Context) error { return f.dialErr }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newTestTransport(client smtpClient) *SMTPTransport {
	return &SMTPTransport{client: client, from: "scout@example.com", fromName: "Scout Desk"}
}

func TestNewSMTPTransport(t *testing.T) {
	_, err := NewSMTPTransport(SMTPConfig{Username: "scout@example.com"})
	assert.Error(t, err)

	tr, err := NewSMTPTransport(SMTPConfig{Username: "scout@example.com", Password: "app-password"})
	require.NoError(t, err)
	assert.Equal(t, "smtp", tr.Name())
}

func TestSMTPTransport_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a single html message", func(t *testing.T) {
		dir := t.TempDir()
		attachment := filepath.Join(dir, "pitch.pdf")
		require.NoError(t, os.WriteFile(attachment, []byte("%PDF-1.4"), 0o644))

		client := &fakeClient{}
		res := newTestTransport(client).Send(ctx, Envelope{
			To:          []string{"editor@publisher.example"},
			Subject:     "Rights offer",
			HTMLBody:    "<p>Hello</p>",
			ReplyTo:     "work@example.com",
			Attachments: []string{attachment},
		})

		require.True(t, res.OK, res.Message)
		require.NoError(t, res.Err())
		require.Len(t, client.sent, 1)

		var buf bytes.Buffer
		_, err := client.sent[0].WriteTo(&buf)
		require.NoError(t, err)
		raw := buf.String()
		assert.Contains(t, raw, "editor@publisher.example")
		assert.Contains(t, raw, "work@example.com")
		assert.Contains(t, raw, "Subject: Rights offer")
		assert.Contains(t, raw, "text/html")
		assert.Contains(t, raw, "pitch.pdf")
	})

	t.Run("transport error is reported", func(t *testing.T) {
		client := &fakeClient{sendErr: errors.New("535 authentication failed")}
		res := newTestTransport(client).Send(ctx, Envelope{To: []string{"a@example.com"}})

		assert.False(t, res.OK)
		assert.Contains(t, res.Message, "535")
		assert.ErrorIs(t, res.Err(), ErrTransportFailed)
	})

	t.Run("missing attachment fails before dialing", func(t *testing.T) {
		client := &fakeClient{}
		res := newTestTransport(client).Send(ctx, Envelope{
			To:          []string{"a@example.com"},
			Attachments: []string{filepath.Join(t.TempDir(), "gone.pdf")},
		})
		assert.False(t, res.OK)
		assert.Empty(t, client.sent)
	})

	t.Run("no recipient", func(t *testing.T) {
		res := newTestTransport(&fakeClient{}).Send(ctx, Envelope{Subject: "x"})
		assert.False(t, res.OK)
	})
}

func TestSMTPTransport_ValidateCredentials(t *testing.T) {
	client := &fakeClient{}
	require.NoError(t, newTestTransport(client).ValidateCredentials(context.Background()))
	assert.True(t, client.closed)

	client = &fakeClient{dialErr: errors.New("dial tcp: timeout")}
	assert.Error(t, newTestTransport(client).ValidateCredentials(context.Background()))
}
