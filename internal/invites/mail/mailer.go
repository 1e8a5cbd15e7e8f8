package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Email is one message to be sent.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Provider is the transport that actually delivers an email.
type Provider interface {
	Send(ctx context.Context, email *Email) error
}

// Config selects and configures the delivery provider.
type Config struct {
	Provider     string // "resend", "smtp", or anything else for console
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	FromAddress  string
	FromName     string
	BaseURL      string // public URL the invite links point at
}

// Mailer renders and sends invite emails through the configured provider.
type Mailer struct {
	provider Provider
	baseURL  string
}

// New creates a Mailer based on configuration. An unrecognised provider
// falls back to console output so local development needs no setup.
func New(cfg Config, logger *slog.Logger) *Mailer {
	var provider Provider

	switch cfg.Provider {
	case "resend":
		provider = NewResendProvider(cfg.ResendAPIKey, cfg.FromAddress, cfg.FromName)
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.FromAddress, cfg.FromName)
	default:
		provider = NewConsoleProvider(logger)
	}

	return &Mailer{provider: provider, baseURL: cfg.BaseURL}
}

// NewWithProvider wires an explicit provider; used by tests and by the
// sender when the caller already owns provider selection.
func NewWithProvider(p Provider, baseURL string) *Mailer {
	return &Mailer{provider: p, baseURL: baseURL}
}

// AcceptLink builds the public link embedded in invite emails.
func (m *Mailer) AcceptLink(token string) string {
	return fmt.Sprintf("%s/invites/accept?token=%s", m.baseURL, url.QueryEscape(token))
}

// SendInviteEmail renders the invite template and delivers it. The token
// appears only in the outgoing message, never in logs.
func (m *Mailer) SendInviteEmail(ctx context.Context, to, subject, message, token string) error {
	html, text, err := renderInviteEmail(inviteEmailData{
		Message:    message,
		AcceptLink: m.AcceptLink(token),
	})
	if err != nil {
		return fmt.Errorf("rendering invite email: %w", err)
	}

	return m.provider.Send(ctx, &Email{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
}
