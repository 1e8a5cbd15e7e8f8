package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/resend/resend-go/v2"
)

// ResendProvider sends emails using the Resend API.
type ResendProvider struct {
	client      *resend.Client
	fromAddress string
	fromName    string
}

func NewResendProvider(apiKey, fromAddress, fromName string) *ResendProvider {
	return &ResendProvider{
		client:      resend.NewClient(apiKey),
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", p.fromName, p.fromAddress),
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	if _, err := p.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending email via Resend: %w", err)
	}
	return nil
}

// SMTPProvider sends emails via plain SMTP (Mailpit in local dev).
type SMTPProvider struct {
	host        string
	port        int
	fromAddress string
	fromName    string
}

func NewSMTPProvider(host string, port int, fromAddress, fromName string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, fromAddress: fromAddress, fromName: fromName}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", p.fromName, p.fromAddress)
	fmt.Fprintf(&buf, "To: %s\r\n", email.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", email.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTML)

	if err := smtp.SendMail(addr, nil, p.fromAddress, []string{email.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}
	return nil
}

// ConsoleProvider logs emails instead of sending them (development).
type ConsoleProvider struct {
	logger *slog.Logger
}

func NewConsoleProvider(logger *slog.Logger) *ConsoleProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleProvider{logger: logger}
}

func (p *ConsoleProvider) Send(ctx context.Context, email *Email) error {
	p.logger.Info("email (console provider)",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Text,
	)
	return nil
}
