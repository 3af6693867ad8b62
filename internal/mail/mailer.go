// Package mail delivers confirmation codes to registrants.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"yamdb/internal/config"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer sends a message out of band.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the mail backend named by cfg.MailBackend.
func New(cfg *config.Config, logger *slog.Logger) (Mailer, error) {
	switch cfg.MailBackend {
	case "log", "":
		return NewLogMailer(cfg.MailFrom, logger), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.MailBackend)
	}
}

// ConfirmationMessage is the email carrying a freshly issued confirmation code.
func ConfirmationMessage(email, code string) Message {
	return Message{
		To:      []string{email},
		Subject: "YaMDb confirmation code",
		Body:    fmt.Sprintf("Your confirmation code: %s", code),
	}
}

// LogMailer writes messages to the log instead of sending them. Used in development.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail_sent",
		"from", m.from,
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var a smtp.Auth
	if username != "" {
		a = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		auth: a,
		from: from,
		send: smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, m.from, msg.To, m.render(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}

func (m *SMTPMailer) render(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
