// Package email sends plain-text notifications over SMTP: contact form
// messages to site staff, and application updates to applicants.
package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const dialTimeout = 10 * time.Second

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// Sender delivers one message to a list of recipients.
type Sender interface {
	Send(to []string, subject, body string) error
}

// Mailer is the SMTP Sender.
type Mailer struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewMailer creates a Mailer. An empty port means 587.
func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Mailer{cfg: cfg, now: time.Now}
}

// Send sends an email via SMTP.
// Supports both port 465 (implicit TLS) and STARTTLS on any other port.
func (m *Mailer) Send(to []string, subject, body string) (err error) {
	if !m.cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	dialer := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	if m.cfg.Port == "465" {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil && err == nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if m.cfg.Port != "465" {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if m.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(m.cfg.From, to, subject, body, m.now()))); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// buildMessage renders headers and body with CRLF line endings.
func buildMessage(from string, to []string, subject, body string, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return b.String()
}

// sanitizeHeader strips line breaks so user input cannot inject headers.
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
