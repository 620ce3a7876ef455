// Package mailer sends support emails through the configured SMTP relay.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/highsierra/storefront-gateway/internal/config"
)

// Sender delivers messages over SMTP. Port 465 means implicit TLS; every
// other port dials plain and upgrades with STARTTLS when the server offers
// it.
type Sender struct {
	cfg config.SMTPConfig
}

// NewSender creates a new SMTP sender
func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers one message and returns the generated Message-ID. The dial
// honors the context deadline; the whole exchange is bounded by the
// configured timeout.
func (s *Sender) Send(ctx context.Context, m Message) (string, error) {
	raw, messageID := build(m, time.Now())

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.GetPort())
	dialer := &net.Dialer{Timeout: s.cfg.Timeout()}

	var conn net.Conn
	var err error
	if s.cfg.GetPort() == 465 {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.cfg.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return "", fmt.Errorf("dialing SMTP relay: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.Timeout()))
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("starting SMTP session: %w", err)
	}
	defer client.Close()

	if s.cfg.GetPort() != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return "", fmt.Errorf("starting TLS: %w", err)
			}
		}
	}

	if s.cfg.User != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return "", fmt.Errorf("authenticating: %w", err)
			}
		}
	}

	if err := client.Mail(m.From); err != nil {
		return "", fmt.Errorf("setting sender: %w", err)
	}
	if err := client.Rcpt(m.To); err != nil {
		return "", fmt.Errorf("setting recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("opening data stream: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		return "", fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing data stream: %w", err)
	}

	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("closing session: %w", err)
	}
	return messageID, nil
}
