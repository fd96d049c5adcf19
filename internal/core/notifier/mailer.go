package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"txwatch/internal/core/models"
	"txwatch/pkg/config"
)

// Notifier delivers an alert for a single flagged transaction.
type Notifier interface {
	Alert(ctx context.Context, tx models.Transaction) error
}

// Mailer sends fraud alerts over SMTP to the configured recipient.
// Delivery is a single attempt; retrying is left to the caller's policy,
// which for this service is to not retry at all.
type Mailer struct {
	cfg  config.NotifierConfig
	auth smtp.Auth
}

func NewMailer(cfg config.NotifierConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.Username != "" {
		if host, _, err := net.SplitHostPort(cfg.SMTPAddr); err == nil {
			m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
		}
	}
	return m
}

func (m *Mailer) Alert(ctx context.Context, tx models.Transaction) error {
	host, _, err := net.SplitHostPort(m.cfg.SMTPAddr)
	if err != nil {
		return fmt.Errorf("parse smtp address: %w", err)
	}

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", m.cfg.SMTPAddr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if m.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(m.auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(m.cfg.Recipient); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.cfg.From, m.cfg.Recipient, tx)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to string, tx models.Transaction) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Fraud alert: transaction %s\r\n", tx.ID)
	b.WriteString("\r\n")
	b.WriteString("A transaction was flagged as potentially fraudulent.\r\n\r\n")
	fmt.Fprintf(&b, "Transaction: %s\r\n", tx.ID)
	fmt.Fprintf(&b, "User:        %s\r\n", tx.UserID)
	fmt.Fprintf(&b, "Amount:      %.2f %s\r\n", tx.Amount, tx.Currency)
	fmt.Fprintf(&b, "Merchant:    %s\r\n", tx.Merchant)
	fmt.Fprintf(&b, "Location:    %s\r\n", tx.Location)
	fmt.Fprintf(&b, "Category:    %s\r\n", tx.Category)
	fmt.Fprintf(&b, "Timestamp:   %s\r\n", tx.Timestamp.Format(time.RFC3339))
	return []byte(b.String())
}
