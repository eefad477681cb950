// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mailer submits the rendered digest over authenticated SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

const (
	defaultHost = "smtp.gmail.com"
	defaultPort = 465
)

// Mailer sends HTML digests to a fixed recipient list as one multi-recipient
// message over implicit TLS.
type Mailer struct {
	host       string
	port       int
	from       string
	password   string
	recipients []string
}

// New validates the mail configuration and splits the recipient list. Host
// and port default to Gmail's implicit-TLS submission endpoint.
func New(cfg types.MailConfig) (*Mailer, error) {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, fmt.Errorf("mail: sender address is empty")
	}
	if strings.TrimSpace(cfg.AppPassword) == "" {
		return nil, fmt.Errorf("mail: app password is empty")
	}
	recipients := SplitRecipients(cfg.To)
	if len(recipients) == 0 {
		return nil, fmt.Errorf("mail: recipient list is empty")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}

	return &Mailer{
		host:       host,
		port:       port,
		from:       from,
		password:   strings.TrimSpace(cfg.AppPassword),
		recipients: recipients,
	}, nil
}

// Recipients returns the parsed recipient addresses.
func (m *Mailer) Recipients() []string {
	return m.recipients
}

// Send delivers one HTML message with the given subject to every configured
// recipient. A transport or authentication error is returned as-is; callers
// treat it as fatal for the run.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := msg.To(m.recipients...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.from),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}
	return nil
}

// SplitRecipients splits a comma-separated address list, trimming whitespace
// and dropping empty entries.
func SplitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
