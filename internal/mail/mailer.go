package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"
)

const (
	dialTimeout    = 5 * time.Second
	healthCacheTTL = 30 * time.Second
)

// Config holds SMTP relay settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	// Secure selects implicit TLS (port 465 style); otherwise plain dial
	// with optional STARTTLS handled by the server.
	Secure bool
	From   string
}

// SMTPMailer sends transactional mail through an external relay and probes
// relay reachability on demand.
type SMTPMailer struct {
	cfg Config

	mu        sync.Mutex
	ready     bool
	checkedAt time.Time
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = fmt.Sprintf("My Blog <%s>", cfg.User)
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) addr() string {
	return fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
}

// SendWelcome delivers the newsletter welcome message.
func (m *SMTPMailer) SendWelcome(ctx context.Context, to string) error {
	body := `<div style="font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;line-height:1.6">
  <h2>Welcome</h2>
  <p>Thanks for subscribing to our newsletter!</p>
  <p>You'll now receive updates with the latest articles.</p>
  <hr style="border:none;border-top:1px solid #eee;margin:20px 0"/>
  <p style="color:#666;font-size:12px">If this wasn't you, you can ignore this email.</p>
</div>`
	return m.send(ctx, to, "Welcome to our Newsletter", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if !m.cfg.Secure {
		return smtp.SendMail(m.addr(), auth, m.cfg.User, []string{to}, []byte(msg))
	}
	return m.sendTLS(ctx, auth, to, []byte(msg))
}

// sendTLS handles implicit-TLS relays, which net/smtp.SendMail cannot reach.
func (m *SMTPMailer) sendTLS(ctx context.Context, auth smtp.Auth, to string, msg []byte) error {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr())
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(m.cfg.User); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// Ready reports whether the relay currently accepts connections. The result
// is cached briefly so the health endpoint cannot hammer the relay.
func (m *SMTPMailer) Ready(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.checkedAt) < healthCacheTTL {
		return m.ready
	}

	m.ready = m.probe(ctx)
	m.checkedAt = time.Now()
	return m.ready
}

func (m *SMTPMailer) probe(ctx context.Context) bool {
	if m.cfg.Host == "" {
		return false
	}
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", m.addr())
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
