package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dosada05/pickleball-ladder/ladder"
)

//go:embed templates/*.html
var emailTemplates embed.FS

var resultsTemplate = template.Must(template.New("match_results.html").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(emailTemplates, "templates/match_results.html"))

// EmailSender delivers an HTML message.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject string, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type EmailService struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
}

func NewEmailService(cfg SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, dialTimeout: 10 * time.Second}
}

func (s *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := []byte("To: " + strings.Join(to, ", ") + "\r\n" +
		"From: " + s.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsconfig := &tls.Config{ServerName: s.cfg.Host}

	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	var conn net.Conn
	var err error
	if s.cfg.Port == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		dialer := &tls.Dialer{Config: tlsconfig}
		conn, err = dialer.DialContext(dialCtx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(dialCtx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("smtp connect %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if s.cfg.Port != 465 {
		// STARTTLS (обычно порт 587)
		if err := client.StartTLS(tlsconfig); err != nil {
			return fmt.Errorf("smtp STARTTLS: %w", err)
		}
	}

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close DATA: %w", err)
	}

	return client.Quit()
}

type resultsEmailData struct {
	Headline  string
	Standings []ladder.Standing
	PlayTo    int
	Games     int
	Link      string
}

// renderResultsEmail builds the HTML body for a finished match.
func renderResultsEmail(view *MatchView, link string) (string, error) {
	var body bytes.Buffer
	err := resultsTemplate.Execute(&body, resultsEmailData{
		Headline:  view.ShareText,
		Standings: view.Standings,
		PlayTo:    view.PlayTo,
		Games:     len(view.Schedule.Games),
		Link:      link,
	})
	if err != nil {
		return "", fmt.Errorf("render results email: %w", err)
	}
	return body.String(), nil
}
