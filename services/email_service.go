package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jdl-league/constructor-system/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + strings.Join(to, ", ") + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("tls connection failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create smtp client: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp connection failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s failed: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close DATA: %w", err)
	}

	return nil
}

// SendSyncReport mails the outcome of one master sync run. Called only when
// the run produced errors, so the body always carries the error list.
func (s *EmailService) SendSyncReport(to, csvPath string, updated, skipped int, errs []string) error {
	subject := fmt.Sprintf("JDL master sync: %d errors (%s)", len(errs), csvPath)

	var body strings.Builder
	fmt.Fprintf(&body, "JDL master data sync finished with errors.\n\n")
	fmt.Fprintf(&body, "Snapshot: %s\n", csvPath)
	fmt.Fprintf(&body, "Updated players: %d\n", updated)
	fmt.Fprintf(&body, "Skipped rows: %d\n", skipped)
	fmt.Fprintf(&body, "Errors: %d\n\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(&body, "  - %s\n", e)
	}

	return s.SendEmail([]string{to}, subject, body.String())
}

// SendIntegrityReport mails a data integrity scan result. Called only when
// the scan found issues or failed to run some check.
func (s *EmailService) SendIntegrityReport(to string, report *IntegrityReport) error {
	subject := fmt.Sprintf("Data integrity scan: %d issues, %d errors",
		len(report.Issues), len(report.Errors))

	var body strings.Builder
	fmt.Fprintf(&body, "Data integrity scan at %s\n\n", report.CheckedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&body, "Players scanned: %d\n", report.Players)
	fmt.Fprintf(&body, "Teams scanned: %d\n\n", report.Teams)
	if len(report.Issues) > 0 {
		fmt.Fprintf(&body, "Issues:\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&body, "  - [%s] %s\n", issue.Check, issue.Detail)
		}
		body.WriteString("\n")
	}
	if len(report.Errors) > 0 {
		fmt.Fprintf(&body, "Checks that failed to run:\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&body, "  - %s\n", e)
		}
	}

	return s.SendEmail([]string{to}, subject, body.String())
}
