package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"path/filepath"

	"github.com/ksu-sports/tournament-backend/config"
	"github.com/ksu-sports/tournament-backend/models"
)

// EmailService sends transactional mail. Callers treat failures as
// non-fatal unless stated otherwise.
type EmailService interface {
	SendWelcomeEmail(to, username string) error
	SendPasswordResetEmail(to, resetToken string) error
	SendMatchReminderEmail(to, teamName string, match *models.Match) error
}

type smtpEmailService struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewSMTPEmailService(cfg *config.Config, logger *slog.Logger) EmailService {
	return &smtpEmailService{cfg: cfg, logger: logger}
}

func (s *smtpEmailService) SendWelcomeEmail(to, username string) error {
	body, err := renderEmailTemplate("welcome_email.html", map[string]interface{}{
		"Username": username,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Welcome to the tournament platform", body)
}

func (s *smtpEmailService) SendPasswordResetEmail(to, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicURL, resetToken)
	body, err := renderEmailTemplate("password_reset_email.html", map[string]interface{}{
		"ResetLink": resetLink,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Password reset request", body)
}

func (s *smtpEmailService) SendMatchReminderEmail(to, teamName string, match *models.Match) error {
	body, err := renderEmailTemplate("match_reminder_email.html", map[string]interface{}{
		"TeamName":  teamName,
		"HomeTeam":  match.HomeTeamName,
		"AwayTeam":  match.AwayTeamName,
		"Venue":     match.VenueName,
		"MatchDate": match.Date.Format("Monday, 2 January 2006 15:04"),
		"Stage":     match.Stage,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Upcoming match: %s vs %s", match.HomeTeamName, match.AwayTeamName)
	return s.send(to, subject, body)
}

func renderEmailTemplate(name string, data map[string]interface{}) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join("templates", "emails", name))
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *smtpEmailService) send(to, subject, htmlBody string) error {
	if s.cfg.SMTPHost == "" {
		s.logger.Warn("smtp is not configured, skipping email", slog.String("to", to), slog.String("subject", subject))
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.SMTPFrom, to, subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	// Port 465 expects an implicit TLS session; everything else goes
	// through plain SMTP with STARTTLS negotiated by the server.
	if s.cfg.SMTPPort == 465 {
		return s.sendImplicitTLS(addr, auth, to, msg)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpEmailService) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to open tls connection to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
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
