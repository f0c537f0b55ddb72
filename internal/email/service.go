// Package email sends operator notifications via SMTP.
package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"vitrine/api/internal/store"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service provides email sending
type Service struct {
	config Config
	server string
	auth   smtp.Auth
}

// NewService creates a new email service
func NewService(config Config) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendEmail sends a plain text email
func (s *Service) SendEmail(to []string, subject, body string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		strings.Join(to, ", "),
		from,
		subject,
		body,
	))

	return smtp.SendMail(s.server, s.auth, s.config.From, to, msg)
}

var submissionTmpl = template.Must(template.New("submission").Parse(
	`New contact form submission

Name:         {{.Name}}
Email:        {{.Email}}
Phone:        {{.Phone}}
Project type: {{.ProjectType}}
Budget:       {{.Budget}}
Timeline:     {{.Timeline}}

{{.Description}}
`))

// SubmissionBody renders the notification body for a new contact submission.
func SubmissionBody(sub store.Submission) (string, error) {
	var buf bytes.Buffer
	if err := submissionTmpl.Execute(&buf, sub); err != nil {
		return "", fmt.Errorf("render submission email: %w", err)
	}
	return buf.String(), nil
}

// NotifySubmission emails the business address about a new contact
// submission. Callers treat failures as best-effort.
func (s *Service) NotifySubmission(to string, sub store.Submission) error {
	if !s.IsConfigured() || to == "" {
		return nil
	}
	body, err := SubmissionBody(sub)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New inquiry from %s", sub.Name)
	return s.SendEmail([]string{to}, subject, body)
}
