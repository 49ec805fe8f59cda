package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/unic-leads/internal/infra/queue"
)

//go:embed templates/*.html
var templatesFS embed.FS

var applicationTmpl = template.Must(template.ParseFS(templatesFS, "templates/application.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string, loc *time.Location) *EmailSender {
	if loc == nil {
		loc = time.UTC
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
		location: loc,
	}
}

// SendApplicationNotice mails a stored submission to the recruiters' inbox.
func (s *EmailSender) SendApplicationNotice(ctx context.Context, p queue.SubmissionCreatedPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildMessage(p)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(p queue.SubmissionCreatedPayload) (*gomail.Message, error) {
	body, err := s.renderBody(p)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Новая заявка: %s", p.FullName))
	m.SetBody("text/html", body)
	return m, nil
}

func (s *EmailSender) renderBody(p queue.SubmissionCreatedPayload) (string, error) {
	data := ApplicationEmailData{
		ID:        p.ID,
		FullName:  p.FullName,
		BirthDate: p.BirthDate,
		Phone:     p.Phone,
		Telegram:  p.Telegram,
		Source:    p.Source,
		Referrer:  p.Referrer,
		CreatedAt: p.CreatedAt.In(s.location).Format("02.01.2006 15:04"),
	}

	var body bytes.Buffer
	if err := applicationTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return body.String(), nil
}
