package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/sendgrid"
)

// Mailer delivers one rendered message.
type Mailer interface {
	Send(ctx context.Context, to, name, subject, html string) error
}

type sendgridMailer struct {
	client sendgrid.Client
}

func NewSendgridMailer(client sendgrid.Client) Mailer {
	return &sendgridMailer{client: client}
}

func (m *sendgridMailer) Send(ctx context.Context, to, name, subject, html string) error {
	_, err := m.client.Send(ctx, sendgrid.Message{
		ToEmail:  to,
		ToName:   name,
		Subject:  subject,
		HTML:     html,
		Category: "transactional",
	})
	return err
}

type logMailer struct {
	log *logger.Logger
}

// NewLogMailer returns a Mailer that only logs. Used when SendGrid is not configured.
func NewLogMailer(log *logger.Logger) Mailer {
	return &logMailer{log: log.With("service", "LogMailer")}
}

func (m *logMailer) Send(ctx context.Context, to, name, subject, html string) error {
	m.log.Info("mail not sent (no provider configured)", "email", to, "subject", subject, "bytes", len(html))
	return nil
}

var mailTemplate = template.Must(template.New("mail").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f4f6fb; padding: 24px;">
  <table role="presentation" width="100%" style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <tr><td><h1 style="color: #1e88e5; font-size: 22px;">{{.Title}}</h1></td></tr>
    <tr><td><p style="color: #333333; font-size: 15px; line-height: 1.5;">{{.Message}}</p></td></tr>
    {{if .Code}}<tr><td><p style="font-size: 28px; letter-spacing: 6px; font-weight: bold; color: #1e88e5;">{{.Code}}</p></td></tr>{{end}}
    {{if .Link}}<tr><td><a href="{{.Link}}" style="display: inline-block; background: #1e88e5; color: #ffffff; padding: 12px 20px; border-radius: 6px; text-decoration: none;">{{.ButtonTitle}}</a></td></tr>{{end}}
  </table>
</body>
</html>`))

type mailData struct {
	Title       string
	Message     string
	Code        string
	Link        string
	ButtonTitle string
}

type MailService interface {
	SendVerificationCode(ctx context.Context, email, name, code string) error
	SendResetLink(ctx context.Context, email, name, link string) error
	SendResetSuccess(ctx context.Context, email, name string) error
}

type mailService struct {
	log    *logger.Logger
	mailer Mailer
}

func NewMailService(log *logger.Logger, mailer Mailer) MailService {
	return &mailService{log: log.With("service", "MailService"), mailer: mailer}
}

func renderMail(d mailData) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render mail: %w", err)
	}
	return buf.String(), nil
}

func (ms *mailService) send(ctx context.Context, email, name, subject string, d mailData) error {
	html, err := renderMail(d)
	if err != nil {
		return err
	}
	if err := ms.mailer.Send(ctx, email, name, subject, html); err != nil {
		return fmt.Errorf("send %q mail: %w", subject, err)
	}
	return nil
}

func (ms *mailService) SendVerificationCode(ctx context.Context, email, name, code string) error {
	return ms.send(ctx, email, name, "Verify your email", mailData{
		Title:   "Welcome to LearnHub",
		Message: fmt.Sprintf("Hi %s, welcome to LearnHub. Use this code to verify your email. It expires in one hour.", name),
		Code:    code,
	})
}

func (ms *mailService) SendResetLink(ctx context.Context, email, name, link string) error {
	return ms.send(ctx, email, name, "Reset Password", mailData{
		Title:       "Recover my password",
		Message:     fmt.Sprintf("Hi %s, we have received your request to recover your password. Follow the link below to reset it.", name),
		Link:        link,
		ButtonTitle: "Reset password",
	})
}

func (ms *mailService) SendResetSuccess(ctx context.Context, email, name string) error {
	return ms.send(ctx, email, name, "Password Reset Successfully", mailData{
		Title:   "Password updated",
		Message: fmt.Sprintf("Dear %s, your password has been reset successfully. You can now sign in with your new password.", name),
	})
}
