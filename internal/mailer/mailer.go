package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers transactional mail. Delivery itself is an external
// collaborator; this is just the thin client in front of it.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type sendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendgrid(apiKey, from string) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("", from),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, to, subject, html string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), "", html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected mail: status %d", resp.StatusCode)
	}
	return nil
}

type logMailer struct {
	log *zap.SugaredLogger
}

// NewLog returns a mailer that only logs, for dev environments without a
// SendGrid key.
func NewLog(log *zap.SugaredLogger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(_ context.Context, to, subject, html string) error {
	m.log.Infow("mail (not sent)", "to", to, "subject", subject, "body", html)
	return nil
}
