package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"tutoring_back_end_go/config"
)

const sendGridHost = "https://api.sendgrid.com"

type Mailer struct {
	apiKey string
	from   string
	host   string
}

// NewMailer returns nil when no API key is configured.
func NewMailer(cfg config.MailConfig) *Mailer {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return &Mailer{apiKey: cfg.SendGridAPIKey, from: cfg.From, host: sendGridHost}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Tutoring", m.from),
		subject,
		mail.NewEmail("", to),
		body,
		"",
	)

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send mail: sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
