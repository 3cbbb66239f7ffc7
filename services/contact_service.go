package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

var validate = validator.New()

type ContactStore interface {
	SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

type ContactService struct {
	store  ContactStore
	mailer Mailer
	inbox  string
	logger *zap.Logger
}

// NewContactService stores contact messages and, when mailer is non-nil
// and inbox is set, forwards each one by e-mail.
func NewContactService(store ContactStore, mailer Mailer, inbox string, logger *zap.Logger) *ContactService {
	return &ContactService{
		store:  store,
		mailer: mailer,
		inbox:  inbox,
		logger: logger,
	}
}

func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	for _, f := range []struct{ name, value string }{
		{"name", msg.Name},
		{"email", msg.Email},
		{"message", msg.Message},
	} {
		if f.value == "" {
			return models.Invalid(f.name, "All fields are required.")
		}
	}

	if err := validate.Var(msg.Email, "email"); err != nil {
		return models.Invalid("email", "Invalid email format.")
	}

	if err := s.store.SaveContactMessage(ctx, msg); err != nil {
		return models.StoreFailure("save contact message", err)
	}

	if s.mailer != nil && s.inbox != "" {
		subject := fmt.Sprintf("Contact form: %s", msg.Name)
		body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
		if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
			s.logger.Warn("Failed to forward contact message",
				zap.Int64("message_id", msg.ID),
				zap.Error(err))
		}
	}
	return nil
}
