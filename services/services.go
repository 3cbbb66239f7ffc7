package services

import (
	"context"
	"time"

	"tutoring_back_end_go/models"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock returns the current wall time in the marketplace time zone.
type Clock func() time.Time

// Notifier pushes booking events to connected tutors.
type Notifier interface {
	LessonBooked(tutorID int64, lesson *models.Lesson)
}

// Mailer sends a plain text e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

func requireRole(p models.Principal, kind models.UserKind) error {
	if p.Email == "" {
		return models.ErrUnauthenticated
	}
	if p.Kind != kind {
		return models.ErrForbidden
	}
	return nil
}
