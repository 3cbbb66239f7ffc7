package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

type BookingStore interface {
	ResolveParties(ctx context.Context, tutorUsername, studentEmail string) (models.BookingParties, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	ConsumeSlot(ctx context.Context, key models.SlotKey) (int64, error)
}

type BookingService struct {
	store         BookingStore
	tx            Transactor
	notifier      Notifier
	transactional bool
	logger        *zap.Logger
}

// NewBookingService returns a best-effort booking engine unless
// transactional is set. notifier may be nil.
func NewBookingService(store BookingStore, tx Transactor, notifier Notifier, transactional bool, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:         store,
		tx:            tx,
		notifier:      notifier,
		transactional: transactional,
		logger:        logger,
	}
}

// Book creates a lesson for the student and consumes the matching slot.
//
// In the default mode the lesson is kept even when slot removal fails or
// matches nothing. In transactional mode both steps commit together and a
// missing slot aborts the booking with ErrSlotUnavailable.
func (s *BookingService) Book(ctx context.Context, p models.Principal, req models.BookingRequest) (*models.Booking, error) {
	if err := requireRole(p, models.KindStudent); err != nil {
		return nil, err
	}

	lesson, username, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}

	parties, err := s.store.ResolveParties(ctx, username, p.Email)
	if err != nil {
		return nil, models.StoreFailure("resolve booking parties", err)
	}
	if parties.TutorID == nil || parties.StudentID == nil {
		return nil, models.ErrNotFound
	}
	lesson.TutorID = *parties.TutorID
	lesson.StudentID = *parties.StudentID

	var booking *models.Booking
	if s.transactional {
		booking, err = s.bookAtomically(ctx, lesson)
	} else {
		booking, err = s.bookBestEffort(ctx, lesson)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson booked",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("tutor_id", lesson.TutorID),
		zap.Int64("student_id", lesson.StudentID),
		zap.Int64("slots_removed", booking.SlotsRemoved))

	if s.notifier != nil {
		s.notifier.LessonBooked(lesson.TutorID, lesson)
	}
	return booking, nil
}

func (s *BookingService) bookBestEffort(ctx context.Context, lesson *models.Lesson) (*models.Booking, error) {
	if err := s.store.CreateLesson(ctx, lesson); err != nil {
		return nil, models.StoreFailure("create lesson", err)
	}

	booking := &models.Booking{Lesson: lesson}

	rows, err := s.store.ConsumeSlot(ctx, slotKey(lesson))
	switch {
	case err != nil:
		booking.SlotCleanupErr = err
		s.logger.Warn("Lesson booked but slot removal failed",
			zap.Int64("lesson_id", lesson.ID),
			zap.Error(err))
	case rows == 0:
		s.logger.Warn("Lesson booked but no matching slot was found",
			zap.Int64("lesson_id", lesson.ID),
			zap.Int64("tutor_id", lesson.TutorID),
			zap.String("date", lesson.Date),
			zap.String("time", lesson.Time),
			zap.String("type", string(lesson.Type)))
	}
	booking.SlotsRemoved = rows

	return booking, nil
}

func (s *BookingService) bookAtomically(ctx context.Context, lesson *models.Lesson) (*models.Booking, error) {
	booking := &models.Booking{Lesson: lesson}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateLesson(ctx, lesson); err != nil {
			return models.StoreFailure("create lesson", err)
		}

		rows, err := s.store.ConsumeSlot(ctx, slotKey(lesson))
		if err != nil {
			return models.StoreFailure("consume slot", err)
		}
		if rows == 0 {
			return models.ErrSlotUnavailable
		}

		booking.SlotsRemoved = rows
		return nil
	})
	if err != nil {
		var storeErr *models.StoreError
		if !errors.As(err, &storeErr) && !errors.Is(err, models.ErrSlotUnavailable) {
			err = models.StoreFailure("book lesson", err)
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) parseRequest(req models.BookingRequest) (*models.Lesson, string, error) {
	username := strings.TrimSpace(req.TutorUsername)

	for _, f := range []struct{ name, value string }{
		{"tutorUsername", username},
		{"date", req.Date},
		{"time", req.Time},
		{"type", req.Type},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, "", models.Invalid(f.name, "Missing fields")
		}
	}

	date, err := models.NormalizeDate(req.Date)
	if err != nil {
		return nil, "", models.Invalid("date", err.Error())
	}
	clock, err := models.NormalizeTime(req.Time)
	if err != nil {
		return nil, "", models.Invalid("time", err.Error())
	}
	lessonType, err := models.ParseLessonType(req.Type)
	if err != nil {
		return nil, "", models.Invalid("type", err.Error())
	}

	return &models.Lesson{
		Date:   date,
		Time:   clock,
		Type:   lessonType,
		Status: models.LessonUpcoming,
	}, username, nil
}

func slotKey(l *models.Lesson) models.SlotKey {
	return models.SlotKey{TutorID: l.TutorID, Date: l.Date, Time: l.Time, Type: l.Type}
}
