package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

type AvailabilityStore interface {
	TutorIDByEmail(ctx context.Context, email string) (int64, error)
	InsertSlots(ctx context.Context, tutorID int64, slots []models.Slot) error
	DeleteSlotsBefore(ctx context.Context, tutorID int64, today string) (int64, error)
	ListSlotsBetween(ctx context.Context, tutorID int64, w models.Window) ([]models.Slot, error)
	ListOpenSlots(ctx context.Context, username, today, now string) ([]models.Slot, error)
	DeleteSlot(ctx context.Context, slotID int64, tutorEmail string) (int64, error)
}

type AvailabilityService struct {
	store  AvailabilityStore
	now    Clock
	logger *zap.Logger
}

func NewAvailabilityService(store AvailabilityStore, now Clock, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		now:    now,
		logger: logger,
	}
}

// AddSlots validates the whole batch and stores it in one write.
// Duplicate and overlapping slots are accepted.
func (s *AvailabilityService) AddSlots(ctx context.Context, p models.Principal, inputs []models.SlotInput) error {
	if err := requireRole(p, models.KindTutor); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return models.Invalid("slots", "No slots provided")
	}

	slots := make([]models.Slot, 0, len(inputs))
	for i, in := range inputs {
		slot, err := parseSlot(in)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				verr.Field = fmt.Sprintf("slots[%d].%s", i, verr.Field)
			}
			return err
		}
		slots = append(slots, slot)
	}

	tutorID, err := s.tutorID(ctx, p)
	if err != nil {
		return err
	}

	if err := s.store.InsertSlots(ctx, tutorID, slots); err != nil {
		return models.StoreFailure("save availability", err)
	}

	s.logger.Info("Availability saved",
		zap.Int64("tutor_id", tutorID),
		zap.Int("slots", len(slots)))
	return nil
}

// ListUpcoming purges the tutor's past slots, then returns the ones dated
// within the upcoming window ordered by date and time.
func (s *AvailabilityService) ListUpcoming(ctx context.Context, p models.Principal) ([]models.Slot, error) {
	if err := requireRole(p, models.KindTutor); err != nil {
		return nil, err
	}

	tutorID, err := s.tutorID(ctx, p)
	if err != nil {
		return nil, err
	}

	now := s.now()
	window := models.UpcomingWindow(now)

	swept, err := s.store.DeleteSlotsBefore(ctx, tutorID, window.From)
	if err != nil {
		return nil, models.StoreFailure("sweep availability", err)
	}
	if swept > 0 {
		s.logger.Debug("Past slots removed",
			zap.Int64("tutor_id", tutorID),
			zap.Int64("rows", swept))
	}

	slots, err := s.store.ListSlotsBetween(ctx, tutorID, window)
	if err != nil {
		return nil, models.StoreFailure("list availability", err)
	}
	return slots, nil
}

// ListPublic returns every slot of the tutor that starts after now.
func (s *AvailabilityService) ListPublic(ctx context.Context, username string) ([]models.Slot, error) {
	now := s.now()

	slots, err := s.store.ListOpenSlots(ctx, username, now.Format(models.DateLayout), now.Format("15:04:05"))
	if err != nil {
		return nil, models.StoreFailure("list public availability", err)
	}
	return slots, nil
}

func (s *AvailabilityService) DeleteSlot(ctx context.Context, p models.Principal, slotID int64) error {
	if err := requireRole(p, models.KindTutor); err != nil {
		return err
	}

	rows, err := s.store.DeleteSlot(ctx, slotID, p.Email)
	if err != nil {
		return models.StoreFailure("delete slot", err)
	}
	if rows == 0 {
		return models.ErrSlotNotOwned
	}
	return nil
}

func (s *AvailabilityService) tutorID(ctx context.Context, p models.Principal) (int64, error) {
	id, err := s.store.TutorIDByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, models.ErrUnauthenticated
		}
		return 0, models.StoreFailure("get tutor", err)
	}
	return id, nil
}

func parseSlot(in models.SlotInput) (models.Slot, error) {
	day := strings.TrimSpace(in.Day)
	if day == "" {
		return models.Slot{}, models.Invalid("day", "day is required")
	}

	date, err := models.NormalizeDate(in.Date)
	if err != nil {
		return models.Slot{}, models.Invalid("date", err.Error())
	}

	clock, err := models.NormalizeTime(in.Time)
	if err != nil {
		return models.Slot{}, models.Invalid("time", err.Error())
	}

	lessonType, err := models.ParseLessonType(in.Type)
	if err != nil {
		return models.Slot{}, models.Invalid("type", err.Error())
	}

	return models.Slot{Day: day, Date: date, Time: clock, Type: lessonType}, nil
}
