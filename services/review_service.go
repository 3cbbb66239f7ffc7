package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, studentEmail string, review *models.Review) error
}

type ReviewService struct {
	store  ReviewStore
	logger *zap.Logger
}

func NewReviewService(store ReviewStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{store: store, logger: logger}
}

// Submit attaches a review to one of the student's lessons. A lesson may
// collect more than one review.
func (s *ReviewService) Submit(ctx context.Context, p models.Principal, lessonID int64, stars int, text string) (*models.Review, error) {
	if err := requireRole(p, models.KindStudent); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	switch {
	case lessonID <= 0:
		return nil, models.Invalid("lessonId", "Missing data")
	case stars == 0:
		return nil, models.Invalid("stars", "Missing data")
	case text == "":
		return nil, models.Invalid("text", "Missing data")
	case stars < models.MinStars || stars > models.MaxStars:
		return nil, models.Invalid("stars", fmt.Sprintf("stars must be between %d and %d", models.MinStars, models.MaxStars))
	}

	review := &models.Review{LessonID: lessonID, Stars: stars, Text: text}
	if err := s.store.CreateReview(ctx, p.Email, review); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, models.StoreFailure("submit review", err)
	}

	s.logger.Info("Review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("lesson_id", lessonID),
		zap.Int64("tutor_id", review.TutorID))
	return review, nil
}
