package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

type TutorStore interface {
	SearchTutors(ctx context.Context, filter models.SearchFilter) ([]models.TutorSummary, error)
	TutorSummaryByUsername(ctx context.Context, username string) (*models.TutorSummary, error)
	ListTutorReviews(ctx context.Context, tutorID int64) ([]models.ReviewView, error)
}

type TutorService struct {
	store  TutorStore
	logger *zap.Logger
}

func NewTutorService(store TutorStore, logger *zap.Logger) *TutorService {
	return &TutorService{store: store, logger: logger}
}

func (s *TutorService) Search(ctx context.Context, filter models.SearchFilter) ([]models.TutorSummary, error) {
	results, err := s.store.SearchTutors(ctx, filter)
	if err != nil {
		return nil, models.StoreFailure("search tutors", err)
	}
	return results, nil
}

// Profile returns a tutor's public page. Reviews that cannot be loaded
// are left out rather than failing the page.
func (s *TutorService) Profile(ctx context.Context, username string) (*models.TutorProfile, error) {
	summary, err := s.store.TutorSummaryByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, models.StoreFailure("get tutor", err)
	}

	reviews, err := s.store.ListTutorReviews(ctx, summary.ID)
	if err != nil {
		s.logger.Warn("Failed to load tutor reviews",
			zap.String("username", username),
			zap.Error(err))
		reviews = []models.ReviewView{}
	}

	return &models.TutorProfile{TutorSummary: *summary, Reviews: reviews}, nil
}
