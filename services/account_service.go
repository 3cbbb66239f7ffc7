package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

type AccountStore interface {
	FindCredentials(ctx context.Context, email string) (*models.Credentials, error)
	GetUser(ctx context.Context, p models.Principal) (models.User, error)
	ListLessons(ctx context.Context, p models.Principal) ([]models.LessonView, error)
}

type AccountService struct {
	store  AccountStore
	logger *zap.Logger
}

func NewAccountService(store AccountStore, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

// Login checks the password against whichever table holds the e-mail.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Principal{}, models.ErrInvalidCredentials
	}

	creds, err := s.store.FindCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Principal{}, models.ErrInvalidCredentials
		}
		return models.Principal{}, models.StoreFailure("login", err)
	}

	if !auth.CheckPassword(creds.PasswordHash, password) {
		return models.Principal{}, models.ErrInvalidCredentials
	}

	return models.Principal{Email: creds.Email, Kind: creds.Kind}, nil
}

// Profile loads the session's account. A session whose account is gone is
// treated as logged out.
func (s *AccountService) Profile(ctx context.Context, p models.Principal) (models.User, error) {
	if p.Email == "" {
		return nil, models.ErrUnauthenticated
	}

	user, err := s.store.GetUser(ctx, p)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, models.StoreFailure("get profile", err)
	}
	return user, nil
}

func (s *AccountService) MyLessons(ctx context.Context, p models.Principal) ([]models.LessonView, error) {
	if p.Email == "" {
		return nil, models.ErrUnauthenticated
	}

	lessons, err := s.store.ListLessons(ctx, p)
	if err != nil {
		return nil, models.StoreFailure("list lessons", err)
	}
	return lessons, nil
}
