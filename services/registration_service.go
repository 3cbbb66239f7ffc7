package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

type RegistrationStore interface {
	IdentityTaken(ctx context.Context, field models.IdentityField, value string) (bool, error)
	LockRegistrations(ctx context.Context) error
	CreateStudent(ctx context.Context, student *models.Student) error
	CreateTutor(ctx context.Context, tutor *models.Tutor) error
}

type RegistrationService struct {
	store  RegistrationStore
	tx     Transactor
	strict bool
	logger *zap.Logger
}

// NewRegistrationService builds the sign-up flow. With strict set, the
// checks and the insert run in one transaction under an advisory lock.
func NewRegistrationService(store RegistrationStore, tx Transactor, strict bool, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		store:  store,
		tx:     tx,
		strict: strict,
		logger: logger,
	}
}

func (s *RegistrationService) RegisterStudent(ctx context.Context, student *models.Student, password string) error {
	return s.register(ctx, &student.Account, password, func(ctx context.Context) error {
		return s.store.CreateStudent(ctx, student)
	})
}

func (s *RegistrationService) RegisterTutor(ctx context.Context, tutor *models.Tutor, password string) error {
	method, err := models.ParseLessonType(string(tutor.TeachingMethod))
	if err != nil {
		return models.Invalid("teachingMethod", err.Error())
	}
	tutor.TeachingMethod = method

	if tutor.HourlyRate < 0 {
		return models.Invalid("rates", "hourly rate cannot be negative")
	}

	return s.register(ctx, &tutor.Account, password, func(ctx context.Context) error {
		return s.store.CreateTutor(ctx, tutor)
	})
}

func (s *RegistrationService) register(ctx context.Context, acct *models.Account, password string, insert func(ctx context.Context) error) error {
	if err := normalizeAccount(acct); err != nil {
		return err
	}
	if password == "" {
		return models.Invalid("password", "password is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.StoreFailure("hash password", err)
	}
	acct.PasswordHash = hash

	run := func(ctx context.Context) error {
		if s.strict {
			if err := s.store.LockRegistrations(ctx); err != nil {
				return models.StoreFailure("lock registrations", err)
			}
		}
		if err := s.checkUnique(ctx, acct); err != nil {
			return err
		}
		if err := insert(ctx); err != nil {
			var dup *models.DuplicateError
			if errors.As(err, &dup) {
				return models.Invalid(string(dup.Field), dup.Field.ConflictMessage())
			}
			return models.StoreFailure("create account", err)
		}
		return nil
	}

	if s.strict {
		err = s.tx.WithinTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Account registered",
		zap.Int64("id", acct.ID),
		zap.String("username", acct.Username))
	return nil
}

// checkUnique tests email, phone and username in that order and reports
// the first one already in use.
func (s *RegistrationService) checkUnique(ctx context.Context, acct *models.Account) error {
	values := map[models.IdentityField]string{
		models.FieldEmail:    acct.Email,
		models.FieldPhone:    acct.Phone,
		models.FieldUsername: acct.Username,
	}

	for _, field := range models.IdentityCheckOrder {
		taken, err := s.store.IdentityTaken(ctx, field, values[field])
		if err != nil {
			return models.StoreFailure("check "+string(field), err)
		}
		if taken {
			return models.Invalid(string(field), field.ConflictMessage())
		}
	}
	return nil
}

func normalizeAccount(acct *models.Account) error {
	acct.FirstName = strings.TrimSpace(acct.FirstName)
	acct.LastName = strings.TrimSpace(acct.LastName)
	acct.Email = strings.TrimSpace(acct.Email)
	acct.Phone = strings.TrimSpace(acct.Phone)
	acct.Username = strings.TrimSpace(acct.Username)

	for _, f := range []struct{ name, value string }{
		{"firstName", acct.FirstName},
		{"lastName", acct.LastName},
		{"email", acct.Email},
		{"phone", acct.Phone},
		{"username", acct.Username},
	} {
		if f.value == "" {
			return models.Invalid(f.name, f.name+" is required")
		}
	}

	if acct.DOB != nil {
		if strings.TrimSpace(*acct.DOB) == "" {
			acct.DOB = nil
		} else {
			dob, err := models.NormalizeDate(*acct.DOB)
			if err != nil {
				return models.Invalid("dob", err.Error())
			}
			acct.DOB = &dob
		}
	}

	if acct.Subjects == nil {
		acct.Subjects = []string{}
	}
	return nil
}
