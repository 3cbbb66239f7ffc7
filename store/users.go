package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"tutoring_back_end_go/models"
)

// registrationLockKey serializes registrations in strict mode.
const registrationLockKey int64 = 0x7475746f72

var identityColumns = map[models.IdentityField]string{
	models.FieldEmail:    "email",
	models.FieldPhone:    "phone",
	models.FieldUsername: "username",
}

// IdentityTaken reports whether value is already used for field by any
// tutor or student.
func (s *Store) IdentityTaken(ctx context.Context, field models.IdentityField, value string) (bool, error) {
	column, ok := identityColumns[field]
	if !ok {
		return false, fmt.Errorf("unknown identity field %q", field)
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM students WHERE %[1]s = $1
			UNION
			SELECT 1 FROM tutors WHERE %[1]s = $1
		)`, column)

	var taken bool
	if err := s.conn(ctx).QueryRow(ctx, query, value).Scan(&taken); err != nil {
		return false, fmt.Errorf("check %s: %w", field, err)
	}
	return taken, nil
}

// LockRegistrations takes a transaction-scoped advisory lock. It must be
// called inside WithinTx.
func (s *Store) LockRegistrations(ctx context.Context) error {
	if _, err := s.conn(ctx).Exec(ctx, "SELECT pg_advisory_xact_lock($1)", registrationLockKey); err != nil {
		return fmt.Errorf("lock registrations: %w", err)
	}
	return nil
}

func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	subjects, err := encodeSubjects(student.Subjects)
	if err != nil {
		return err
	}

	err = s.conn(ctx).QueryRow(ctx, `
		INSERT INTO students (first_name, last_name, email, phone, username, password_hash, dob, subjects)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::jsonb)
		RETURNING id, created_at`,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.Username,
		student.PasswordHash,
		student.DOB,
		subjects,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		if field, ok := duplicateField(err); ok {
			return &models.DuplicateError{Field: field}
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (s *Store) CreateTutor(ctx context.Context, tutor *models.Tutor) error {
	subjects, err := encodeSubjects(tutor.Subjects)
	if err != nil {
		return err
	}

	err = s.conn(ctx).QueryRow(ctx, `
		INSERT INTO tutors (
			first_name, last_name, email, phone, username, password_hash, dob, subjects,
			profile_photo, background, bio, hourly_rate, teaching_method, area
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::jsonb, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		tutor.FirstName,
		tutor.LastName,
		tutor.Email,
		tutor.Phone,
		tutor.Username,
		tutor.PasswordHash,
		tutor.DOB,
		subjects,
		tutor.ProfilePhoto,
		tutor.Background,
		tutor.Bio,
		tutor.HourlyRate,
		string(tutor.TeachingMethod),
		tutor.Area,
	).Scan(&tutor.ID, &tutor.CreatedAt)

	if err != nil {
		if field, ok := duplicateField(err); ok {
			return &models.DuplicateError{Field: field}
		}
		return fmt.Errorf("create tutor: %w", err)
	}
	return nil
}

// FindCredentials looks the e-mail up in both tables, tutors first.
func (s *Store) FindCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	var creds models.Credentials
	var kind string

	err := s.conn(ctx).QueryRow(ctx, `
		SELECT email, password_hash, 'tutor' AS kind FROM tutors WHERE email = $1
		UNION ALL
		SELECT email, password_hash, 'student' AS kind FROM students WHERE email = $1
		LIMIT 1`, email).Scan(&creds.Email, &creds.PasswordHash, &kind)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find credentials: %w", err)
	}

	creds.Kind = models.UserKind(kind)
	return &creds, nil
}

const tutorColumns = `
	t.id, t.first_name, t.last_name, t.email, t.phone, t.username, TO_CHAR(t.dob, 'YYYY-MM-DD'),
	t.subjects, t.profile_photo, t.background, t.bio, t.hourly_rate, t.teaching_method, t.area, t.created_at`

func scanTutor(row pgx.Row, extra ...interface{}) (*models.Tutor, error) {
	var tutor models.Tutor
	var subjects []byte
	var method string

	dest := []interface{}{
		&tutor.ID,
		&tutor.FirstName,
		&tutor.LastName,
		&tutor.Email,
		&tutor.Phone,
		&tutor.Username,
		&tutor.DOB,
		&subjects,
		&tutor.ProfilePhoto,
		&tutor.Background,
		&tutor.Bio,
		&tutor.HourlyRate,
		&method,
		&tutor.Area,
		&tutor.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	tutor.Subjects = decodeSubjects(subjects)
	tutor.TeachingMethod = models.LessonType(method)
	return &tutor, nil
}

// GetUser loads the account behind a session.
func (s *Store) GetUser(ctx context.Context, p models.Principal) (models.User, error) {
	switch p.Kind {
	case models.KindTutor:
		row := s.conn(ctx).QueryRow(ctx, "SELECT"+tutorColumns+" FROM tutors t WHERE t.email = $1", p.Email)
		tutor, err := scanTutor(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf("get tutor: %w", err)
		}
		return tutor, nil

	case models.KindStudent:
		var student models.Student
		var subjects []byte
		err := s.conn(ctx).QueryRow(ctx, `
			SELECT id, first_name, last_name, email, phone, username, TO_CHAR(dob, 'YYYY-MM-DD'), subjects, created_at
			FROM students
			WHERE email = $1`, p.Email).Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Phone,
			&student.Username,
			&student.DOB,
			&subjects,
			&student.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf("get student: %w", err)
		}
		student.Subjects = decodeSubjects(subjects)
		return &student, nil
	}

	return nil, fmt.Errorf("unknown user kind %q", p.Kind)
}

func (s *Store) TutorIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := s.conn(ctx).QueryRow(ctx, "SELECT id FROM tutors WHERE email = $1", email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("get tutor id: %w", err)
	}
	return id, nil
}
