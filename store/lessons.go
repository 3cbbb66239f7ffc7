package store

import (
	"context"
	"fmt"

	"tutoring_back_end_go/models"
)

// ResolveParties looks up both booking parties in one round trip.
func (s *Store) ResolveParties(ctx context.Context, tutorUsername, studentEmail string) (models.BookingParties, error) {
	var parties models.BookingParties
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT id FROM tutors WHERE username = $1),
			(SELECT id FROM students WHERE email = $2)`,
		tutorUsername, studentEmail).Scan(&parties.TutorID, &parties.StudentID)
	if err != nil {
		return parties, fmt.Errorf("resolve booking parties: %w", err)
	}
	return parties, nil
}

func (s *Store) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.Status == "" {
		lesson.Status = models.LessonUpcoming
	}

	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO lessons (tutor_id, student_id, date, time, type, status)
		VALUES ($1, $2, $3::date, $4::time, $5, $6)
		RETURNING id, created_at`,
		lesson.TutorID,
		lesson.StudentID,
		lesson.Date,
		lesson.Time,
		string(lesson.Type),
		string(lesson.Status),
	).Scan(&lesson.ID, &lesson.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// ListLessons returns the principal's lessons with the other party's
// name, earliest first.
func (s *Store) ListLessons(ctx context.Context, p models.Principal) ([]models.LessonView, error) {
	var query string
	switch p.Kind {
	case models.KindTutor:
		query = `
			SELECT l.id, TO_CHAR(l.date, 'YYYY-MM-DD'), TO_CHAR(l.time, 'HH24:MI'), l.type, l.status,
				s.first_name || ' ' || s.last_name
			FROM lessons l
			JOIN tutors t ON t.id = l.tutor_id
			JOIN students s ON s.id = l.student_id
			WHERE t.email = $1
			ORDER BY l.date, l.time`
	case models.KindStudent:
		query = `
			SELECT l.id, TO_CHAR(l.date, 'YYYY-MM-DD'), TO_CHAR(l.time, 'HH24:MI'), l.type, l.status,
				t.first_name || ' ' || t.last_name
			FROM lessons l
			JOIN students s ON s.id = l.student_id
			JOIN tutors t ON t.id = l.tutor_id
			WHERE s.email = $1
			ORDER BY l.date, l.time`
	default:
		return nil, fmt.Errorf("unknown user kind %q", p.Kind)
	}

	rows, err := s.conn(ctx).Query(ctx, query, p.Email)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.LessonView{}
	for rows.Next() {
		var l models.LessonView
		var lessonType, status string
		if err := rows.Scan(&l.ID, &l.Date, &l.Time, &lessonType, &status, &l.WithName); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		l.Type = models.LessonType(lessonType)
		l.Status = models.LessonStatus(status)
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return lessons, nil
}

// CompletePastLessons marks upcoming lessons that started at or before
// now as completed.
func (s *Store) CompletePastLessons(ctx context.Context, today, now string) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx, `
		UPDATE lessons SET status = $1
		WHERE status = $2
		  AND (date < $3::date OR (date = $3::date AND time <= $4::time))`,
		string(models.LessonCompleted), string(models.LessonUpcoming), today, now)
	if err != nil {
		return 0, fmt.Errorf("complete past lessons: %w", err)
	}
	return tag.RowsAffected(), nil
}
