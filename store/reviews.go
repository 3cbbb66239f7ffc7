package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"tutoring_back_end_go/models"
)

// CreateReview attaches a review to a lesson owned by the student with the
// given e-mail. Tutor and student ids are copied from the lesson.
func (s *Store) CreateReview(ctx context.Context, studentEmail string, review *models.Review) error {
	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO reviews (lesson_id, tutor_id, student_id, stars, text)
		SELECT l.id, l.tutor_id, l.student_id, $3, $4
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		WHERE l.id = $1 AND s.email = $2
		RETURNING id, tutor_id, student_id, created_at`,
		review.LessonID, studentEmail, review.Stars, review.Text,
	).Scan(&review.ID, &review.TutorID, &review.StudentID, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListTutorReviews returns a tutor's reviews newest first.
func (s *Store) ListTutorReviews(ctx context.Context, tutorID int64) ([]models.ReviewView, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT r.stars, r.text, TO_CHAR(r.created_at, 'YYYY-MM-DD'), s.first_name
		FROM reviews r
		JOIN students s ON s.id = r.student_id
		WHERE r.tutor_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.ReviewView{}
	for rows.Next() {
		var r models.ReviewView
		if err := rows.Scan(&r.Stars, &r.Text, &r.Date, &r.Name); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
