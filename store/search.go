package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"tutoring_back_end_go/models"
)

const summaryFrom = `
	FROM tutors t
	LEFT JOIN reviews r ON r.tutor_id = t.id`

const summaryAggregates = `,
	COALESCE(AVG(r.stars), 0)::float8 AS avg_rating,
	COUNT(r.stars) AS review_count,
	COALESCE(ARRAY_AGG(r.stars ORDER BY r.id) FILTER (WHERE r.stars IS NOT NULL), '{}') AS ratings`

// buildSearchQuery renders the tutor search. Each filter adds its clause
// only when set; the rating filter applies to the aggregate.
func buildSearchQuery(filter models.SearchFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subject != "" {
		conditions = append(conditions, "t.subjects::text ILIKE "+next("%"+filter.Subject+"%"))
	}
	if filter.Location != "" {
		conditions = append(conditions, "t.area ILIKE "+next("%"+filter.Location+"%"))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "t.hourly_rate <= "+next(*filter.MaxPrice)+"::float8")
	}
	if filter.Method != "" {
		conditions = append(conditions, "t.teaching_method = "+next(filter.Method))
	}

	var sb strings.Builder
	sb.WriteString("SELECT")
	sb.WriteString(tutorColumns)
	sb.WriteString(summaryAggregates)
	sb.WriteString(summaryFrom)
	if len(conditions) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString("\nGROUP BY t.id")
	if filter.MinRating != nil {
		sb.WriteString("\nHAVING COALESCE(AVG(r.stars), 0) >= " + next(*filter.MinRating) + "::float8")
	}
	sb.WriteString("\nORDER BY t.id")

	return sb.String(), args
}

func (s *Store) SearchTutors(ctx context.Context, filter models.SearchFilter) ([]models.TutorSummary, error) {
	query, args := buildSearchQuery(filter)

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search tutors: %w", err)
	}
	defer rows.Close()

	results := []models.TutorSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tutor: %w", err)
		}
		results = append(results, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutors: %w", err)
	}
	return results, nil
}

// TutorSummaryByUsername loads one tutor with its review aggregate.
func (s *Store) TutorSummaryByUsername(ctx context.Context, username string) (*models.TutorSummary, error) {
	query := "SELECT" + tutorColumns + summaryAggregates + summaryFrom + `
		WHERE t.username = $1
		GROUP BY t.id`

	summary, err := scanSummary(s.conn(ctx).QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return summary, nil
}

func scanSummary(row pgx.Row) (*models.TutorSummary, error) {
	var summary models.TutorSummary
	var ratings []int32

	tutor, err := scanTutor(row, &summary.AvgRating, &summary.ReviewCount, &ratings)
	if err != nil {
		return nil, err
	}

	summary.Tutor = *tutor
	summary.Ratings = make([]int, len(ratings))
	for i, r := range ratings {
		summary.Ratings[i] = int(r)
	}
	return &summary, nil
}
