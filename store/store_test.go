package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutoring_back_end_go/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildSearchQueryNoFilters(t *testing.T) {
	query, args := buildSearchQuery(models.SearchFilter{})

	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "HAVING")
	assert.Contains(t, query, "GROUP BY t.id")
}

func TestBuildSearchQueryAllFilters(t *testing.T) {
	query, args := buildSearchQuery(models.SearchFilter{
		Subject:   "Math",
		Location:  "Beirut",
		MaxPrice:  floatPtr(30),
		Method:    "online",
		MinRating: floatPtr(4),
	})

	require.Len(t, args, 5)
	assert.Equal(t, []interface{}{"%Math%", "%Beirut%", 30.0, "online", 4.0}, args)

	assert.Contains(t, query, "t.subjects::text ILIKE $1 AND t.area ILIKE $2 AND t.hourly_rate <= $3::float8 AND t.teaching_method = $4")
	assert.Contains(t, query, "HAVING COALESCE(AVG(r.stars), 0) >= $5::float8")

	// the rating filter must apply after grouping
	assert.Less(t, strings.Index(query, "GROUP BY"), strings.Index(query, "HAVING"))
	assert.NotContains(t, query[:strings.Index(query, "GROUP BY")], "AVG(r.stars), 0) >=")
}

func TestBuildSearchQueryOmitsUnsetClauses(t *testing.T) {
	query, args := buildSearchQuery(models.SearchFilter{Location: "Paris", MinRating: floatPtr(3)})

	assert.Equal(t, []interface{}{"%Paris%", 3.0}, args)
	assert.NotContains(t, query, "hourly_rate <=")
	assert.NotContains(t, query, "subjects::text")
	assert.NotContains(t, query, "teaching_method =")
	assert.Contains(t, query, "t.area ILIKE $1")
	assert.Contains(t, query, ">= $2::float8")
}

func TestBuildInsertSlots(t *testing.T) {
	slots := []models.Slot{
		{Day: "Monday", Date: "2024-05-06", Time: "10:00", Type: models.LessonOnline},
		{Day: "Monday", Date: "2024-05-06", Time: "10:00", Type: models.LessonOnline},
		{Day: "Tuesday", Date: "2024-05-07", Time: "14:30", Type: models.LessonInPerson},
	}

	query, args := buildInsertSlots(7, slots)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO availability (tutor_id, day, date, time, type) VALUES "))
	assert.Equal(t, 3, strings.Count(query, "::date"))
	assert.Contains(t, query, "($11, $12, $13::date, $14::time, $15)")
	require.Len(t, args, 15)
	assert.Equal(t, []interface{}{int64(7), "Tuesday", "2024-05-07", "14:30", "in person"}, args[10:])
}

func TestDuplicateField(t *testing.T) {
	for _, tc := range []struct {
		constraint string
		want       models.IdentityField
	}{
		{"tutors_email_key", models.FieldEmail},
		{"students_phone_key", models.FieldPhone},
		{"students_username_key", models.FieldUsername},
	} {
		err := fmt.Errorf("create student: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})
		field, ok := duplicateField(err)
		assert.True(t, ok, tc.constraint)
		assert.Equal(t, tc.want, field)
	}

	_, ok := duplicateField(&pgconn.PgError{Code: "23503", ConstraintName: "tutors_email_key"})
	assert.False(t, ok)

	_, ok = duplicateField(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestSubjectsKeepOrderAndDuplicates(t *testing.T) {
	raw, err := encodeSubjects([]string{"Math", "English", "Math"})
	require.NoError(t, err)
	assert.Equal(t, `["Math","English","Math"]`, raw)
	assert.Equal(t, []string{"Math", "English", "Math"}, decodeSubjects([]byte(raw)))

	empty, err := encodeSubjects(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
	assert.Equal(t, []string{}, decodeSubjects(nil))
}
