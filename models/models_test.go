package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2026-10-20", want: "2026-10-20"},
		{in: "2026-10-20T00:00:00.000Z", want: "2026-10-20"},
		{in: "2026-10-20 09:30", want: "2026-10-20"},
		{in: " 2026-10-20 ", want: "2026-10-20"},
		{in: "20/10/2026", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeDate(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	got, err := NormalizeTime("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got)

	got, err = NormalizeTime("17:05")
	require.NoError(t, err)
	assert.Equal(t, "17:05", got)

	_, err = NormalizeTime("5pm")
	assert.Error(t, err)
}

func TestParseLessonType(t *testing.T) {
	lt, err := ParseLessonType("in person")
	require.NoError(t, err)
	assert.Equal(t, LessonInPerson, lt)

	_, err = ParseLessonType("Online")
	assert.Error(t, err)
}

func TestUpcomingWindow(t *testing.T) {
	w := UpcomingWindow(time.Date(2026, 12, 28, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-12-28", w.From)
	assert.Equal(t, "2027-01-04", w.To)
}

func TestUserVariants(t *testing.T) {
	users := []User{
		&Tutor{Account: Account{Email: "t@x.io"}, TeachingMethod: LessonOnline},
		&Student{Account: Account{Email: "s@x.io"}},
	}

	assert.Equal(t, KindTutor, users[0].Kind())
	assert.Equal(t, KindStudent, users[1].Kind())
	assert.Equal(t, "s@x.io", users[1].Identity().Email)

	raw, err := json.Marshal(users[1])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "teachingMethod")
	assert.NotContains(t, string(raw), "PasswordHash")
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("book lesson: %w", StoreFailure("insert lesson", base))

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "insert lesson", storeErr.Op)
	assert.ErrorIs(t, err, base)

	assert.Equal(t, "date: date must be YYYY-MM-DD", Invalid("date", "date must be YYYY-MM-DD").Error())
	assert.Equal(t, "Phone number already exists", FieldPhone.ConflictMessage())
}
