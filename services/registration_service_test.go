package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

func newStudent(email, phone, username string) *models.Student {
	return &models.Student{Account: models.Account{
		FirstName: "Nora",
		LastName:  "New",
		Email:     email,
		Phone:     phone,
		Username:  username,
		Subjects:  []string{"Math", "English"},
	}}
}

func TestRegistrationReportsFirstConflictInOrder(t *testing.T) {
	for _, tc := range []struct {
		name      string
		student   *models.Student
		field     string
		message   string
		checksRun int
	}{
		{
			name:      "email wins over phone and username",
			student:   newStudent("sam@example.com", "phone-sam", "sam"),
			field:     "email",
			message:   "Email already exists",
			checksRun: 1,
		},
		{
			name:      "phone wins over username",
			student:   newStudent("fresh@example.com", "phone-tina", "sam"),
			field:     "phone",
			message:   "Phone number already exists",
			checksRun: 2,
		},
		{
			name:      "username across tables",
			student:   newStudent("fresh@example.com", "555", "tina"),
			field:     "username",
			message:   "Username already exists",
			checksRun: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			store.addTutor("tina", tutorSession.Email)
			store.addStudent("sam", studentSession.Email)
			svc := NewRegistrationService(store, store, false, zap.NewNop())

			err := svc.RegisterStudent(context.Background(), tc.student, "pw")

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
			assert.Len(t, store.checks, tc.checksRun)
			assert.Equal(t, models.IdentityCheckOrder[:tc.checksRun], store.checks)
			assert.Len(t, store.students, 1)
		})
	}
}

func TestRegisterStudentKeepsSubjectOrder(t *testing.T) {
	store := newMemStore()
	svc := NewRegistrationService(store, store, false, zap.NewNop())

	student := newStudent("nora@example.com", "555", "nora")
	student.Subjects = []string{"Math", "English", "Math"}
	dob := "2001-02-03T00:00:00Z"
	student.DOB = &dob

	require.NoError(t, svc.RegisterStudent(context.Background(), student, "hunter2"))

	require.Len(t, store.students, 1)
	saved := store.students[0]
	assert.Equal(t, []string{"Math", "English", "Math"}, saved.Subjects)
	assert.Equal(t, "2001-02-03", *saved.DOB)
	assert.True(t, auth.CheckPassword(saved.PasswordHash, "hunter2"))
	assert.Zero(t, store.txCalls)
	assert.Zero(t, store.locks)
}

func TestRegisterTutorValidatesMethod(t *testing.T) {
	store := newMemStore()
	svc := NewRegistrationService(store, store, false, zap.NewNop())

	tutor := &models.Tutor{
		Account:        newStudent("t@example.com", "1", "t").Account,
		TeachingMethod: "telepathy",
	}
	err := svc.RegisterTutor(context.Background(), tutor, "pw")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "teachingMethod", verr.Field)
	assert.Empty(t, store.tutors)

	tutor.TeachingMethod = models.LessonInPerson
	tutor.HourlyRate = 25
	require.NoError(t, svc.RegisterTutor(context.Background(), tutor, "pw"))
	assert.Len(t, store.tutors, 1)
}

func TestRegistrationRequiresIdentityFields(t *testing.T) {
	store := newMemStore()
	svc := NewRegistrationService(store, store, false, zap.NewNop())

	err := svc.RegisterStudent(context.Background(), newStudent("a@b.c", "", "u"), "pw")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)

	err = svc.RegisterStudent(context.Background(), newStudent("a@b.c", "1", "u"), "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	assert.Empty(t, store.checks)
}

func TestStrictRegistration(t *testing.T) {
	store := newMemStore()
	svc := NewRegistrationService(store, store, true, zap.NewNop())

	require.NoError(t, svc.RegisterStudent(context.Background(), newStudent("a@example.com", "1", "a"), "pw"))
	assert.Equal(t, 1, store.txCalls)
	assert.Equal(t, 1, store.locks)

	err := svc.RegisterStudent(context.Background(), newStudent("a@example.com", "2", "b"), "pw")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, 1, store.rollbacks)
	assert.Len(t, store.students, 1)
}

func TestUniqueIndexViolationIsFieldSpecific(t *testing.T) {
	store := newMemStore()
	store.createErr = &models.DuplicateError{Field: models.FieldPhone}
	svc := NewRegistrationService(store, store, false, zap.NewNop())

	err := svc.RegisterStudent(context.Background(), newStudent("a@example.com", "1", "a"), "pw")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
	assert.Equal(t, "Phone number already exists", verr.Message)
}
