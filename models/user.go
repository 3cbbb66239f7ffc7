package models

import (
	"fmt"
	"time"
)

type UserKind string

const (
	KindTutor   UserKind = "tutor"
	KindStudent UserKind = "student"
)

func ParseUserKind(s string) (UserKind, error) {
	switch UserKind(s) {
	case KindTutor, KindStudent:
		return UserKind(s), nil
	}
	return "", fmt.Errorf("unknown user kind %q", s)
}

// Principal is the authenticated caller carried by the session.
type Principal struct {
	Email string   `json:"email"`
	Kind  UserKind `json:"userType"`
}

// Account holds the identity fields shared by tutors and students.
type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DOB          *string   `json:"dob"`
	Subjects     []string  `json:"subjects"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// User is either a *Tutor or a *Student.
type User interface {
	Kind() UserKind
	Identity() *Account
	isUser()
}

type Student struct {
	Account
}

func (s *Student) Kind() UserKind     { return KindStudent }
func (s *Student) Identity() *Account { return &s.Account }
func (*Student) isUser()              {}

type Tutor struct {
	Account
	ProfilePhoto   []byte     `json:"profilePhoto"`
	Background     string     `json:"background"`
	Bio            string     `json:"bio"`
	HourlyRate     int        `json:"rates"`
	TeachingMethod LessonType `json:"teachingMethod"`
	Area           string     `json:"area"`
}

func (t *Tutor) Kind() UserKind     { return KindTutor }
func (t *Tutor) Identity() *Account { return &t.Account }
func (*Tutor) isUser()              {}

// Credentials is what login needs from either table.
type Credentials struct {
	Email        string
	PasswordHash string
	Kind         UserKind
}

// IdentityField names a globally unique account field, in check order.
type IdentityField string

const (
	FieldEmail    IdentityField = "email"
	FieldPhone    IdentityField = "phone"
	FieldUsername IdentityField = "username"
)

var IdentityCheckOrder = []IdentityField{FieldEmail, FieldPhone, FieldUsername}

func (f IdentityField) ConflictMessage() string {
	switch f {
	case FieldEmail:
		return "Email already exists"
	case FieldPhone:
		return "Phone number already exists"
	case FieldUsername:
		return "Username already exists"
	}
	return string(f) + " already exists"
}
