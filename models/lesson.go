package models

import "time"

type LessonStatus string

const (
	LessonUpcoming  LessonStatus = "upcoming"
	LessonCompleted LessonStatus = "completed"
)

type Lesson struct {
	ID        int64        `json:"id"`
	TutorID   int64        `json:"tutorId"`
	StudentID int64        `json:"studentId"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Type      LessonType   `json:"type"`
	Status    LessonStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// LessonView is a lesson as listed for one side of it.
type LessonView struct {
	ID       int64        `json:"id"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Type     LessonType   `json:"type"`
	Status   LessonStatus `json:"status"`
	WithName string       `json:"withName"`
}

type BookingRequest struct {
	TutorUsername string `json:"tutorUsername" form:"tutorUsername"`
	Date          string `json:"date" form:"date"`
	Time          string `json:"time" form:"time"`
	Type          string `json:"type" form:"type"`
}

// BookingParties holds the ids resolved for a booking; nil means unknown.
type BookingParties struct {
	TutorID   *int64
	StudentID *int64
}

type Booking struct {
	Lesson       *Lesson
	SlotsRemoved int64
	// SlotCleanupErr is set when the lesson was kept but slot removal failed.
	SlotCleanupErr error
}
