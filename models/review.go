package models

import "time"

const (
	MinStars = 1
	MaxStars = 5
)

type Review struct {
	ID        int64     `json:"id"`
	LessonID  int64     `json:"lessonId"`
	TutorID   int64     `json:"tutorId"`
	StudentID int64     `json:"studentId"`
	Stars     int       `json:"stars"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewView is a review as shown on a tutor's public page.
type ReviewView struct {
	Stars int    `json:"stars"`
	Text  string `json:"text"`
	Date  string `json:"date"`
	Name  string `json:"name"`
}
