package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// UpcomingWindowDays bounds a tutor's own availability listing.
	UpcomingWindowDays = 7
)

type LessonType string

const (
	LessonOnline   LessonType = "online"
	LessonInPerson LessonType = "in person"
)

func ParseLessonType(s string) (LessonType, error) {
	switch LessonType(s) {
	case LessonOnline, LessonInPerson:
		return LessonType(s), nil
	}
	return "", fmt.Errorf("lesson type must be %q or %q", LessonOnline, LessonInPerson)
}

// Slot is one unit of a tutor's declared open time.
type Slot struct {
	ID      int64      `json:"id"`
	TutorID int64      `json:"-"`
	Day     string     `json:"day"`
	Date    string     `json:"date"`
	Time    string     `json:"time"`
	Type    LessonType `json:"type"`
}

type SlotKey struct {
	TutorID int64
	Date    string
	Time    string
	Type    LessonType
}

// SlotInput is a slot as submitted by a tutor.
type SlotInput struct {
	Day  string `json:"day"`
	Date string `json:"date"`
	Time string `json:"time"`
	Type string `json:"type"`
}

// Window is an inclusive calendar date range.
type Window struct {
	From string
	To   string
}

func UpcomingWindow(now time.Time) Window {
	return Window{
		From: now.Format(DateLayout),
		To:   now.AddDate(0, 0, UpcomingWindowDays).Format(DateLayout),
	}
}

// NormalizeDate accepts a calendar date or a combined date-time string and
// returns the YYYY-MM-DD part.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD")
	}
	return d.Format(DateLayout), nil
}

// NormalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("time must be HH:MM")
}
