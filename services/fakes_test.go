package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"tutoring_back_end_go/models"
)

var testNow = time.Date(2024, 5, 6, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// memStore is an in-memory stand-in for store.Store.
type memStore struct {
	mu sync.Mutex

	nextID   int64
	tutors   []*models.Tutor
	students []*models.Student
	slots    []models.Slot
	lessons  []*models.Lesson
	reviews  []*models.Review
	contacts []*models.ContactMessage

	checks    []models.IdentityField
	locks     int
	txCalls   int
	rollbacks int

	consumeErr error
	createErr  error
	reviewsErr error
	searched   []models.SearchFilter
}

func newMemStore() *memStore {
	return &memStore{nextID: 100}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addTutor(username, email string) *models.Tutor {
	t := &models.Tutor{Account: models.Account{
		ID:        m.id(),
		FirstName: "Tina",
		LastName:  "Tutor",
		Email:     email,
		Phone:     "phone-" + username,
		Username:  username,
	}}
	m.tutors = append(m.tutors, t)
	return t
}

func (m *memStore) addStudent(username, email string) *models.Student {
	s := &models.Student{Account: models.Account{
		ID:        m.id(),
		FirstName: "Sam",
		LastName:  "Student",
		Email:     email,
		Phone:     "phone-" + username,
		Username:  username,
	}}
	m.students = append(m.students, s)
	return s
}

func (m *memStore) addSlot(tutorID int64, date, clock string, t models.LessonType) models.Slot {
	slot := models.Slot{ID: m.id(), TutorID: tutorID, Day: "Monday", Date: date, Time: clock, Type: t}
	m.slots = append(m.slots, slot)
	return slot
}

func testSlotKey(s models.Slot) models.SlotKey {
	return models.SlotKey{TutorID: s.TutorID, Date: s.Date, Time: s.Time, Type: s.Type}
}

func (m *memStore) countSlots(key models.SlotKey) int {
	n := 0
	for _, s := range m.slots {
		if testSlotKey(s) == key {
			n++
		}
	}
	return n
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	slots := append([]models.Slot(nil), m.slots...)
	lessons := append([]*models.Lesson(nil), m.lessons...)
	students := append([]*models.Student(nil), m.students...)
	tutors := append([]*models.Tutor(nil), m.tutors...)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.rollbacks++
		m.slots, m.lessons, m.students, m.tutors = slots, lessons, students, tutors
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) TutorIDByEmail(_ context.Context, email string) (int64, error) {
	for _, t := range m.tutors {
		if t.Email == email {
			return t.ID, nil
		}
	}
	return 0, models.ErrNotFound
}

func (m *memStore) InsertSlots(_ context.Context, tutorID int64, slots []models.Slot) error {
	for _, s := range slots {
		s.ID = m.id()
		s.TutorID = tutorID
		m.slots = append(m.slots, s)
	}
	return nil
}

func (m *memStore) DeleteSlotsBefore(_ context.Context, tutorID int64, today string) (int64, error) {
	var kept []models.Slot
	var n int64
	for _, s := range m.slots {
		if s.TutorID == tutorID && s.Date < today {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.slots = kept
	return n, nil
}

func sortSlots(slots []models.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
}

func (m *memStore) ListSlotsBetween(_ context.Context, tutorID int64, w models.Window) ([]models.Slot, error) {
	out := []models.Slot{}
	for _, s := range m.slots {
		if s.TutorID == tutorID && s.Date >= w.From && s.Date <= w.To {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *memStore) ListOpenSlots(_ context.Context, username, today, now string) ([]models.Slot, error) {
	var tutorID int64
	for _, t := range m.tutors {
		if t.Username == username {
			tutorID = t.ID
		}
	}

	out := []models.Slot{}
	for _, s := range m.slots {
		if s.TutorID != tutorID {
			continue
		}
		if s.Date > today || (s.Date == today && s.Time+":00" > now) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *memStore) DeleteSlot(_ context.Context, slotID int64, tutorEmail string) (int64, error) {
	tutorID, err := m.TutorIDByEmail(context.Background(), tutorEmail)
	if err != nil {
		return 0, nil
	}
	for i, s := range m.slots {
		if s.ID == slotID && s.TutorID == tutorID {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) ConsumeSlot(_ context.Context, key models.SlotKey) (int64, error) {
	if m.consumeErr != nil {
		return 0, m.consumeErr
	}
	var kept []models.Slot
	var n int64
	for _, s := range m.slots {
		if testSlotKey(s) == key {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.slots = kept
	return n, nil
}

func (m *memStore) ResolveParties(_ context.Context, tutorUsername, studentEmail string) (models.BookingParties, error) {
	var parties models.BookingParties
	for _, t := range m.tutors {
		if t.Username == tutorUsername {
			id := t.ID
			parties.TutorID = &id
		}
	}
	for _, s := range m.students {
		if s.Email == studentEmail {
			id := s.ID
			parties.StudentID = &id
		}
	}
	return parties, nil
}

func (m *memStore) CreateLesson(_ context.Context, lesson *models.Lesson) error {
	lesson.ID = m.id()
	lesson.CreatedAt = testNow
	m.lessons = append(m.lessons, lesson)
	return nil
}

func (m *memStore) IdentityTaken(_ context.Context, field models.IdentityField, value string) (bool, error) {
	m.checks = append(m.checks, field)

	pick := func(a *models.Account) string {
		switch field {
		case models.FieldEmail:
			return a.Email
		case models.FieldPhone:
			return a.Phone
		}
		return a.Username
	}
	for _, t := range m.tutors {
		if pick(&t.Account) == value {
			return true, nil
		}
	}
	for _, s := range m.students {
		if pick(&s.Account) == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LockRegistrations(context.Context) error {
	m.locks++
	return nil
}

func (m *memStore) CreateStudent(_ context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = m.id()
	m.students = append(m.students, student)
	return nil
}

func (m *memStore) CreateTutor(_ context.Context, tutor *models.Tutor) error {
	if m.createErr != nil {
		return m.createErr
	}
	tutor.ID = m.id()
	m.tutors = append(m.tutors, tutor)
	return nil
}

func (m *memStore) CreateReview(_ context.Context, studentEmail string, review *models.Review) error {
	for _, l := range m.lessons {
		if l.ID != review.LessonID {
			continue
		}
		for _, s := range m.students {
			if s.ID == l.StudentID && s.Email == studentEmail {
				review.ID = m.id()
				review.TutorID = l.TutorID
				review.StudentID = l.StudentID
				m.reviews = append(m.reviews, review)
				return nil
			}
		}
	}
	return models.ErrNotFound
}

func (m *memStore) SearchTutors(_ context.Context, filter models.SearchFilter) ([]models.TutorSummary, error) {
	m.searched = append(m.searched, filter)
	out := []models.TutorSummary{}
	for _, t := range m.tutors {
		out = append(out, models.TutorSummary{Tutor: *t, Ratings: []int{}})
	}
	return out, nil
}

func (m *memStore) TutorSummaryByUsername(_ context.Context, username string) (*models.TutorSummary, error) {
	for _, t := range m.tutors {
		if t.Username == username {
			return &models.TutorSummary{Tutor: *t, Ratings: []int{}}, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListTutorReviews(_ context.Context, tutorID int64) ([]models.ReviewView, error) {
	if m.reviewsErr != nil {
		return nil, m.reviewsErr
	}
	out := []models.ReviewView{}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if r.TutorID == tutorID {
			out = append(out, models.ReviewView{Stars: r.Stars, Text: r.Text})
		}
	}
	return out, nil
}

func (m *memStore) FindCredentials(_ context.Context, email string) (*models.Credentials, error) {
	for _, t := range m.tutors {
		if t.Email == email {
			return &models.Credentials{Email: email, PasswordHash: t.PasswordHash, Kind: models.KindTutor}, nil
		}
	}
	for _, s := range m.students {
		if s.Email == email {
			return &models.Credentials{Email: email, PasswordHash: s.PasswordHash, Kind: models.KindStudent}, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) GetUser(_ context.Context, p models.Principal) (models.User, error) {
	if p.Kind == models.KindTutor {
		for _, t := range m.tutors {
			if t.Email == p.Email {
				return t, nil
			}
		}
	} else {
		for _, s := range m.students {
			if s.Email == p.Email {
				return s, nil
			}
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListLessons(_ context.Context, p models.Principal) ([]models.LessonView, error) {
	out := []models.LessonView{}
	for _, l := range m.lessons {
		out = append(out, models.LessonView{ID: l.ID, Date: l.Date, Time: l.Time, Type: l.Type, Status: l.Status})
	}
	return out, nil
}

func (m *memStore) SaveContactMessage(_ context.Context, msg *models.ContactMessage) error {
	msg.ID = m.id()
	m.contacts = append(m.contacts, msg)
	return nil
}

type recordingNotifier struct {
	tutorIDs []int64
}

func (n *recordingNotifier) LessonBooked(tutorID int64, _ *models.Lesson) {
	n.tutorIDs = append(n.tutorIDs, tutorID)
}

type recordingMailer struct {
	to, subject, body string
	err               error
	calls             int
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}
