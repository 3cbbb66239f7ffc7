package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

var (
	tutorSession   = models.Principal{Email: "tina@example.com", Kind: models.KindTutor}
	studentSession = models.Principal{Email: "sam@example.com", Kind: models.KindStudent}
)

func newAvailability(t *testing.T) (*AvailabilityService, *memStore, *models.Tutor) {
	t.Helper()
	store := newMemStore()
	tutor := store.addTutor("tina", tutorSession.Email)
	return NewAvailabilityService(store, fixedClock, zap.NewNop()), store, tutor
}

func TestAddSlotsAuthorization(t *testing.T) {
	svc, _, _ := newAvailability(t)
	in := []models.SlotInput{{Day: "Monday", Date: "2024-05-07", Time: "10:00", Type: "online"}}

	assert.ErrorIs(t, svc.AddSlots(context.Background(), models.Principal{}, in), models.ErrUnauthenticated)
	assert.ErrorIs(t, svc.AddSlots(context.Background(), studentSession, in), models.ErrForbidden)

	ghost := models.Principal{Email: "gone@example.com", Kind: models.KindTutor}
	assert.ErrorIs(t, svc.AddSlots(context.Background(), ghost, in), models.ErrUnauthenticated)
}

func TestAddSlotsValidation(t *testing.T) {
	svc, store, _ := newAvailability(t)

	err := svc.AddSlots(context.Background(), tutorSession, nil)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slots", verr.Field)

	err = svc.AddSlots(context.Background(), tutorSession, []models.SlotInput{
		{Day: "Monday", Date: "2024-05-07", Time: "10:00", Type: "online"},
		{Day: "Monday", Date: "2024-05-07", Time: "25:00", Type: "online"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slots[1].time", verr.Field)

	err = svc.AddSlots(context.Background(), tutorSession, []models.SlotInput{
		{Day: "Monday", Date: "2024-05-07", Time: "10:00", Type: "carrier pigeon"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slots[0].type", verr.Field)

	assert.Empty(t, store.slots, "a rejected batch writes nothing")
}

func TestAddSlotsAcceptsDuplicates(t *testing.T) {
	svc, store, tutor := newAvailability(t)

	err := svc.AddSlots(context.Background(), tutorSession, []models.SlotInput{
		{Day: "Tuesday", Date: "2024-05-07T00:00:00.000Z", Time: "10:00:00", Type: "online"},
		{Day: "Tuesday", Date: "2024-05-07", Time: "10:00", Type: "online"},
	})
	require.NoError(t, err)

	key := models.SlotKey{TutorID: tutor.ID, Date: "2024-05-07", Time: "10:00", Type: models.LessonOnline}
	assert.Equal(t, 2, store.countSlots(key))
}

func TestListUpcomingSweepsAndWindows(t *testing.T) {
	svc, store, tutor := newAvailability(t)
	other := store.addTutor("otto", "otto@example.com")

	store.addSlot(tutor.ID, "2024-05-05", "09:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-13", "08:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-14", "08:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-06", "16:00", models.LessonInPerson)
	store.addSlot(tutor.ID, "2024-05-06", "08:00", models.LessonOnline)
	store.addSlot(other.ID, "2024-05-01", "08:00", models.LessonOnline)

	first, err := svc.ListUpcoming(context.Background(), tutorSession)
	require.NoError(t, err)

	var got []string
	for _, s := range first {
		got = append(got, s.Date+" "+s.Time)
	}
	assert.Equal(t, []string{"2024-05-06 08:00", "2024-05-06 16:00", "2024-05-13 08:00"}, got)

	second, err := svc.ListUpcoming(context.Background(), tutorSession)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, s := range store.slots {
		if s.TutorID == tutor.ID {
			assert.GreaterOrEqual(t, s.Date, "2024-05-06")
		}
	}
	assert.Len(t, store.slots, 5, "only the tutor's own past slot is purged")
}

func TestListPublicExcludesPastAndStartedSlots(t *testing.T) {
	svc, store, tutor := newAvailability(t)

	store.addSlot(tutor.ID, "2024-05-05", "23:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-06", "10:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-06", "10:30", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-05-06", "11:00", models.LessonOnline)
	store.addSlot(tutor.ID, "2024-06-30", "07:00", models.LessonInPerson)

	slots, err := svc.ListPublic(context.Background(), "tina")
	require.NoError(t, err)

	var got []string
	for _, s := range slots {
		got = append(got, s.Date+" "+s.Time)
	}
	assert.Equal(t, []string{"2024-05-06 11:00", "2024-06-30 07:00"}, got)
}

func TestDeleteSlotOwnership(t *testing.T) {
	svc, store, tutor := newAvailability(t)
	other := store.addTutor("otto", "otto@example.com")

	mine := store.addSlot(tutor.ID, "2024-05-07", "10:00", models.LessonOnline)
	theirs := store.addSlot(other.ID, "2024-05-07", "10:00", models.LessonOnline)

	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), tutorSession, theirs.ID), models.ErrSlotNotOwned)
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), tutorSession, 9999), models.ErrSlotNotOwned)
	require.NoError(t, svc.DeleteSlot(context.Background(), tutorSession, mine.ID))

	assert.Len(t, store.slots, 1)
	assert.Equal(t, theirs.ID, store.slots[0].ID)
}
