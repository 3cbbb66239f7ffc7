package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"tutoring_back_end_go/models"
)

const slotColumns = `a.id, a.tutor_id, a.day, TO_CHAR(a.date, 'YYYY-MM-DD'), TO_CHAR(a.time, 'HH24:MI'), a.type`

// buildInsertSlots renders one multi-row INSERT for the whole batch.
func buildInsertSlots(tutorID int64, slots []models.Slot) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(slots)*5)

	sb.WriteString("INSERT INTO availability (tutor_id, day, date, time, type) VALUES ")
	for i, slot := range slots {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d::date, $%d::time, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, tutorID, slot.Day, slot.Date, slot.Time, string(slot.Type))
	}
	return sb.String(), args
}

func (s *Store) InsertSlots(ctx context.Context, tutorID int64, slots []models.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	query, args := buildInsertSlots(tutorID, slots)
	if _, err := s.conn(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert slots: %w", err)
	}
	return nil
}

// DeleteSlotsBefore removes the tutor's slots dated before today.
func (s *Store) DeleteSlotsBefore(ctx context.Context, tutorID int64, today string) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx,
		"DELETE FROM availability WHERE tutor_id = $1 AND date < $2::date", tutorID, today)
	if err != nil {
		return 0, fmt.Errorf("sweep past slots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ListSlotsBetween(ctx context.Context, tutorID int64, w models.Window) ([]models.Slot, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability a
		WHERE a.tutor_id = $1 AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date, a.time`, tutorID, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return collectSlots(rows)
}

// ListOpenSlots returns a tutor's slots that start strictly after now.
func (s *Store) ListOpenSlots(ctx context.Context, username, today, now string) ([]models.Slot, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability a
		JOIN tutors t ON t.id = a.tutor_id
		WHERE t.username = $1
		  AND (a.date > $2::date OR (a.date = $2::date AND a.time > $3::time))
		ORDER BY a.date, a.time`, username, today, now)
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	return collectSlots(rows)
}

// DeleteSlot removes a slot only when it belongs to the tutor with the
// given e-mail.
func (s *Store) DeleteSlot(ctx context.Context, slotID int64, tutorEmail string) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx, `
		DELETE FROM availability
		WHERE id = $1 AND tutor_id = (SELECT id FROM tutors WHERE email = $2)`, slotID, tutorEmail)
	if err != nil {
		return 0, fmt.Errorf("delete slot: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ConsumeSlot deletes every slot matching the exact tuple.
func (s *Store) ConsumeSlot(ctx context.Context, key models.SlotKey) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx, `
		DELETE FROM availability
		WHERE tutor_id = $1 AND date = $2::date AND time = $3::time AND type = $4`,
		key.TutorID, key.Date, key.Time, string(key.Type))
	if err != nil {
		return 0, fmt.Errorf("consume slot: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectSlots(rows pgx.Rows) ([]models.Slot, error) {
	defer rows.Close()

	slots := []models.Slot{}
	for rows.Next() {
		var slot models.Slot
		var slotType string
		if err := rows.Scan(&slot.ID, &slot.TutorID, &slot.Day, &slot.Date, &slot.Time, &slotType); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.Type = models.LessonType(slotType)
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return slots, nil
}
