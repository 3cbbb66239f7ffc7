package store

import (
	"context"
	"fmt"

	"tutoring_back_end_go/models"
)

func (s *Store) SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}
