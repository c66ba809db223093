package store

import (
	"context"

	"corebank/internal/models"
)

type NotificationStore struct {
	db DB
}

func NewNotificationStore(db DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Insert(ctx context.Context, notification models.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, transfer_id, customer_id, channel, template_code, status, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, notification.ID, notification.TransferID, notification.CustomerID, notification.Channel,
		notification.TemplateCode, notification.Status, notification.SentAt, notification.CreatedAt)
	return err
}

func (s *NotificationStore) ListByTransfer(ctx context.Context, transferID string) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, transfer_id, customer_id, channel, template_code, status, sent_at, created_at
		FROM notifications
		WHERE transfer_id = $1
		ORDER BY created_at DESC
	`, transferID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
