package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"corebank/internal/models"
)

type NotificationStore interface {
	Insert(ctx context.Context, notification models.Notification) error
	ListByTransfer(ctx context.Context, transferID string) ([]models.Notification, error)
}

type SendNotificationRequest struct {
	TransferID   string
	CustomerID   string
	Channel      string
	TemplateCode string
	Params       map[string]string
}

// NotificationService records a delivery attempt. No real channel is wired
// up, so every attempt lands as SENT; only storage errors can fail it.
type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) Send(ctx context.Context, req SendNotificationRequest) (models.Notification, error) {
	now := time.Now().UTC()
	notification := models.Notification{
		ID:           uuid.NewString(),
		TransferID:   req.TransferID,
		CustomerID:   req.CustomerID,
		Channel:      req.Channel,
		TemplateCode: req.TemplateCode,
		Status:       "SENT",
		SentAt:       now,
		CreatedAt:    now,
	}
	if err := s.notifications.Insert(ctx, notification); err != nil {
		return models.Notification{}, err
	}
	log.Printf("notification sent: transfer=%s customer=%s channel=%s template=%s",
		req.TransferID, req.CustomerID, req.Channel, req.TemplateCode)
	return notification, nil
}
