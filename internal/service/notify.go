package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationRepository defines the interface for notification storage
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationService persists addressed notifications and serves the
// per-recipient inbox.
type NotificationService struct {
	notificationRepo NotificationRepository
}

// NotificationServiceConfig holds configuration for the notification service
type NotificationServiceConfig struct {
	NotificationRepo NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg NotificationServiceConfig) *NotificationService {
	return &NotificationService{
		notificationRepo: cfg.NotificationRepo,
	}
}

// Send persists a notification for its recipient
func (s *NotificationService) Send(ctx context.Context, n *model.Notification) error {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("persisting notification: %w", err)
	}
	return nil
}

// GetByRecipient retrieves a recipient's notifications, newest first
func (s *NotificationService) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	} else if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.GetByRecipient(ctx, recipientID, limit, offset)
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
