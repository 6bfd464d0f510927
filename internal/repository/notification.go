package repository

import (
	"context"
	"errors"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db database.Database
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification document
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		CREATE notification CONTENT {
			recipient_id: $recipient_id,
			title: $title,
			body: $body,
			category: $category,
			deep_link: $deep_link,
			read: false,
			created_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"recipient_id": n.RecipientID,
		"title":        n.Title,
		"body":         n.Body,
		"category":     n.Category,
		"deep_link":    n.DeepLink,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created := extractQueryResults(result)
	if len(created) == 0 {
		return errors.New("no record returned from create")
	}
	if data, ok := created[0].(map[string]interface{}); ok {
		n.ID = convertSurrealID(data["id"])
		if t := getTime(data, "created_at"); t != nil {
			n.CreatedAt = *t
		}
	}
	return nil
}

// GetByRecipient retrieves a recipient's notifications, newest first
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error) {
	query := `
		SELECT * FROM notification
		WHERE recipient_id = $recipient_id
		ORDER BY created_at DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"recipient_id": recipientID,
		"limit":        limit,
		"offset":       offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseNotificationsResult(result), nil
}

// MarkRead flags a notification as read. Returns database.ErrNotFound when
// the notification does not exist.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET read = true`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if len(extractQueryResults(result)) == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) parseNotificationResult(result interface{}) (*model.Notification, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	n := &model.Notification{
		ID:          convertSurrealID(data["id"]),
		RecipientID: getString(data, "recipient_id"),
		Title:       getString(data, "title"),
		Body:        getString(data, "body"),
		Category:    getString(data, "category"),
		DeepLink:    getString(data, "deep_link"),
		Read:        getBool(data, "read"),
	}
	if t := getTime(data, "created_at"); t != nil {
		n.CreatedAt = *t
	}
	return n, nil
}

func (r *NotificationRepository) parseNotificationsResult(result []interface{}) []*model.Notification {
	notifications := make([]*model.Notification, 0)
	for _, item := range extractQueryResults(result) {
		n, err := r.parseNotificationResult(item)
		if err != nil {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications
}
