package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

type mockNotificationRepo struct {
	createFunc func(ctx context.Context, n *model.Notification) error
	listFunc   func(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error)
	markFunc   func(ctx context.Context, id string) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, n)
	}
	return nil
}

func (m *mockNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, recipientID, limit, offset)
	}
	return []*model.Notification{}, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	if m.markFunc != nil {
		return m.markFunc(ctx, id)
	}
	return nil
}

func TestGetByRecipient_ClampsPagination(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := &mockNotificationRepo{
		listFunc: func(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.Notification{}, nil
		},
	}
	svc := NewNotificationService(NotificationServiceConfig{NotificationRepo: repo})

	// Unset limit falls back to the default; negative offset resets.
	_, err := svc.GetByRecipient(context.Background(), "user:alice", 0, -3)
	require.NoError(t, err)
	assert.Equal(t, defaultNotificationLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)

	// Oversized limit clamps to the ceiling, not the default.
	_, err = svc.GetByRecipient(context.Background(), "user:alice", 500, 0)
	require.NoError(t, err)
	assert.Equal(t, maxNotificationLimit, gotLimit)
}

func TestMarkRead_MapsNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockNotificationRepo{
		markFunc: func(ctx context.Context, id string) error {
			return database.ErrNotFound
		},
	}
	svc := NewNotificationService(NotificationServiceConfig{NotificationRepo: repo})

	err := svc.MarkRead(context.Background(), "notification:missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
