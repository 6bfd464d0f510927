package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aptify/api/internal/middleware"
	"github.com/aptify/api/internal/model"
)

// NotificationService interface for the handler
type NotificationService interface {
	GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationHandler handles notification inbox HTTP requests
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /v1/notifications - the caller's inbox, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	notifications, err := h.notifications.GetByRecipient(ctx, userID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, notifications, &PaginationInfo{
		Limit:   limit,
		Offset:  offset,
		HasMore: limit > 0 && len(notifications) == limit,
	}, nil)
}

// MarkRead handles PATCH /v1/notifications/{id}/read - flag one as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.notifications.MarkRead(ctx, r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
