package handler

import (
	"context"
	"net/http"

	"github.com/aptify/api/internal/middleware"
	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/service"
)

// LifecycleService interface for the handler
type LifecycleService interface {
	Create(ctx context.Context, kind model.Kind, payload *model.CreateRequestPayload) (*model.Request, []service.DispatchResult, error)
	UpdateStatus(ctx context.Context, kind model.Kind, id string, payload *model.UpdateStatusPayload) (*model.Request, []service.DispatchResult, error)
	GetByID(ctx context.Context, kind model.Kind, id string) (*model.Request, error)
	GetByUser(ctx context.Context, kind model.Kind, requesterID string) ([]*model.Request, error)
	GetByProvider(ctx context.Context, kind model.Kind, providerID string) ([]*model.Request, error)
	GetAll(ctx context.Context, kind model.Kind) ([]*model.Request, error)
	Delete(ctx context.Context, kind model.Kind, id string) error
}

// RequestHandler handles service request HTTP requests
type RequestHandler struct {
	lifecycle LifecycleService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(lifecycle LifecycleService) *RequestHandler {
	return &RequestHandler{lifecycle: lifecycle}
}

// RequestResponse pairs a request with the fan-out outcomes of the write
// that produced it
type RequestResponse struct {
	Request  *model.Request           `json:"request"`
	Dispatch []service.DispatchResult `json:"dispatch,omitempty"`
}

// Create handles POST /v1/requests/{kind} - create a service request
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var payload model.CreateRequestPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	// The caller is always the requester regardless of what the body says.
	payload.RequesterID = userID

	req, dispatch, err := h.lifecycle.Create(ctx, model.Kind(r.PathValue("kind")), &payload)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, RequestResponse{Request: req, Dispatch: dispatch}, map[string]string{
		"self": "/v1/requests/" + string(req.Kind) + "/" + req.ID,
	})
}

// UpdateStatus handles PATCH /v1/requests/{kind}/{id}/status - transition a request
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var payload model.UpdateStatusPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, dispatch, err := h.lifecycle.UpdateStatus(ctx, model.Kind(r.PathValue("kind")), r.PathValue("id"), &payload)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, RequestResponse{Request: req, Dispatch: dispatch}, nil)
}

// GetByID handles GET /v1/requests/{kind}/{id} - fetch one request
func (h *RequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	req, err := h.lifecycle.GetByID(r.Context(), model.Kind(r.PathValue("kind")), r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, req, nil)
}

// List handles GET /v1/requests/{kind} - list the caller's requests.
// With ?role=provider the response is the provider work queue: requests
// assigned to the caller plus open requests awaiting a provider.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	kind := model.Kind(r.PathValue("kind"))

	var (
		requests []*model.Request
		err      error
	)
	switch r.URL.Query().Get("role") {
	case "provider":
		requests, err = h.lifecycle.GetByProvider(ctx, kind, userID)
	case "", "requester":
		requests, err = h.lifecycle.GetByUser(ctx, kind, userID)
	default:
		WriteError(w, model.NewBadRequestError("role must be requester or provider"))
		return
	}
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, requests, nil, nil)
}

// ListAll handles GET /v1/admin/requests/{kind} - list every request of a kind
func (h *RequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.lifecycle.GetAll(r.Context(), model.Kind(r.PathValue("kind")))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, requests, nil, nil)
}

// Delete handles DELETE /v1/admin/requests/{kind}/{id} - remove a request
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.Delete(r.Context(), model.Kind(r.PathValue("kind")), r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
