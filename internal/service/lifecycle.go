package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/repository"
)

// RequestRepository defines the interface for request storage of one kind
type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id string) (*model.Request, error)
	GetByUser(ctx context.Context, requesterID string) ([]*model.Request, error)
	GetByProvider(ctx context.Context, providerID string) ([]*model.Request, error)
	GetAll(ctx context.Context) ([]*model.Request, error)
	UpdateStatus(ctx context.Context, id string, upd repository.StatusUpdate) error
	SetChannel(ctx context.Context, id, channelID string) error
	Delete(ctx context.Context, id string) error
}

// ChannelProvisioner provisions a channel between two parties
type ChannelProvisioner interface {
	GetOrCreate(ctx context.Context, partyA, partyB string) (*model.Channel, error)
}

// Fanout dispatches lifecycle notifications after a committed write
type Fanout interface {
	FanOut(ctx context.Context, event model.LifecycleEvent, req *model.Request) []DispatchResult
}

// StorePinger reports whether the document store is reachable
type StorePinger interface {
	Ping(ctx context.Context) error
}

// LifecycleService drives the shared request lifecycle for all five kinds.
// Every write is a single whole-document store operation; channel
// provisioning and fan-out are best-effort and run strictly after it.
type LifecycleService struct {
	repos    map[model.Kind]RequestRepository
	channels ChannelProvisioner
	fanout   Fanout
	store    StorePinger
}

// LifecycleServiceConfig holds configuration for the lifecycle service
type LifecycleServiceConfig struct {
	Repos    map[model.Kind]RequestRepository
	Channels ChannelProvisioner
	Fanout   Fanout
	Store    StorePinger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(cfg LifecycleServiceConfig) *LifecycleService {
	return &LifecycleService{
		repos:    cfg.Repos,
		channels: cfg.Channels,
		fanout:   cfg.Fanout,
		store:    cfg.Store,
	}
}

func (s *LifecycleService) repoFor(kind model.Kind) (RequestRepository, model.KindConfig, error) {
	cfg, ok := model.ConfigForKind(kind)
	if !ok {
		return nil, model.KindConfig{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	repo, ok := s.repos[kind]
	if !ok {
		return nil, model.KindConfig{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return repo, cfg, nil
}

// Create validates and persists a new request, then runs creation side
// effects. Validation reports every missing field at once; line items are
// checked only on order-like kinds. The returned dispatch results describe
// the creation fan-out.
func (s *LifecycleService) Create(ctx context.Context, kind model.Kind, payload *model.CreateRequestPayload) (*model.Request, []DispatchResult, error) {
	repo, cfg, err := s.repoFor(kind)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if missing := payload.MissingFields(cfg); len(missing) > 0 {
		return nil, nil, missingFieldsError(missing)
	}
	if cfg.OrderLike {
		if idx, reason := payload.InvalidItem(); idx >= 0 {
			return nil, nil, &ValidationError{
				Sentinel: ErrInvalidItem,
				Fields: []model.FieldError{{
					Field:   fmt.Sprintf("items[%d]", idx),
					Message: reason,
				}},
			}
		}
	}

	req := &model.Request{
		HumanID:     model.NewHumanID(cfg.Prefix),
		Kind:        kind,
		RequesterID: payload.RequesterID,
		ProviderID:  normalizeProviderID(payload.ProviderID),
		Category:    payload.Category,
		Details:     payload.Details,
		Budget:      payload.Budget,
		Photos:      payload.Photos,
		Status:      cfg.Initial,
	}
	if cfg.OrderLike {
		req.Items = payload.Items
		req.Total = payload.ItemsTotal()
	}

	if err := repo.Create(ctx, req); err != nil {
		return nil, nil, fmt.Errorf("persisting request: %w", err)
	}

	// The document is committed; everything below is best effort.
	if req.ProviderID != nil {
		s.provisionChannel(ctx, repo, req, *req.ProviderID)
	}
	results := s.fanout.FanOut(ctx, model.EventCreated, req)

	return req, results, nil
}

// UpdateStatus applies a lifecycle transition. Accepting binds the provider
// exactly once: a different provider gets ErrProviderConflict, while the
// bound provider re-accepting is a no-op that returns the stored request
// without side effects.
func (s *LifecycleService) UpdateStatus(ctx context.Context, kind model.Kind, id string, payload *model.UpdateStatusPayload) (*model.Request, []DispatchResult, error) {
	repo, cfg, err := s.repoFor(kind)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if fields := payload.Validate(); len(fields) > 0 {
		sentinel := ErrInvalidStatus
		if payload.Status == model.StatusAccepted {
			sentinel = ErrProviderRequired
		}
		return nil, nil, &ValidationError{Sentinel: sentinel, Fields: fields}
	}

	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading request: %w", err)
	}
	if req == nil {
		return nil, nil, ErrRequestNotFound
	}

	target := payload.Status
	if target == model.StatusAccepted && !req.IsOpen() {
		if *req.ProviderID != *payload.ProviderID {
			return nil, nil, fmt.Errorf("%w: %s", ErrProviderConflict, *req.ProviderID)
		}
		if req.Status == model.StatusAccepted {
			// Same provider accepting again; nothing to change.
			return req, nil, nil
		}
	}

	if !cfg.CanTransition(req.Status, target) {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, req.Status, target)
	}

	upd := repository.StatusUpdate{Status: target}
	assigningProvider := target == model.StatusAccepted && req.IsOpen()
	if assigningProvider {
		upd.ProviderID = payload.ProviderID
	}
	if target == model.StatusInProgress && payload.ProgressNote != nil {
		upd.ProgressNote = payload.ProgressNote
	}

	if err := repo.UpdateStatus(ctx, id, upd); err != nil {
		return nil, nil, fmt.Errorf("persisting transition: %w", err)
	}

	now := time.Now().UTC()
	req.Status = target
	req.UpdatedAt = now
	if assigningProvider {
		req.ProviderID = payload.ProviderID
	}
	if upd.ProgressNote != nil {
		req.ProgressNote = upd.ProgressNote
		req.LastProgressUpdate = &now
	}

	// The transition is committed; everything below is best effort.
	if assigningProvider && req.ChannelID == nil {
		s.provisionChannel(ctx, repo, req, *payload.ProviderID)
	}

	var results []DispatchResult
	if event, ok := model.EventForStatus(target); ok {
		results = s.fanout.FanOut(ctx, event, req)
	}

	return req, results, nil
}

// GetByID retrieves a request by id
func (s *LifecycleService) GetByID(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	repo, _, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// GetByUser retrieves the requests a requester created, newest first
func (s *LifecycleService) GetByUser(ctx context.Context, kind model.Kind, requesterID string) ([]*model.Request, error) {
	repo, _, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByUser(ctx, requesterID)
}

// GetByProvider retrieves a provider's work queue: requests assigned to the
// provider plus open requests awaiting one, newest first.
func (s *LifecycleService) GetByProvider(ctx context.Context, kind model.Kind, providerID string) ([]*model.Request, error) {
	repo, _, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByProvider(ctx, providerID)
}

// GetAll retrieves every request of a kind, newest first
func (s *LifecycleService) GetAll(ctx context.Context, kind model.Kind) ([]*model.Request, error) {
	repo, _, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

// Delete removes a request. Administrative operation.
func (s *LifecycleService) Delete(ctx context.Context, kind model.Kind, id string) error {
	repo, _, err := s.repoFor(kind)
	if err != nil {
		return err
	}
	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	return repo.Delete(ctx, id)
}

// provisionChannel provisions the requester/provider channel and records it
// on the request. Failures are logged, never raised: the primary write has
// already committed.
func (s *LifecycleService) provisionChannel(ctx context.Context, repo RequestRepository, req *model.Request, providerID string) {
	channel, err := s.channels.GetOrCreate(ctx, req.RequesterID, providerID)
	if err != nil {
		log.Printf("[Lifecycle] Failed to provision channel for %s: %v", req.HumanID, err)
		return
	}
	if err := repo.SetChannel(ctx, req.ID, channel.ID); err != nil {
		log.Printf("[Lifecycle] Failed to record channel on %s: %v", req.HumanID, err)
		return
	}
	req.ChannelID = &channel.ID
}

func normalizeProviderID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
