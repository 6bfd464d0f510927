package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/aptify/api/internal/model"
)

const defaultFanoutConcurrency = 8

// NotificationSender delivers one addressed notification
type NotificationSender interface {
	Send(ctx context.Context, n *model.Notification) error
}

// ProviderDirectory resolves the broadcast audience for open requests
type ProviderDirectory interface {
	GetApprovedByServiceType(ctx context.Context, serviceType string) ([]*model.Provider, error)
}

// DispatchResult records the outcome of one recipient's delivery attempt.
// A failed delivery is reported here, never raised to the caller.
type DispatchResult struct {
	RecipientID string `json:"recipient_id"`
	Delivered   bool   `json:"delivered"`
	Error       string `json:"error,omitempty"`
}

// FanoutCoordinator resolves the recipient set for a lifecycle event and
// dispatches one notification per recipient, collecting per-recipient
// outcomes. Dispatch runs scatter-gather with bounded concurrency.
type FanoutCoordinator struct {
	sender        NotificationSender
	providers     ProviderDirectory
	maxConcurrent int
}

// FanoutCoordinatorConfig holds configuration for the fan-out coordinator
type FanoutCoordinatorConfig struct {
	Sender        NotificationSender
	Providers     ProviderDirectory
	MaxConcurrent int
}

// NewFanoutCoordinator creates a new fan-out coordinator
func NewFanoutCoordinator(cfg FanoutCoordinatorConfig) *FanoutCoordinator {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultFanoutConcurrency
	}
	return &FanoutCoordinator{
		sender:        cfg.Sender,
		providers:     cfg.Providers,
		maxConcurrent: maxConcurrent,
	}
}

// FanOut resolves recipients for the event and dispatches to all of them.
// It never returns an error: the caller has already committed the primary
// write, so delivery failures are recorded per recipient and logged.
func (c *FanoutCoordinator) FanOut(ctx context.Context, event model.LifecycleEvent, req *model.Request) []DispatchResult {
	notifications := c.buildNotifications(ctx, event, req)
	return c.dispatch(ctx, notifications)
}

// buildNotifications resolves the recipient set:
//
//   - created with a provider already chosen: requester + that provider
//   - created open: requester + every approved provider in the category
//   - any later lifecycle event: requester only
func (c *FanoutCoordinator) buildNotifications(ctx context.Context, event model.LifecycleEvent, req *model.Request) []*model.Notification {
	cfg, ok := model.ConfigForKind(req.Kind)
	if !ok {
		return nil
	}
	deepLink := fmt.Sprintf("/requests/%s/%s", req.Kind, req.ID)

	var notifications []*model.Notification
	if tpl, ok := model.RequesterTemplates[event]; ok {
		notifications = append(notifications, &model.Notification{
			RecipientID: req.RequesterID,
			Title:       tpl.Title,
			Body:        fmt.Sprintf(tpl.Body, cfg.Label, req.HumanID),
			Category:    categoryForEvent(event),
			DeepLink:    deepLink,
		})
	}

	if event != model.EventCreated {
		return notifications
	}

	if !req.IsOpen() {
		// The assigned provider lands in the conversation when the channel
		// was provisioned before fan-out, otherwise in their work queue.
		providerLink := fmt.Sprintf("/requests/%s/queue", req.Kind)
		if req.ChannelID != nil {
			providerLink = fmt.Sprintf("/channels/%s", *req.ChannelID)
		}
		tpl := model.ProviderAssignedTemplate
		notifications = append(notifications, &model.Notification{
			RecipientID: *req.ProviderID,
			Title:       tpl.Title,
			Body:        fmt.Sprintf(tpl.Body, cfg.Label, req.HumanID),
			Category:    model.NotificationCategoryRequest,
			DeepLink:    providerLink,
		})
		return notifications
	}

	providers, err := c.providers.GetApprovedByServiceType(ctx, req.Category)
	if err != nil {
		// Broadcast audience is unknown; the requester copy still goes out.
		log.Printf("[Fanout] Failed to resolve providers for category %s: %v", req.Category, err)
		return notifications
	}
	tpl := model.ProviderBroadcastTemplate
	for _, provider := range providers {
		notifications = append(notifications, &model.Notification{
			RecipientID: provider.ID,
			Title:       tpl.Title,
			Body:        fmt.Sprintf(tpl.Body, cfg.Label, req.HumanID),
			Category:    model.NotificationCategoryRequest,
			DeepLink:    deepLink,
		})
	}
	return notifications
}

// dispatch delivers notifications concurrently and gathers outcomes in
// recipient order. One slow or failing recipient never blocks the rest.
func (c *FanoutCoordinator) dispatch(ctx context.Context, notifications []*model.Notification) []DispatchResult {
	results := make([]DispatchResult, len(notifications))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)
	for i, n := range notifications {
		g.Go(func() error {
			results[i] = DispatchResult{RecipientID: n.RecipientID}
			if err := c.sender.Send(gctx, n); err != nil {
				log.Printf("[Fanout] Failed to deliver to %s: %v", n.RecipientID, err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Delivered = true
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	return results
}

func categoryForEvent(event model.LifecycleEvent) string {
	if event == model.EventCreated {
		return model.NotificationCategoryRequest
	}
	return model.NotificationCategoryUpdate
}
