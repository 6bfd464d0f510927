package model

import "time"

// LifecycleEvent names a request lifecycle change that triggers fan-out
type LifecycleEvent string

const (
	EventCreated    LifecycleEvent = "created"
	EventAccepted   LifecycleEvent = "accepted"
	EventRejected   LifecycleEvent = "rejected"
	EventCompleted  LifecycleEvent = "completed"
	EventInProgress LifecycleEvent = "in_progress"
)

// EventForStatus maps a destination status to its lifecycle event
func EventForStatus(s Status) (LifecycleEvent, bool) {
	switch s {
	case StatusAccepted:
		return EventAccepted, true
	case StatusRejected:
		return EventRejected, true
	case StatusCompleted:
		return EventCompleted, true
	case StatusInProgress:
		return EventInProgress, true
	default:
		return "", false
	}
}

// Notification categories used for client-side grouping
const (
	NotificationCategoryRequest = "request"
	NotificationCategoryUpdate  = "request_update"
)

// Notification is an addressed message persisted for a recipient
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	DeepLink    string    `json:"deep_link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationTemplate holds display copy for one lifecycle event. Title is
// used verbatim; Body takes the kind label and the request's human id.
type NotificationTemplate struct {
	Title string
	Body  string
}

// Requester-facing templates keyed by lifecycle event
var RequesterTemplates = map[LifecycleEvent]NotificationTemplate{
	EventCreated:    {Title: "Request received", Body: "Your %s %s has been created."},
	EventAccepted:   {Title: "Request accepted", Body: "Your %s %s was accepted by a provider."},
	EventRejected:   {Title: "Request declined", Body: "Your %s %s was declined."},
	EventCompleted:  {Title: "Request completed", Body: "Your %s %s has been completed."},
	EventInProgress: {Title: "Progress update", Body: "There is a new update on your %s %s."},
}

// Provider-facing templates for creation fan-out
var (
	ProviderAssignedTemplate  = NotificationTemplate{Title: "New request assigned", Body: "You have been selected for %s %s."}
	ProviderBroadcastTemplate = NotificationTemplate{Title: "New request available", Body: "A new %s %s is waiting for a provider."}
)
