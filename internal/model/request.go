package model

import (
	"fmt"
	"time"
)

// Status represents a request's lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// IsValidStatus reports whether s is a known lifecycle status
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// LineItem is a single priced entry on an order-like request
type LineItem struct {
	ItemID   string  `json:"item_id"`
	ItemType string  `json:"item_type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Invalid returns the reason a line item is invalid, or "" when it is valid
func (li LineItem) Invalid() string {
	if li.ItemID == "" {
		return "item_id is required"
	}
	if li.ItemType == "" {
		return "item_type is required"
	}
	if li.Price <= 0 {
		return "price must be greater than zero"
	}
	if li.Quantity <= 0 {
		return "quantity must be greater than zero"
	}
	return ""
}

// Request represents a service request document. All five kinds share this
// shape; kind-specific data lives in Items (order-like kinds) or Details,
// Budget, and Photos (service kinds).
type Request struct {
	ID                 string                 `json:"id"`
	HumanID            string                 `json:"human_id"`
	Kind               Kind                   `json:"kind"`
	RequesterID        string                 `json:"requester_id"`
	ProviderID         *string                `json:"provider_id,omitempty"`
	Category           string                 `json:"category"`
	Items              []LineItem             `json:"items,omitempty"`
	Total              float64                `json:"total,omitempty"`
	Details            map[string]interface{} `json:"details,omitempty"`
	Budget             *float64               `json:"budget,omitempty"`
	Photos             []string               `json:"photos,omitempty"`
	Status             Status                 `json:"status"`
	ChannelID          *string                `json:"channel_id,omitempty"`
	ProgressNote       *string                `json:"progress_note,omitempty"`
	LastProgressUpdate *time.Time             `json:"last_progress_update,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// IsOpen reports whether the request has no assigned provider yet
func (r *Request) IsOpen() bool {
	return r.ProviderID == nil || *r.ProviderID == ""
}

// CreateRequestPayload is the creation payload shared by all kinds
type CreateRequestPayload struct {
	RequesterID string                 `json:"requester_id,omitempty"` // overridden by the identity header
	ProviderID  *string                `json:"provider_id,omitempty"`
	Category    string                 `json:"category"`
	Items       []LineItem             `json:"items,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Budget      *float64               `json:"budget,omitempty"`
	Photos      []string               `json:"photos,omitempty"`
}

// MissingFields returns the names of every structurally required field that
// is absent from the payload, in declaration order. The caller reports all
// of them at once rather than failing on the first.
func (p *CreateRequestPayload) MissingFields(cfg KindConfig) []string {
	var missing []string
	if p.RequesterID == "" {
		missing = append(missing, "requester_id")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if cfg.OrderLike {
		if len(p.Items) == 0 {
			missing = append(missing, "items")
		}
	} else {
		if len(p.Details) == 0 {
			missing = append(missing, "details")
		}
	}
	return missing
}

// InvalidItem returns the index and reason of the first invalid line item,
// or (-1, "") when all items are valid.
func (p *CreateRequestPayload) InvalidItem() (int, string) {
	for i, item := range p.Items {
		if reason := item.Invalid(); reason != "" {
			return i, reason
		}
	}
	return -1, ""
}

// ItemsTotal computes the order total as the sum of price * quantity
func (p *CreateRequestPayload) ItemsTotal() float64 {
	var total float64
	for _, item := range p.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// UpdateStatusPayload is the body of a status transition call
type UpdateStatusPayload struct {
	Status       Status  `json:"status"`
	ProviderID   *string `json:"provider_id,omitempty"`
	ProgressNote *string `json:"progress_note,omitempty"`
}

// Validate checks the transition payload shape
func (p *UpdateStatusPayload) Validate() []FieldError {
	var errs []FieldError
	if p.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "status is required"})
	} else if !IsValidStatus(p.Status) {
		errs = append(errs, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q", p.Status),
		})
	}
	if p.Status == StatusAccepted && (p.ProviderID == nil || *p.ProviderID == "") {
		errs = append(errs, FieldError{Field: "provider_id", Message: "provider_id is required to accept"})
	}
	return errs
}
