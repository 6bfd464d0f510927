package model

import "time"

// Provider is a registered service provider. Approved providers registered
// for a service category receive broadcast notifications when an open
// request of that category is created.
type Provider struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ServiceType string    `json:"service_type"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}
