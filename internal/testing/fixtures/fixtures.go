// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	provider := f.CreateProvider(t)
//	req := f.CreateRequest(t, model.KindRenovation, "user:alice")
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// Provider Fixtures
// ============================================================================

// ProviderOpts customizes provider creation
type ProviderOpts struct {
	Name        string
	ServiceType string
	Approved    bool
}

// WithServiceType sets the provider's registered service category
func WithServiceType(serviceType string) func(*ProviderOpts) {
	return func(o *ProviderOpts) {
		o.ServiceType = serviceType
	}
}

// CreateProvider creates an approved provider with optional customizations
func (f *Factory) CreateProvider(t *testing.T, opts ...func(*ProviderOpts)) *model.Provider {
	t.Helper()

	o := &ProviderOpts{
		Name:        fmt.Sprintf("Provider %s", randomID()),
		ServiceType: "renovation",
		Approved:    true,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE provider CONTENT {
			name: $name,
			service_type: $service_type,
			approved: $approved,
			created_at: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":         o.Name,
		"service_type": o.ServiceType,
		"approved":     o.Approved,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create provider: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Provider{
		ID:          getString(data, "id"),
		Name:        getString(data, "name"),
		ServiceType: getString(data, "service_type"),
		Approved:    getBool(data, "approved"),
		CreatedAt:   getTime(data, "created_at"),
	}
}

// CreateUnapprovedProvider creates a provider excluded from broadcast fan-out
func (f *Factory) CreateUnapprovedProvider(t *testing.T, serviceType string) *model.Provider {
	return f.CreateProvider(t, func(o *ProviderOpts) {
		o.ServiceType = serviceType
		o.Approved = false
	})
}

// ============================================================================
// Request Fixtures
// ============================================================================

// RequestOpts customizes request creation
type RequestOpts struct {
	ProviderID *string
	Category   string
	Status     model.Status
	Items      []model.LineItem
	Details    map[string]interface{}
	Budget     *float64
	Photos     []string
}

// WithProvider pre-assigns a provider to the request
func WithProvider(providerID string) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.ProviderID = &providerID
	}
}

// WithStatus sets the request's stored status directly
func WithStatus(status model.Status) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.Status = status
	}
}

// WithCategory sets the request's service category
func WithCategory(category string) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.Category = category
	}
}

// CreateRequest creates a request of the given kind in its kind collection.
// Order-like kinds get a default two-item cart; service kinds get details
// and a budget.
func (f *Factory) CreateRequest(t *testing.T, kind model.Kind, requesterID string, opts ...func(*RequestOpts)) *model.Request {
	t.Helper()

	cfg, ok := model.ConfigForKind(kind)
	if !ok {
		t.Fatalf("fixtures: unknown kind %q", kind)
	}

	o := &RequestOpts{
		Category: string(kind),
		Status:   cfg.Initial,
	}
	if cfg.OrderLike {
		o.Items = []model.LineItem{
			{ItemID: "item:" + randomID(), ItemType: "product", Price: 100, Quantity: 1},
			{ItemID: "item:" + randomID(), ItemType: "product", Price: 25, Quantity: 2},
		}
	} else {
		budget := 5000.0
		o.Details = map[string]interface{}{"description": "Test job " + randomID()}
		o.Budget = &budget
	}
	for _, fn := range opts {
		fn(o)
	}

	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}

	query := fmt.Sprintf(`
		CREATE %s CONTENT {
			human_id: $human_id,
			kind: $kind,
			requester_id: $requester_id,
			provider_id: $provider_id,
			category: $category,
			items: $items,
			total: $total,
			details: $details,
			budget: $budget,
			photos: $photos,
			status: $status,
			created_at: time::now(),
			updated_at: time::now()
		}
	`, cfg.Collection)

	items := make([]map[string]interface{}, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]interface{}{
			"item_id":   item.ItemID,
			"item_type": item.ItemType,
			"price":     item.Price,
			"quantity":  item.Quantity,
		})
	}

	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"human_id":     model.NewHumanID(cfg.Prefix),
		"kind":         string(kind),
		"requester_id": requesterID,
		"provider_id":  o.ProviderID,
		"category":     o.Category,
		"items":        items,
		"total":        total,
		"details":      o.Details,
		"budget":       o.Budget,
		"photos":       o.Photos,
		"status":       string(o.Status),
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create %s request: %v", kind, err)
	}

	data := extractFirstResult(t, results)
	return &model.Request{
		ID:          getString(data, "id"),
		HumanID:     getString(data, "human_id"),
		Kind:        kind,
		RequesterID: requesterID,
		ProviderID:  o.ProviderID,
		Category:    o.Category,
		Items:       o.Items,
		Total:       total,
		Details:     o.Details,
		Budget:      o.Budget,
		Photos:      o.Photos,
		Status:      o.Status,
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}

// ============================================================================
// Channel Fixtures
// ============================================================================

// CreateChannel creates a channel between two parties in canonical order
func (f *Factory) CreateChannel(t *testing.T, partyA, partyB string) *model.Channel {
	t.Helper()

	a, b := model.CanonicalPair(partyA, partyB)
	query := `
		CREATE channel CONTENT {
			party_a: $party_a,
			party_b: $party_b,
			created_at: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"party_a": a,
		"party_b": b,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create channel: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Channel{
		ID:        getString(data, "id"),
		PartyA:    a,
		PartyB:    b,
		CreatedAt: getTime(data, "created_at"),
	}
}

// ============================================================================
// Notification Fixtures
// ============================================================================

// NotificationOpts customizes notification creation
type NotificationOpts struct {
	Title    string
	Body     string
	Category string
	DeepLink string
	Read     bool
}

// CreateNotification creates a notification for a recipient
func (f *Factory) CreateNotification(t *testing.T, recipientID string, opts ...func(*NotificationOpts)) *model.Notification {
	t.Helper()

	o := &NotificationOpts{
		Title:    "New Service Request",
		Body:     fmt.Sprintf("Notification %s", randomID()),
		Category: model.NotificationCategoryRequest,
		DeepLink: "/requests/renovation/renovation_request:test",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE notification CONTENT {
			recipient_id: $recipient_id,
			title: $title,
			body: $body,
			category: $category,
			deep_link: $deep_link,
			read: $read,
			created_at: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"recipient_id": recipientID,
		"title":        o.Title,
		"body":         o.Body,
		"category":     o.Category,
		"deep_link":    o.DeepLink,
		"read":         o.Read,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create notification: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Notification{
		ID:          getString(data, "id"),
		RecipientID: recipientID,
		Title:       o.Title,
		Body:        o.Body,
		Category:    o.Category,
		DeepLink:    o.DeepLink,
		Read:        o.Read,
		CreatedAt:   getTime(data, "created_at"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB record ID type - could be a struct or map
	if v := data[key]; v != nil {
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getTime(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case time.Time:
		return v
	}
	return time.Time{}
}
