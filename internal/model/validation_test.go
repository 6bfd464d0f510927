package model

import (
	"strings"
	"testing"
)

// ============================================================================
// CreateRequestPayload Tests
// ============================================================================

func orderConfig(t *testing.T) KindConfig {
	t.Helper()
	cfg, ok := ConfigForKind(KindOrder)
	if !ok {
		t.Fatal("order kind not registered")
	}
	return cfg
}

func renovationConfig(t *testing.T) KindConfig {
	t.Helper()
	cfg, ok := ConfigForKind(KindRenovation)
	if !ok {
		t.Fatal("renovation kind not registered")
	}
	return cfg
}

func TestCreateRequestPayload_MissingFields_Valid(t *testing.T) {
	t.Parallel()

	payload := &CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "marketplace",
		Items: []LineItem{
			{ItemID: "item:1", ItemType: "marketplace", Price: 1000, Quantity: 2},
		},
	}

	missing := payload.MissingFields(orderConfig(t))
	if len(missing) > 0 {
		t.Errorf("expected no missing fields, got %v", missing)
	}
}

func TestCreateRequestPayload_MissingFields_ReportsAll(t *testing.T) {
	t.Parallel()

	payload := &CreateRequestPayload{}

	missing := payload.MissingFields(orderConfig(t))
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing fields, got %v", missing)
	}
	expected := []string{"requester_id", "category", "items"}
	for i, field := range expected {
		if missing[i] != field {
			t.Errorf("expected missing[%d] = %q, got %q", i, field, missing[i])
		}
	}
}

func TestCreateRequestPayload_MissingFields_ServiceKindRequiresDetails(t *testing.T) {
	t.Parallel()

	payload := &CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "renovation",
	}

	missing := payload.MissingFields(renovationConfig(t))
	if len(missing) != 1 || missing[0] != "details" {
		t.Errorf("expected [details], got %v", missing)
	}
}

func TestCreateRequestPayload_InvalidItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     []LineItem
		wantIndex int
		wantWords string
	}{
		{
			name: "all valid",
			items: []LineItem{
				{ItemID: "a", ItemType: "marketplace", Price: 10, Quantity: 1},
			},
			wantIndex: -1,
		},
		{
			name: "zero price",
			items: []LineItem{
				{ItemID: "a", ItemType: "marketplace", Price: 10, Quantity: 1},
				{ItemID: "b", ItemType: "marketplace", Price: 0, Quantity: 1},
			},
			wantIndex: 1,
			wantWords: "price",
		},
		{
			name: "negative quantity",
			items: []LineItem{
				{ItemID: "a", ItemType: "marketplace", Price: 10, Quantity: -2},
			},
			wantIndex: 0,
			wantWords: "quantity",
		},
		{
			name: "missing item id",
			items: []LineItem{
				{ItemType: "marketplace", Price: 10, Quantity: 1},
			},
			wantIndex: 0,
			wantWords: "item_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &CreateRequestPayload{Items: tt.items}
			idx, reason := payload.InvalidItem()
			if idx != tt.wantIndex {
				t.Errorf("expected index %d, got %d (%s)", tt.wantIndex, idx, reason)
			}
			if tt.wantIndex >= 0 && reason == "" {
				t.Error("expected a reason for the invalid item")
			}
			if tt.wantWords != "" && !strings.Contains(reason, tt.wantWords) {
				t.Errorf("expected reason mentioning %q, got %q", tt.wantWords, reason)
			}
		})
	}
}

func TestCreateRequestPayload_ItemsTotal(t *testing.T) {
	t.Parallel()

	payload := &CreateRequestPayload{
		Items: []LineItem{
			{ItemID: "a", ItemType: "marketplace", Price: 1000, Quantity: 2},
			{ItemID: "b", ItemType: "marketplace", Price: 250, Quantity: 4},
		},
	}

	if total := payload.ItemsTotal(); total != 3000 {
		t.Errorf("expected total 3000, got %v", total)
	}
}

// ============================================================================
// UpdateStatusPayload Tests
// ============================================================================

func TestUpdateStatusPayload_Validate_Valid(t *testing.T) {
	t.Parallel()

	provider := "user:provider"
	payload := &UpdateStatusPayload{Status: StatusAccepted, ProviderID: &provider}

	if errs := payload.Validate(); len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestUpdateStatusPayload_Validate_MissingStatus(t *testing.T) {
	t.Parallel()

	payload := &UpdateStatusPayload{}

	errs := payload.Validate()
	if len(errs) != 1 || errs[0].Field != "status" {
		t.Errorf("expected status error, got %v", errs)
	}
}

func TestUpdateStatusPayload_Validate_UnknownStatus(t *testing.T) {
	t.Parallel()

	payload := &UpdateStatusPayload{Status: "shipped"}

	errs := payload.Validate()
	if len(errs) != 1 || errs[0].Field != "status" {
		t.Errorf("expected status error, got %v", errs)
	}
}

func TestUpdateStatusPayload_Validate_AcceptRequiresProvider(t *testing.T) {
	t.Parallel()

	payload := &UpdateStatusPayload{Status: StatusAccepted}

	errs := payload.Validate()
	if len(errs) != 1 || errs[0].Field != "provider_id" {
		t.Errorf("expected provider_id error, got %v", errs)
	}
}
