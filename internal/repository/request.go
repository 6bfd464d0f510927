package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

// RequestRepository handles request data access for one kind. The same
// implementation serves all five kinds; the kind's collection name and
// initial status come from its KindConfig.
type RequestRepository struct {
	db  database.Database
	cfg model.KindConfig
}

// NewRequestRepository creates a request repository for one kind
func NewRequestRepository(db database.Database, cfg model.KindConfig) *RequestRepository {
	return &RequestRepository{db: db, cfg: cfg}
}

// Kind returns the kind this repository serves
func (r *RequestRepository) Kind() model.Kind {
	return r.cfg.Kind
}

// Create persists a new request as a single whole-document write. The store
// assigns the record id and both timestamps; they are written back onto req.
func (r *RequestRepository) Create(ctx context.Context, req *model.Request) error {
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
			channel_id: $channel_id,
			progress_note: $progress_note,
			last_progress_update: $last_progress_update,
			created_at: time::now(),
			updated_at: time::now()
		}
	`, r.cfg.Collection)

	vars := map[string]interface{}{
		"human_id":             req.HumanID,
		"kind":                 string(req.Kind),
		"requester_id":         req.RequesterID,
		"provider_id":          req.ProviderID,
		"category":             req.Category,
		"items":                itemsToMaps(req.Items),
		"total":                req.Total,
		"details":              req.Details,
		"budget":               req.Budget,
		"photos":               req.Photos,
		"status":               string(req.Status),
		"channel_id":           req.ChannelID,
		"progress_note":        req.ProgressNote,
		"last_progress_update": req.LastProgressUpdate,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created := extractQueryResults(result)
	if len(created) == 0 {
		return errors.New("no record returned from create")
	}
	data, ok := created[0].(map[string]interface{})
	if !ok {
		return errors.New("unexpected create result format")
	}

	req.ID = convertSurrealID(data["id"])
	if t := getTime(data, "created_at"); t != nil {
		req.CreatedAt = *t
	}
	if t := getTime(data, "updated_at"); t != nil {
		req.UpdatedAt = *t
	}
	return nil
}

// GetByID retrieves a request by record id. Returns (nil, nil) when the
// record does not exist.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*model.Request, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseRequestResult(result)
}

// GetByUser retrieves the requests created by a requester, newest first
func (r *RequestRepository) GetByUser(ctx context.Context, requesterID string) ([]*model.Request, error) {
	query := fmt.Sprintf(`
		SELECT * FROM %s
		WHERE requester_id = $requester_id
		ORDER BY created_at DESC
	`, r.cfg.Collection)
	vars := map[string]interface{}{"requester_id": requesterID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseRequestsResult(result), nil
}

// GetByProvider retrieves a provider's work queue: the union of requests
// assigned to the provider and open requests still in the kind's initial
// status. The store cannot express this union as one ordered query, so the
// two result sets are merged, deduplicated, and re-sorted here.
func (r *RequestRepository) GetByProvider(ctx context.Context, providerID string) ([]*model.Request, error) {
	assignedQuery := fmt.Sprintf(`
		SELECT * FROM %s
		WHERE provider_id = $provider_id
		ORDER BY created_at DESC
	`, r.cfg.Collection)

	assignedResult, err := r.db.Query(ctx, assignedQuery, map[string]interface{}{
		"provider_id": providerID,
	})
	if err != nil {
		return nil, err
	}

	openQuery := fmt.Sprintf(`
		SELECT * FROM %s
		WHERE (provider_id = NONE OR provider_id = "") AND status = $status
		ORDER BY created_at DESC
	`, r.cfg.Collection)

	openResult, err := r.db.Query(ctx, openQuery, map[string]interface{}{
		"status": string(r.cfg.Initial),
	})
	if err != nil {
		return nil, err
	}

	merged := r.parseRequestsResult(assignedResult)
	seen := make(map[string]bool, len(merged))
	for _, req := range merged {
		seen[req.ID] = true
	}
	for _, req := range r.parseRequestsResult(openResult) {
		if !seen[req.ID] {
			merged = append(merged, req)
			seen[req.ID] = true
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged, nil
}

// GetAll retrieves every request of this kind, newest first
func (r *RequestRepository) GetAll(ctx context.Context) ([]*model.Request, error) {
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY created_at DESC`, r.cfg.Collection)

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return r.parseRequestsResult(result), nil
}

// StatusUpdate carries the fields of a status transition write. Nil fields
// are omitted from the UPDATE so the stored values are untouched.
type StatusUpdate struct {
	Status       model.Status
	ProviderID   *string
	ChannelID    *string
	ProgressNote *string
}

// UpdateStatus applies a status transition as a single whole-document
// update. updated_at always refreshes; last_progress_update refreshes only
// when a progress note accompanies the transition.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) error {
	var sets []string
	vars := map[string]interface{}{
		"id":     id,
		"status": string(upd.Status),
	}

	sets = append(sets, "status = $status", "updated_at = time::now()")
	if upd.ProviderID != nil {
		sets = append(sets, "provider_id = $provider_id")
		vars["provider_id"] = *upd.ProviderID
	}
	if upd.ChannelID != nil {
		sets = append(sets, "channel_id = $channel_id")
		vars["channel_id"] = *upd.ChannelID
	}
	if upd.ProgressNote != nil {
		sets = append(sets, "progress_note = $progress_note", "last_progress_update = time::now()")
		vars["progress_note"] = *upd.ProgressNote
	}

	query := fmt.Sprintf("UPDATE type::record($id) SET %s", strings.Join(sets, ", "))
	return r.db.Execute(ctx, query, vars)
}

// SetChannel records the provisioned channel on a request
func (r *RequestRepository) SetChannel(ctx context.Context, id, channelID string) error {
	query := `UPDATE type::record($id) SET channel_id = $channel_id, updated_at = time::now()`
	vars := map[string]interface{}{
		"id":         id,
		"channel_id": channelID,
	}
	return r.db.Execute(ctx, query, vars)
}

// Delete removes a request document. Administrative operation; the
// lifecycle engine itself never deletes.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}
	return r.db.Execute(ctx, query, vars)
}

// Helper functions

func (r *RequestRepository) parseRequestResult(result interface{}) (*model.Request, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	req := &model.Request{
		ID:           convertSurrealID(data["id"]),
		HumanID:      getString(data, "human_id"),
		Kind:         model.Kind(getString(data, "kind")),
		RequesterID:  getString(data, "requester_id"),
		ProviderID:   getStringPtr(data, "provider_id"),
		Category:     getString(data, "category"),
		Items:        parseLineItems(data["items"]),
		Total:        getFloat(data, "total"),
		Details:      getMap(data, "details"),
		Budget:       getFloatPtr(data, "budget"),
		Photos:       getStringSlice(data, "photos"),
		Status:       model.Status(getString(data, "status")),
		ChannelID:    getStringPtr(data, "channel_id"),
		ProgressNote: getStringPtr(data, "progress_note"),
	}

	if t := getTime(data, "last_progress_update"); t != nil {
		req.LastProgressUpdate = t
	}
	if t := getTime(data, "created_at"); t != nil {
		req.CreatedAt = *t
	}
	if t := getTime(data, "updated_at"); t != nil {
		req.UpdatedAt = *t
	}

	return req, nil
}

func (r *RequestRepository) parseRequestsResult(result []interface{}) []*model.Request {
	requests := make([]*model.Request, 0)
	for _, item := range extractQueryResults(result) {
		req, err := r.parseRequestResult(item)
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}
	return requests
}

func parseLineItems(v interface{}) []model.LineItem {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	items := make([]model.LineItem, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]interface{}); ok {
			items = append(items, model.LineItem{
				ItemID:   getString(m, "item_id"),
				ItemType: getString(m, "item_type"),
				Price:    getFloat(m, "price"),
				Quantity: getInt(m, "quantity"),
			})
		}
	}
	return items
}

func itemsToMaps(items []model.LineItem) []map[string]interface{} {
	if items == nil {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]interface{}{
			"item_id":   item.ItemID,
			"item_type": item.ItemType,
			"price":     item.Price,
			"quantity":  item.Quantity,
		})
	}
	return out
}
