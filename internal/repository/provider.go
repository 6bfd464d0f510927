package repository

import (
	"context"
	"errors"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

// ProviderRepository handles provider directory access
type ProviderRepository struct {
	db database.Database
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db database.Database) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// GetApprovedByServiceType retrieves every approved provider registered for
// a service category. Used to resolve the broadcast set for open requests
// at dispatch time.
func (r *ProviderRepository) GetApprovedByServiceType(ctx context.Context, serviceType string) ([]*model.Provider, error) {
	query := `
		SELECT * FROM provider
		WHERE approved = true AND service_type = $service_type
	`
	vars := map[string]interface{}{"service_type": serviceType}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseProvidersResult(result), nil
}

// GetByID retrieves a provider by record id. Returns (nil, nil) on a miss.
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*model.Provider, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseProviderResult(result)
}

func (r *ProviderRepository) parseProviderResult(result interface{}) (*model.Provider, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	provider := &model.Provider{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		ServiceType: getString(data, "service_type"),
		Approved:    getBool(data, "approved"),
	}
	if t := getTime(data, "created_at"); t != nil {
		provider.CreatedAt = *t
	}
	return provider, nil
}

func (r *ProviderRepository) parseProvidersResult(result []interface{}) []*model.Provider {
	providers := make([]*model.Provider, 0)
	for _, item := range extractQueryResults(result) {
		provider, err := r.parseProviderResult(item)
		if err != nil {
			continue
		}
		providers = append(providers, provider)
	}
	return providers
}
