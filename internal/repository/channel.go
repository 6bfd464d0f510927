package repository

import (
	"context"
	"errors"

	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/model"
)

// ChannelRepository handles communication channel data access. Party pairs
// are stored canonically ordered so lookups are independent of which side
// initiated provisioning.
type ChannelRepository struct {
	db database.Database
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db database.Database) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// FindByParties retrieves the channel for an unordered party pair.
// Returns (nil, nil) when no channel exists yet.
func (r *ChannelRepository) FindByParties(ctx context.Context, partyA, partyB string) (*model.Channel, error) {
	a, b := model.CanonicalPair(partyA, partyB)

	query := `
		SELECT * FROM channel
		WHERE party_a = $party_a AND party_b = $party_b
		LIMIT 1
	`
	vars := map[string]interface{}{
		"party_a": a,
		"party_b": b,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseChannelResult(result)
}

// Create persists a channel for an unordered party pair
func (r *ChannelRepository) Create(ctx context.Context, partyA, partyB string) (*model.Channel, error) {
	a, b := model.CanonicalPair(partyA, partyB)

	query := `
		CREATE channel CONTENT {
			party_a: $party_a,
			party_b: $party_b,
			created_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"party_a": a,
		"party_b": b,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	created := extractQueryResults(result)
	if len(created) == 0 {
		return nil, errors.New("no record returned from create")
	}
	return r.parseChannelResult(created[0])
}

func (r *ChannelRepository) parseChannelResult(result interface{}) (*model.Channel, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	channel := &model.Channel{
		ID:     convertSurrealID(data["id"]),
		PartyA: getString(data, "party_a"),
		PartyB: getString(data, "party_b"),
	}
	if t := getTime(data, "created_at"); t != nil {
		channel.CreatedAt = *t
	}
	return channel, nil
}
