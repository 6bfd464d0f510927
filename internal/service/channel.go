package service

import (
	"context"
	"fmt"

	"github.com/aptify/api/internal/model"
)

// ChannelRepository defines the interface for channel storage
type ChannelRepository interface {
	FindByParties(ctx context.Context, partyA, partyB string) (*model.Channel, error)
	Create(ctx context.Context, partyA, partyB string) (*model.Channel, error)
}

// ChannelService provisions communication channels between a requester and
// a provider. Provisioning is idempotent per unordered party pair.
type ChannelService struct {
	channelRepo ChannelRepository
}

// ChannelServiceConfig holds configuration for the channel service
type ChannelServiceConfig struct {
	ChannelRepo ChannelRepository
}

// NewChannelService creates a new channel service
func NewChannelService(cfg ChannelServiceConfig) *ChannelService {
	return &ChannelService{
		channelRepo: cfg.ChannelRepo,
	}
}

// GetOrCreate returns the existing channel for the pair, creating one when
// none exists yet. Which party comes first does not matter.
func (s *ChannelService) GetOrCreate(ctx context.Context, partyA, partyB string) (*model.Channel, error) {
	channel, err := s.channelRepo.FindByParties(ctx, partyA, partyB)
	if err != nil {
		return nil, fmt.Errorf("looking up channel: %w", err)
	}
	if channel != nil {
		return channel, nil
	}

	channel, err = s.channelRepo.Create(ctx, partyA, partyB)
	if err != nil {
		return nil, fmt.Errorf("creating channel: %w", err)
	}
	return channel, nil
}
