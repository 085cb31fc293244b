package service

import (
	"context"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/repository"
)

// ClientStats is a client with its booking count
type ClientStats struct {
	Client     *domain.Client
	EventCount int
}

// ClientService manages clients across both record lists
type ClientService interface {
	// Delete removes a client; its events are kept and show as Unknown
	Delete(ctx context.Context, clientID string) error

	// Stats lists clients matching the filter with their event counts
	Stats(ctx context.Context, query string, filter domain.ClientFilter) ([]ClientStats, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	eventRepo  repository.EventRepository
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repository.ClientRepository,
	eventRepo repository.EventRepository,
) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		eventRepo:  eventRepo,
	}
}

func (s *clientService) Delete(ctx context.Context, clientID string) error {
	return s.clientRepo.Delete(ctx, clientID)
}

func (s *clientService) Stats(ctx context.Context, query string, filter domain.ClientFilter) ([]ClientStats, error) {
	clients, err := s.clientRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[e.ClientID]++
	}

	stats := make([]ClientStats, len(clients))
	for i, c := range clients {
		stats[i] = ClientStats{Client: c, EventCount: counts[c.ID]}
	}
	return stats, nil
}
