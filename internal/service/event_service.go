package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/export"
	"github.com/andy/caterbook/internal/repository"
)

// EventWithClient pairs an event with its client. Client is nil when the
// client has been deleted.
type EventWithClient struct {
	Event  *domain.Event
	Client *domain.Client
}

// ClientName returns the client name, or "Unknown" for orphaned events
func (e EventWithClient) ClientName() string {
	if e.Client == nil {
		return "Unknown"
	}
	return e.Client.Name
}

// EventService joins events with their clients and exports them
type EventService interface {
	// ListWithClients lists events, optionally only those of one client
	ListWithClients(ctx context.Context, clientID string) ([]EventWithClient, error)

	// Get retrieves one event with its client
	Get(ctx context.Context, eventID string) (*EventWithClient, error)

	// Delete removes an event
	Delete(ctx context.Context, eventID string) error

	// Export writes the event summary and returns the file path
	Export(ctx context.Context, eventID string, format export.Format) (string, error)
}

type eventService struct {
	eventRepo  repository.EventRepository
	clientRepo repository.ClientRepository
	exportDir  string
	business   export.Business
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repository.EventRepository,
	clientRepo repository.ClientRepository,
	exportDir string,
	business export.Business,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		clientRepo: clientRepo,
		exportDir:  exportDir,
		business:   business,
	}
}

func (s *eventService) clientIndex(ctx context.Context) (map[string]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return byID, nil
}

func (s *eventService) ListWithClients(ctx context.Context, clientID string) ([]EventWithClient, error) {
	var (
		events []*domain.Event
		err    error
	)
	if clientID != "" {
		events, err = s.eventRepo.ListByClient(ctx, clientID)
	} else {
		events, err = s.eventRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	clients, err := s.clientIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]EventWithClient, len(events))
	for i, e := range events {
		result[i] = EventWithClient{Event: e, Client: clients[e.ClientID]}
	}
	return result, nil
}

func (s *eventService) Get(ctx context.Context, eventID string) (*EventWithClient, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, event.ClientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return &EventWithClient{Event: event, Client: client}, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string) error {
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) Export(ctx context.Context, eventID string, format export.Format) (string, error) {
	ec, err := s.Get(ctx, eventID)
	if err != nil {
		return "", err
	}

	path, err := export.Write(s.exportDir, format, export.Summary{
		Event:    ec.Event,
		Client:   ec.Client,
		Business: s.business,
	})
	if err != nil {
		return "", fmt.Errorf("failed to export event: %w", err)
	}
	return path, nil
}
