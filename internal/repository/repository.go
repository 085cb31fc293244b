package repository

import (
	"context"

	"github.com/andy/caterbook/internal/domain"
)

// ClientRepository manages client persistence
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Search(ctx context.Context, query string, filter domain.ClientFilter) ([]*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error // Assigns ID, prepends
	Update(ctx context.Context, client *domain.Client) error // Merges by ID
	Delete(ctx context.Context, id string) error
}

// EventRepository manages event persistence
type EventRepository interface {
	List(ctx context.Context) ([]*domain.Event, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error // Assigns ID, prepends
	Update(ctx context.Context, event *domain.Event) error // Merges by ID, keeps createdAt
	Delete(ctx context.Context, id string) error
}
