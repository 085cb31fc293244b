package repository

import (
	"context"
	"log/slog"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/store"
	"github.com/pkg/errors"
)

// ClientRepo keeps clients as one JSON array under store.KeyClients
type ClientRepo struct {
	store   store.Store
	records *records
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(s store.Store, logger *slog.Logger) *ClientRepo {
	return &ClientRepo{store: s, records: newRecords(logger)}
}

// List returns every stored client, most recently created first
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	raw, ok, err := r.store.GetItem(ctx, store.KeyClients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load clients")
	}
	return r.records.decodeClients(raw, ok)
}

// GetByID retrieves a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "client %s", id)
}

// Search filters clients by a name/phone/email query and VIP status
func (r *ClientRepo) Search(ctx context.Context, query string, filter domain.ClientFilter) ([]*domain.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		if c.Matches(query, filter) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Create assigns a new ID and prepends the client to the stored list
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.Normalize()
	if err := client.Validate(); err != nil {
		return err
	}

	id, err := newID()
	if err != nil {
		return err
	}

	err = r.store.Update(ctx, store.KeyClients, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadClients(current, ok)
		if err != nil {
			return "", err
		}
		saved := *client
		saved.ID = id
		return append(slots[domain.Client]{{rec: &saved}}, stored...).encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}

	client.ID = id
	return nil
}

// Update merges the client into the stored record with the same ID
func (r *ClientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.Normalize()
	if err := client.Validate(); err != nil {
		return err
	}
	if client.ID == "" {
		return errors.Wrap(ErrNotFound, "client has no id")
	}

	err := r.store.Update(ctx, store.KeyClients, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadClients(current, ok)
		if err != nil {
			return "", err
		}
		found := false
		for i, sl := range stored {
			if sl.rec != nil && sl.rec.ID == client.ID {
				saved := *client
				stored[i] = slot[domain.Client]{rec: &saved}
				found = true
				break
			}
		}
		if !found {
			return "", errors.Wrapf(ErrNotFound, "client %s", client.ID)
		}
		return stored.encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to update client")
	}
	return nil
}

// Delete removes the client with the given ID. Events referencing the client
// are left in place.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Update(ctx, store.KeyClients, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadClients(current, ok)
		if err != nil {
			return "", err
		}
		kept := make(slots[domain.Client], 0, len(stored))
		for _, sl := range stored {
			if sl.rec == nil || sl.rec.ID != id {
				kept = append(kept, sl)
			}
		}
		if len(kept) == len(stored) {
			return "", errors.Wrapf(ErrNotFound, "client %s", id)
		}
		return kept.encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete client")
	}
	return nil
}
