package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/store"
	"github.com/pkg/errors"
)

// EventRepo keeps events as one JSON array under store.KeyEvents
type EventRepo struct {
	store   store.Store
	records *records
}

// NewEventRepo creates a new EventRepo
func NewEventRepo(s store.Store, logger *slog.Logger) *EventRepo {
	return &EventRepo{store: s, records: newRecords(logger)}
}

// List returns every stored event in stored order (newest first by convention)
func (r *EventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	raw, ok, err := r.store.GetItem(ctx, store.KeyEvents)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load events")
	}
	return r.records.decodeEvents(raw, ok)
}

// ListByClient returns the events booked for one client
func (r *EventRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Event, 0)
	for _, e := range events {
		if e.ClientID == clientID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// GetByID retrieves an event by ID
func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "event %s", id)
}

// Create assigns a new ID and prepends the event to the stored list
func (r *EventRepo) Create(ctx context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	id, err := newID()
	if err != nil {
		return err
	}
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err = r.store.Update(ctx, store.KeyEvents, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadEvents(current, ok)
		if err != nil {
			return "", err
		}
		saved := *event
		saved.ID = id
		saved.CreatedAt = createdAt
		return append(slots[domain.Event]{{rec: &saved}}, stored...).encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to create event")
	}

	event.ID = id
	event.CreatedAt = createdAt
	return nil
}

// Update merges the event into the stored record with the same ID. The
// stored creation time always wins.
func (r *EventRepo) Update(ctx context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ID == "" {
		return errors.Wrap(ErrNotFound, "event has no id")
	}

	var createdAt time.Time
	err := r.store.Update(ctx, store.KeyEvents, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadEvents(current, ok)
		if err != nil {
			return "", err
		}
		found := false
		for i, sl := range stored {
			if sl.rec != nil && sl.rec.ID == event.ID {
				saved := *event
				saved.CreatedAt = sl.rec.CreatedAt
				createdAt = sl.rec.CreatedAt
				stored[i] = slot[domain.Event]{rec: &saved}
				found = true
				break
			}
		}
		if !found {
			return "", errors.Wrapf(ErrNotFound, "event %s", event.ID)
		}
		return stored.encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to update event")
	}

	event.CreatedAt = createdAt
	return nil
}

// Delete removes the event with the given ID
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Update(ctx, store.KeyEvents, func(current string, ok bool) (string, error) {
		stored, err := r.records.loadEvents(current, ok)
		if err != nil {
			return "", err
		}
		kept := make(slots[domain.Event], 0, len(stored))
		for _, sl := range stored {
			if sl.rec == nil || sl.rec.ID != id {
				kept = append(kept, sl)
			}
		}
		if len(kept) == len(stored) {
			return "", errors.Wrapf(ErrNotFound, "event %s", id)
		}
		return kept.encode()
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete event")
	}
	return nil
}
