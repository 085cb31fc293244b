package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/dates"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/repository"
)

// EventForm edits the descriptive fields of an event. Dates typed by the user
// are normalized on entry; input that cannot be normalized is kept as typed
// and reported by Validate.
type EventForm struct {
	EventName    string
	Date         string
	Guests       string
	EventAddress string
	EventType    domain.EventType

	bound *domain.Event
	repo  repository.EventRepository
}

var _ Saveable[domain.Event] = (*EventForm)(nil)

// NewEventForm creates an empty form used by the wizard
func NewEventForm(repo repository.EventRepository) *EventForm {
	return &EventForm{repo: repo, EventType: domain.EventTypeOther}
}

// EditEventForm creates a form bound to an existing event
func EditEventForm(repo repository.EventRepository, e *domain.Event) *EventForm {
	f := NewEventForm(repo)
	f.Bind(e)
	return f
}

// Bind loads a saved event into the form
func (f *EventForm) Bind(e *domain.Event) {
	bound := *e
	f.bound = &bound
	f.EventName = e.EventName
	f.Date = e.Date
	f.Guests = ""
	if e.Guests != nil {
		f.Guests = fmt.Sprint(*e.Guests)
	}
	f.EventAddress = e.EventAddress
	f.EventType = e.EventType
}

// ID returns the bound event ID, or "" for an unbound form
func (f *EventForm) ID() string {
	if f.bound == nil {
		return ""
	}
	return f.bound.ID
}

// SetDate normalizes the input when possible and reports whether it did
func (f *EventForm) SetDate(input string) bool {
	if canonical, ok := dates.Normalize(input); ok {
		f.Date = canonical
		return true
	}
	f.Date = input
	return false
}

// SetEventType selects a type from free text; unknown text selects other
func (f *EventForm) SetEventType(s string) {
	f.EventType, _ = domain.ParseEventType(s)
}

// Details validates the form and returns the trimmed event fields
func (f *EventForm) Details() (domain.EventDetails, error) {
	name := strings.TrimSpace(f.EventName)
	if name == "" {
		return domain.EventDetails{}, domain.ErrEventNameRequired
	}
	guests, err := domain.ParseGuests(f.Guests)
	if err != nil {
		return domain.EventDetails{}, err
	}
	date := strings.TrimSpace(f.Date)
	if date != "" {
		if _, err := dates.Parse(date); err != nil {
			return domain.EventDetails{}, domain.ErrDateInvalid
		}
	}
	eventType := f.EventType
	if eventType == "" {
		eventType = domain.EventTypeOther
	}
	return domain.EventDetails{
		EventName:    name,
		Date:         date,
		Guests:       guests,
		EventAddress: strings.TrimSpace(f.EventAddress),
		EventType:    eventType,
	}, nil
}

// Validate checks name, guests, and date in that order
func (f *EventForm) Validate() error {
	_, err := f.Details()
	return err
}

// Save updates the bound event. Events are created by the wizard, so an
// unbound form returns ErrNotBound.
func (f *EventForm) Save(ctx context.Context) (*domain.Event, error) {
	details, err := f.Details()
	if err != nil {
		return nil, err
	}
	if f.bound == nil {
		return nil, ErrNotBound
	}

	e := *f.bound
	e.Apply(details)
	if err := f.repo.Update(ctx, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	f.bound = &e
	return &e, nil
}
