package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/andy/caterbook/internal/dates"
)

type EventType string

const (
	EventTypeWedding    EventType = "wedding"
	EventTypeEngagement EventType = "engagement"
	EventTypeBirthday   EventType = "birthday"
	EventTypeCorporate  EventType = "corporate"
	EventTypeGrievance  EventType = "grievance"
	EventTypeOther      EventType = "other"
)

// EventTypes lists the selectable event types in display order
var EventTypes = []EventType{
	EventTypeWedding,
	EventTypeEngagement,
	EventTypeBirthday,
	EventTypeCorporate,
	EventTypeGrievance,
	EventTypeOther,
}

// Label returns a human-readable event type
func (t EventType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseEventType maps free text onto a known event type. Unknown or empty
// input yields EventTypeOther and false.
func ParseEventType(s string) (EventType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range EventTypes {
		if string(t) == s {
			return t, true
		}
	}
	return EventTypeOther, false
}

type Event struct {
	ID           string    `json:"id" validate:"required"`
	ClientID     string    `json:"clientId"`
	EventName    string    `json:"eventName" validate:"required"`
	Date         string    `json:"date,omitempty"`
	Guests       *int      `json:"guests,omitempty" validate:"omitempty,gte=0"`
	EventAddress string    `json:"eventAddress,omitempty"`
	EventType    EventType `json:"eventType"`
	MenuItems    []string  `json:"menuItems"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EventDetails holds the user-editable fields of an event
type EventDetails struct {
	EventName    string
	Date         string
	Guests       *int
	EventAddress string
	EventType    EventType
}

// NewEvent creates an event for a client from validated details
func NewEvent(clientID string, details EventDetails, menuItems []string) *Event {
	e := &Event{
		ClientID:  clientID,
		MenuItems: make([]string, 0, len(menuItems)),
		CreatedAt: time.Now().UTC(),
	}
	e.Apply(details)
	e.MenuItems = append(e.MenuItems, menuItems...)
	return e
}

// Apply copies the editable fields onto the event. ID, client, menu, and
// creation time are left untouched.
func (e *Event) Apply(details EventDetails) {
	e.EventName = strings.TrimSpace(details.EventName)
	e.Date = strings.TrimSpace(details.Date)
	e.Guests = details.Guests
	e.EventAddress = strings.TrimSpace(details.EventAddress)
	e.EventType = details.EventType
	if e.EventType == "" {
		e.EventType = EventTypeOther
	}
}

// Details returns the editable fields of the event
func (e *Event) Details() EventDetails {
	return EventDetails{
		EventName:    e.EventName,
		Date:         e.Date,
		Guests:       e.Guests,
		EventAddress: e.EventAddress,
		EventType:    e.EventType,
	}
}

// DisplayDate returns the event date for display, falling back to creation time
func (e *Event) DisplayDate() string {
	return dates.Display(e.Date, e.CreatedAt)
}

// HasMenuItem reports whether name is part of the event menu
func (e *Event) HasMenuItem(name string) bool {
	for _, item := range e.MenuItems {
		if item == name {
			return true
		}
	}
	return false
}

// Validate returns an error if the event is invalid
func (e *Event) Validate() error {
	if strings.TrimSpace(e.EventName) == "" {
		return ErrEventNameRequired
	}
	if e.Guests != nil && *e.Guests < 0 {
		return ErrGuestsNotNumeric
	}
	if e.Date != "" {
		if _, err := dates.Parse(e.Date); err != nil {
			return ErrDateInvalid
		}
	}
	return nil
}

// ParseGuests reads an optional guest count. Blank input means no count.
func ParseGuests(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, ErrGuestsNotNumeric
	}
	return &n, nil
}
