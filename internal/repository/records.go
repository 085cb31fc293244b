package repository

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"

	"github.com/andy/caterbook/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// records decodes and encodes the JSON arrays kept under the store keys.
// Each element is decoded and validated on its own so one bad record cannot
// hide the rest of the list.
type records struct {
	validate *validator.Validate
	logger   *slog.Logger
}

func newRecords(logger *slog.Logger) *records {
	if logger == nil {
		logger = slog.Default()
	}
	return &records{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// slot is one element of a stored array. Elements that could not be decoded
// or validated keep only their raw bytes and are written back unchanged.
type slot[T any] struct {
	rec *T
	raw json.RawMessage
}

type slots[T any] []slot[T]

// valid returns the decoded records in stored order
func (s slots[T]) valid() []*T {
	out := make([]*T, 0, len(s))
	for _, sl := range s {
		if sl.rec != nil {
			out = append(out, sl.rec)
		}
	}
	return out
}

func (s slots[T]) encode() (string, error) {
	elems := make([]json.RawMessage, 0, len(s))
	for _, sl := range s {
		if sl.rec == nil {
			elems = append(elems, sl.raw)
			continue
		}
		data, err := json.Marshal(sl.rec)
		if err != nil {
			return "", errors.Wrap(err, "encode record")
		}
		elems = append(elems, data)
	}
	data, err := json.Marshal(elems)
	if err != nil {
		return "", errors.Wrap(err, "encode records")
	}
	return string(data), nil
}

// looseGuests reads a guest count written as an integer, a fractional number
// or a numeric string. Fractions are truncated.
type looseGuests struct {
	n *int
}

func (g *looseGuests) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Errorf("guests %s is not a number", data)
	}
	n := int(math.Trunc(f))
	g.n = &n
	return nil
}

// storedEvent accepts older event layouts: the venue under "address" instead
// of "eventAddress", and guests stored as fractions or strings.
type storedEvent struct {
	domain.Event
	LegacyAddress string      `json:"address,omitempty"`
	Guests        looseGuests `json:"guests"`
}

func (r *records) split(key, raw string, ok bool) ([]json.RawMessage, error) {
	if !ok || raw == "" {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %v", key, err)
	}
	return elems, nil
}

func (r *records) loadClients(raw string, ok bool) (slots[domain.Client], error) {
	elems, err := r.split("clients", raw, ok)
	if err != nil {
		return nil, err
	}

	out := make(slots[domain.Client], 0, len(elems))
	for i, elem := range elems {
		c := &domain.Client{}
		if err := json.Unmarshal(elem, c); err != nil {
			r.skip("clients", i, err)
			out = append(out, slot[domain.Client]{raw: elem})
			continue
		}
		if err := r.validate.Struct(c); err != nil {
			r.skip("clients", i, err)
			out = append(out, slot[domain.Client]{raw: elem})
			continue
		}
		out = append(out, slot[domain.Client]{rec: c})
	}
	return out, nil
}

func (r *records) loadEvents(raw string, ok bool) (slots[domain.Event], error) {
	elems, err := r.split("events", raw, ok)
	if err != nil {
		return nil, err
	}

	out := make(slots[domain.Event], 0, len(elems))
	for i, elem := range elems {
		se := &storedEvent{}
		if err := json.Unmarshal(elem, se); err != nil {
			r.skip("events", i, err)
			out = append(out, slot[domain.Event]{raw: elem})
			continue
		}
		e := se.Event
		e.Guests = se.Guests.n
		if e.EventAddress == "" && se.LegacyAddress != "" {
			e.EventAddress = se.LegacyAddress
		}
		if t, known := domain.ParseEventType(string(e.EventType)); known {
			e.EventType = t
		} else {
			e.EventType = domain.EventTypeOther
		}
		if e.MenuItems == nil {
			e.MenuItems = []string{}
		}
		if err := r.validate.Struct(&e); err != nil {
			r.skip("events", i, err)
			out = append(out, slot[domain.Event]{raw: elem})
			continue
		}
		out = append(out, slot[domain.Event]{rec: &e})
	}
	return out, nil
}

func (r *records) decodeClients(raw string, ok bool) ([]*domain.Client, error) {
	s, err := r.loadClients(raw, ok)
	if err != nil {
		return nil, err
	}
	return s.valid(), nil
}

func (r *records) decodeEvents(raw string, ok bool) ([]*domain.Event, error) {
	s, err := r.loadEvents(raw, ok)
	if err != nil {
		return nil, err
	}
	return s.valid(), nil
}

func (r *records) skip(key string, index int, err error) {
	r.logger.Warn("skipping unreadable stored record",
		slog.String("key", key),
		slog.Int("index", index),
		slog.Any("error", err),
	)
}
