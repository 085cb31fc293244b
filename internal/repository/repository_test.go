package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/andy/caterbook/internal/domain"
	mockstore "github.com/andy/caterbook/internal/mocks/store"
	"github.com/andy/caterbook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientRepoCreatePrepends(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewClientRepo(s, nil)

	first := &domain.Client{Name: "Asha", Phone: "9876543210"}
	require.NoError(t, repo.Create(ctx, first))
	second := &domain.Client{Name: "Ravi", Phone: "9123456780", Email: " Ravi@Example.com "}
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Ravi", clients[0].Name)
	assert.Equal(t, "ravi@example.com", clients[0].Email)
	assert.Equal(t, "Asha", clients[1].Name)
}

func TestClientRepoCreateInvalidDoesNotWrite(t *testing.T) {
	s := mockstore.NewMockStore(t)
	repo := NewClientRepo(s, nil)

	err := repo.Create(context.Background(), &domain.Client{Name: "Asha", Phone: "abc"})
	assert.ErrorIs(t, err, domain.ErrPhoneInvalid)
	s.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientRepoStorageFailure(t *testing.T) {
	s := mockstore.NewMockStore(t)
	s.On("Update", mock.Anything, store.KeyClients, mock.Anything).Return(errors.New("disk full"))
	repo := NewClientRepo(s, nil)

	c := &domain.Client{Name: "Asha", Phone: "9876543210"}
	err := repo.Create(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, c.ID)
}

func TestClientRepoUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepo(store.NewMemory(), nil)

	c := &domain.Client{Name: "Asha", Phone: "9876543210"}
	require.NoError(t, repo.Create(ctx, c))

	c.IsVIP = true
	c.Address = "  Pune "
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVIP)
	assert.Equal(t, "Pune", got.Address)

	err = repo.Update(ctx, &domain.Client{ID: "missing", Name: "X", Phone: "9876543210"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}

func TestClientRepoSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepo(store.NewMemory(), nil)
	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "Asha Rao", Phone: "9876543210", IsVIP: true}))
	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "Ravi", Phone: "9123456780", Email: "ravi@rao.in"}))

	all, err := repo.Search(ctx, "rao", domain.ClientFilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	vip, err := repo.Search(ctx, "rao", domain.ClientFilterVIP)
	require.NoError(t, err)
	require.Len(t, vip, 1)
	assert.Equal(t, "Asha Rao", vip[0].Name)

	regular, err := repo.Search(ctx, "", domain.ClientFilterRegular)
	require.NoError(t, err)
	require.Len(t, regular, 1)
	assert.Equal(t, "Ravi", regular[0].Name)
}

func TestEventRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepo(store.NewMemory(), nil)

	guests := 50
	e := domain.NewEvent("c1", domain.EventDetails{EventName: "Diwali Party", Date: "2024-11-01", Guests: &guests}, []string{"Samosa"})
	require.NoError(t, repo.Create(ctx, e))
	other := domain.NewEvent("c2", domain.EventDetails{EventName: "Launch", EventType: domain.EventTypeCorporate}, nil)
	require.NoError(t, repo.Create(ctx, other))

	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Launch", events[0].EventName)
	assert.Equal(t, []string{}, events[0].MenuItems)

	byClient, err := repo.ListByClient(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, 50, *byClient[0].Guests)

	created := e.CreatedAt
	e.EventName = "Diwali Dinner"
	e.CreatedAt = time.Now().Add(48 * time.Hour)
	require.NoError(t, repo.Update(ctx, e))
	assert.True(t, e.CreatedAt.Equal(created))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diwali Dinner", got.EventName)
	assert.True(t, got.CreatedAt.Equal(created))

	require.NoError(t, repo.Delete(ctx, other.ID))
	events, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventRepoRejectsInvalid(t *testing.T) {
	s := mockstore.NewMockStore(t)
	repo := NewEventRepo(s, nil)

	err := repo.Create(context.Background(), &domain.Event{EventName: "  "})
	assert.ErrorIs(t, err, domain.ErrEventNameRequired)
}

func TestEventRepoSchemaShim(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	raw := `[
		{"id":"e1","clientId":"c1","eventName":"Old","address":"Hall 2","eventType":"gala","createdAt":"2024-01-02T10:00:00Z"},
		{"id":"e2","clientId":"c1","eventName":"New","address":"ignored","eventAddress":"Lawn","eventType":"wedding","menuItems":["Naan"],"createdAt":"2024-01-03T10:00:00Z"},
		{"clientId":"c1","eventName":"No id"},
		{"id":"e4","clientId":"c1","eventName":""},
		"not an object"
	]`
	require.NoError(t, s.SetItem(ctx, store.KeyEvents, raw))

	events, err := NewEventRepo(s, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Hall 2", events[0].EventAddress)
	assert.Equal(t, domain.EventTypeOther, events[0].EventType)
	assert.Equal(t, []string{}, events[0].MenuItems)

	assert.Equal(t, "Lawn", events[1].EventAddress)
	assert.Equal(t, domain.EventTypeWedding, events[1].EventType)
}

func TestEventRepoWritesCanonicalLayout(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyEvents,
		`[{"id":"e1","clientId":"c1","eventName":"Old","address":"Hall 2","createdAt":"2024-01-02T10:00:00Z"}]`))

	repo := NewEventRepo(s, nil)
	e, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	e.EventName = "Renamed"
	require.NoError(t, repo.Update(ctx, e))

	raw, _, err := s.GetItem(ctx, store.KeyEvents)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Hall 2", decoded[0]["eventAddress"])
	assert.NotContains(t, decoded[0], "address")
	assert.Equal(t, "2024-01-02T10:00:00Z", decoded[0]["createdAt"])
}

func TestClientRepoMalformedStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyClients, `{"not":"an array"}`))

	_, err := NewClientRepo(s, nil).List(ctx)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestClientRepoMissingVIPReadsFalse(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyClients, `[{"id":"c1","name":"Asha","phone":"9876543210"}]`))

	clients, err := NewClientRepo(s, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.False(t, clients[0].IsVIP)

	data, err := slots[domain.Client]{{rec: clients[0]}}.encode()
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, false, decoded[0]["isVip"])
}

func TestEventRepoWritesKeepUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyEvents, `[
		{"id":"e1","clientId":"c1","eventName":"Old Wedding","guests":-3},
		{"id":"e2","clientId":"c1","eventName":"Kept","createdAt":"2024-01-03T10:00:00Z"},
		{"id":"e3","clientId":"c1","eventName":"Broken","menuItems":"Naan"}
	]`))
	repo := NewEventRepo(s, nil)

	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.Create(ctx, domain.NewEvent("c1", domain.EventDetails{EventName: "New"}, nil)))
	kept := events[0]
	kept.EventName = "Kept Renamed"
	require.NoError(t, repo.Update(ctx, kept))

	raw, _, err := s.GetItem(ctx, store.KeyEvents)
	require.NoError(t, err)
	assert.Contains(t, raw, "Old Wedding")
	assert.Contains(t, raw, `"menuItems":"Naan"`)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, "New", decoded[0]["eventName"])
	assert.Equal(t, "Old Wedding", decoded[1]["eventName"])
	assert.Equal(t, "Kept Renamed", decoded[2]["eventName"])

	require.NoError(t, repo.Delete(ctx, kept.ID))
	raw, _, err = s.GetItem(ctx, store.KeyEvents)
	require.NoError(t, err)
	assert.Contains(t, raw, "Old Wedding")
	assert.NotContains(t, raw, "Kept Renamed")

	// an unreadable record cannot be targeted by id
	assert.ErrorIs(t, repo.Delete(ctx, "e1"), ErrNotFound)
}

func TestClientRepoWritesKeepUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyClients,
		`[{"id":"c1","name":"","phone":"9876543210"},{"id":"c2","name":"Ravi","phone":12345}]`))
	repo := NewClientRepo(s, nil)

	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "Asha", Phone: "9876543210"}))

	raw, _, err := s.GetItem(ctx, store.KeyClients)
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"c1"`)
	assert.Contains(t, raw, `"phone":12345`)

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Asha", clients[0].Name)
}

func TestEventRepoReadsFractionalGuests(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SetItem(ctx, store.KeyEvents, `[
		{"id":"e1","clientId":"c1","eventName":"Old Wedding","guests":120.5},
		{"id":"e2","clientId":"c1","eventName":"Typed","guests":"80"},
		{"id":"e3","clientId":"c1","eventName":"Blank","guests":null}
	]`))

	events, err := NewEventRepo(s, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.NotNil(t, events[0].Guests)
	assert.Equal(t, 120, *events[0].Guests)
	require.NotNil(t, events[1].Guests)
	assert.Equal(t, 80, *events[1].Guests)
	assert.Nil(t, events[2].Guests)
}
