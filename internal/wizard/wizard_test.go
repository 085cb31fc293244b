package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/menu"
	mockstore "github.com/andy/caterbook/internal/mocks/store"
	"github.com/andy/caterbook/internal/repository"
	"github.com/andy/caterbook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testMenu = menu.New([]domain.MenuCategory{
	{ID: "starters", Items: []domain.MenuItem{{Name: "Samosa"}, {Name: "Paneer Tikka"}}},
	{ID: "mains", Items: []domain.MenuItem{{Name: "Dal Makhani"}, {Name: "Samosa"}}},
	{ID: "desserts", Items: []domain.MenuItem{{Name: "Gulab Jamun"}}},
})

type fixture struct {
	store   *store.Memory
	clients *repository.ClientRepo
	events  *repository.EventRepo
}

func newFixture() fixture {
	s := store.NewMemory()
	return fixture{
		store:   s,
		clients: repository.NewClientRepo(s, nil),
		events:  repository.NewEventRepo(s, nil),
	}
}

func (f fixture) wizard(t *testing.T, opts Options) *Wizard {
	t.Helper()
	opts.Clients = f.clients
	opts.Events = f.events
	opts.Menu = testMenu
	w, err := New(context.Background(), opts)
	require.NoError(t, err)
	return w
}

func TestWizardEndToEndWithNewClient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	var saved *domain.Event
	w := fx.wizard(t, Options{OnSaved: func(e *domain.Event) { saved = e }})
	assert.Equal(t, StepClient, w.Step())
	assert.Equal(t, ModeNew, w.Mode())

	w.ClientForm.Name = "Asha Rao"
	w.ClientForm.Phone = "9876543210"
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, StepEvent, w.Step())
	assert.Equal(t, ModeExisting, w.Mode())
	assert.Equal(t, "Asha Rao", w.Search())
	require.NotNil(t, w.SelectedClient())
	assert.Equal(t, "Asha Rao", w.SelectedClient().Name)

	w.EventForm.EventName = "Diwali Party"
	w.EventForm.Guests = "50"
	w.EventForm.SetDate("1 Nov 2024")
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, StepMenu, w.Step())

	w.SetMenuQuery("tikka")
	assert.Equal(t, []string{"Paneer Tikka"}, w.MenuItems())
	w.SetMenuQuery("")
	w.ToggleMenuItem("Gulab Jamun")
	w.ToggleMenuItem("Samosa")
	w.ToggleMenuItem("Dal Makhani")
	w.ToggleMenuItem("Dal Makhani")
	assert.Equal(t, []string{"Samosa", "Gulab Jamun"}, w.SelectedMenu())

	require.NoError(t, w.Next(ctx))
	assert.Equal(t, StepSave, w.Step())
	assert.True(t, w.Finished())
	require.NotNil(t, saved)

	assert.Equal(t, "Diwali Party", saved.EventName)
	assert.Equal(t, "2024-11-01", saved.Date)
	require.NotNil(t, saved.Guests)
	assert.Equal(t, 50, *saved.Guests)
	assert.Len(t, saved.MenuItems, 2)
	assert.Equal(t, w.SelectedClientID(), saved.ClientID)

	createdAt := saved.CreatedAt.Format(time.RFC3339)
	_, err := time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, err)

	events, err := fx.events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, saved.ID, events[0].ID)

	assert.ErrorIs(t, w.Next(ctx), ErrFinished)

	w.Back()
	assert.Equal(t, StepMenu, w.Step())
	assert.ErrorIs(t, w.Next(ctx), ErrFinished)
	events, err = fx.events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestWizardClientStepBlocksOnInvalidClient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	w := fx.wizard(t, Options{})

	w.ClientForm.Name = "Asha"
	w.ClientForm.Phone = "abc"
	assert.ErrorIs(t, w.Next(ctx), domain.ErrPhoneInvalid)
	assert.Equal(t, StepClient, w.Step())
	assert.Equal(t, ModeNew, w.Mode())

	clients, err := fx.clients.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestWizardExistingModeRequiresSelection(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	c := &domain.Client{Name: "Ravi", Phone: "9123456780"}
	require.NoError(t, fx.clients.Create(ctx, c))

	w := fx.wizard(t, Options{})
	w.SetMode(ModeExisting)
	assert.ErrorIs(t, w.Next(ctx), domain.ErrSelectClient)
	assert.Equal(t, StepClient, w.Step())

	w.SetSearch("rav")
	require.Len(t, w.Clients(), 1)
	assert.ErrorIs(t, w.SelectClient("nope"), ErrUnknownClient)
	require.NoError(t, w.SelectClient(c.ID))
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, StepEvent, w.Step())
}

func TestWizardEventStepValidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	c := &domain.Client{Name: "Ravi", Phone: "9123456780"}
	require.NoError(t, fx.clients.Create(ctx, c))

	w := fx.wizard(t, Options{})
	w.SetMode(ModeExisting)
	require.NoError(t, w.SelectClient(c.ID))
	require.NoError(t, w.Next(ctx))

	assert.ErrorIs(t, w.Next(ctx), domain.ErrEventNameRequired)
	w.EventForm.EventName = "Launch"
	w.EventForm.Guests = "many"
	assert.ErrorIs(t, w.Next(ctx), domain.ErrGuestsNotNumeric)
	assert.Equal(t, StepEvent, w.Step())
}

func TestWizardBackAndCancel(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	c := &domain.Client{Name: "Ravi", Phone: "9123456780"}
	require.NoError(t, fx.clients.Create(ctx, c))

	cancelled := 0
	w := fx.wizard(t, Options{OnCancel: func() { cancelled++ }})
	w.SetMode(ModeExisting)
	require.NoError(t, w.SelectClient(c.ID))
	require.NoError(t, w.Next(ctx))

	w.Back()
	assert.Equal(t, StepClient, w.Step())
	assert.Zero(t, cancelled)

	w.Back()
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, StepClient, w.Step())
	assert.Equal(t, c.ID, w.SelectedClientID())
}

func TestWizardSaveFailureRetries(t *testing.T) {
	ctx := context.Background()
	s := mockstore.NewMockStore(t)
	s.On("GetItem", mock.Anything, store.KeyClients).
		Return(`[{"id":"c1","name":"Ravi","phone":"9123456780"}]`, true, nil)
	s.On("Update", mock.Anything, store.KeyEvents, mock.Anything).
		Return(errors.New("disk full")).Once()

	events := repository.NewEventRepo(s, nil)
	w, err := New(ctx, Options{
		Clients: repository.NewClientRepo(s, nil),
		Events:  events,
		Menu:    testMenu,
	})
	require.NoError(t, err)

	w.SetMode(ModeExisting)
	require.NoError(t, w.SelectClient("c1"))
	require.NoError(t, w.Next(ctx))
	w.EventForm.EventName = "Launch"
	require.NoError(t, w.Next(ctx))

	err = w.Next(ctx)
	assert.ErrorIs(t, err, form.ErrSaveFailed)
	assert.Equal(t, StepSave, w.Step())
	assert.False(t, w.Finished())

	s.On("Update", mock.Anything, store.KeyEvents, mock.Anything).Return(nil).Once()
	require.NoError(t, w.Next(ctx))
	assert.True(t, w.Finished())
}

// blockingEvents holds Create until released
type blockingEvents struct {
	repository.EventRepository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEvents) Create(ctx context.Context, e *domain.Event) error {
	close(b.entered)
	<-b.release
	e.ID = "e1"
	return nil
}

func TestWizardNextWhileBusy(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	c := &domain.Client{Name: "Ravi", Phone: "9123456780"}
	require.NoError(t, fx.clients.Create(ctx, c))

	blocking := &blockingEvents{
		EventRepository: fx.events,
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	w, err := New(ctx, Options{Clients: fx.clients, Events: blocking, Menu: testMenu})
	require.NoError(t, err)
	w.SetMode(ModeExisting)
	require.NoError(t, w.SelectClient(c.ID))
	require.NoError(t, w.Next(ctx))
	w.EventForm.EventName = "Launch"
	require.NoError(t, w.Next(ctx))

	done := make(chan error)
	go func() { done <- w.Next(ctx) }()

	<-blocking.entered
	assert.True(t, w.Busy())
	assert.ErrorIs(t, w.Next(ctx), ErrBusy)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.True(t, w.Finished())
}

// flakyClients fails every List once a client has been created
type flakyClients struct {
	repository.ClientRepository
	failList bool
}

func (f *flakyClients) List(ctx context.Context) ([]*domain.Client, error) {
	if f.failList {
		return nil, errors.New("read timeout")
	}
	return f.ClientRepository.List(ctx)
}

func (f *flakyClients) Create(ctx context.Context, c *domain.Client) error {
	if err := f.ClientRepository.Create(ctx, c); err != nil {
		return err
	}
	f.failList = true
	return nil
}

func TestWizardKeepsSavedClientWhenReloadFails(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	clients := &flakyClients{ClientRepository: fx.clients}

	w, err := New(ctx, Options{Clients: clients, Events: fx.events, Menu: testMenu})
	require.NoError(t, err)

	w.ClientForm.Name = "Asha Rao"
	w.ClientForm.Phone = "9876543210"
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, StepEvent, w.Step())
	assert.Equal(t, ModeExisting, w.Mode())
	assert.NotEmpty(t, w.SelectedClientID())
	require.NotNil(t, w.SelectedClient())
	assert.Equal(t, "Asha Rao", w.SelectedClient().Name)

	stored, err := fx.clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, stored[0].ID, w.SelectedClientID())
}

func TestWizardMenuItemsFollowCatalogueFilter(t *testing.T) {
	w := newFixture().wizard(t, Options{})

	assert.Equal(t, testMenu.Flatten(), w.MenuItems())
	w.SetMenuQuery("  SAMO ")
	assert.Equal(t, testMenu.Filter("samo"), w.MenuItems())
	assert.Equal(t, []string{"Samosa"}, w.MenuItems())
}
