// Package wizard drives event creation through four steps: pick or create a
// client, describe the event, choose menu items, and save.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/menu"
	"github.com/andy/caterbook/internal/repository"
)

type Step int

const (
	StepClient Step = iota
	StepEvent
	StepMenu
	StepSave
)

func (s Step) String() string {
	switch s {
	case StepClient:
		return "client"
	case StepEvent:
		return "event"
	case StepMenu:
		return "menu"
	case StepSave:
		return "save"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ClientMode selects how step 0 binds a client
type ClientMode string

const (
	ModeNew      ClientMode = "new"
	ModeExisting ClientMode = "existing"
)

var (
	// ErrBusy is returned by Next while a previous Next is still running
	ErrBusy = errors.New("wizard is busy")
	// ErrFinished is returned by Next once the event has been saved
	ErrFinished = errors.New("event already saved")
	// ErrUnknownClient is returned when selecting an ID not in the loaded list
	ErrUnknownClient = errors.New("client not found")
)

// Options configures a Wizard
type Options struct {
	Clients  repository.ClientRepository
	Events   repository.EventRepository
	Menu     *menu.Catalogue
	Logger   *slog.Logger
	OnSaved  func(*domain.Event)
	OnCancel func()
}

// Wizard is the event-creation state machine. It is driven from a single
// goroutine; only Next guards against re-entry.
type Wizard struct {
	step Step
	mode ClientMode

	// ClientForm is the embedded form used in ModeNew
	ClientForm *form.ClientForm
	// EventForm collects the event details in StepEvent
	EventForm *form.EventForm

	clients          []*domain.Client
	search           string
	selectedClientID string

	catalogue *menu.Catalogue
	menuQuery string
	selected  map[string]bool

	saved *domain.Event
	busy  atomic.Bool

	clientRepo repository.ClientRepository
	eventRepo  repository.EventRepository
	logger     *slog.Logger
	onSaved    func(*domain.Event)
	onCancel   func()
}

// New creates a wizard on step 0 in ModeNew and loads the saved clients
func New(ctx context.Context, opts Options) (*Wizard, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalogue := opts.Menu
	if catalogue == nil {
		catalogue = menu.Default()
	}

	w := &Wizard{
		step:       StepClient,
		mode:       ModeNew,
		ClientForm: form.NewClientForm(opts.Clients),
		EventForm:  form.NewEventForm(opts.Events),
		catalogue:  catalogue,
		selected:   make(map[string]bool),
		clientRepo: opts.Clients,
		eventRepo:  opts.Events,
		logger:     logger.With(slog.String("component", "wizard")),
		onSaved:    opts.OnSaved,
		onCancel:   opts.OnCancel,
	}
	if err := w.ReloadClients(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Step returns the current step
func (w *Wizard) Step() Step {
	return w.step
}

// Finished reports whether the event has been saved
func (w *Wizard) Finished() bool {
	return w.saved != nil
}

// Event returns the saved event, or nil before a successful save
func (w *Wizard) Event() *domain.Event {
	return w.saved
}

// Busy reports whether a Next call is in flight
func (w *Wizard) Busy() bool {
	return w.busy.Load()
}

// Mode returns the client mode of step 0
func (w *Wizard) Mode() ClientMode {
	return w.mode
}

// SetMode switches between creating and picking a client
func (w *Wizard) SetMode(mode ClientMode) {
	w.mode = mode
}

// ReloadClients refreshes the saved client list. Only clients with an ID are
// offered for selection.
func (w *Wizard) ReloadClients(ctx context.Context) error {
	clients, err := w.clientRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	w.clients = w.clients[:0]
	for _, c := range clients {
		if c.Saved() {
			w.clients = append(w.clients, c)
		}
	}
	return nil
}

// Search returns the current client search query
func (w *Wizard) Search() string {
	return w.search
}

// SetSearch sets the client search query
func (w *Wizard) SetSearch(query string) {
	w.search = query
}

// Clients returns the saved clients matching the search query
func (w *Wizard) Clients() []*domain.Client {
	matched := make([]*domain.Client, 0, len(w.clients))
	for _, c := range w.clients {
		if c.Matches(w.search, domain.ClientFilterAll) {
			matched = append(matched, c)
		}
	}
	return matched
}

// SelectClient binds the event to a loaded client
func (w *Wizard) SelectClient(id string) error {
	for _, c := range w.clients {
		if c.ID == id {
			w.selectedClientID = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownClient, id)
}

// SelectedClientID returns the bound client ID, or ""
func (w *Wizard) SelectedClientID() string {
	return w.selectedClientID
}

// SelectedClient returns the bound client, or nil
func (w *Wizard) SelectedClient() *domain.Client {
	for _, c := range w.clients {
		if c.ID == w.selectedClientID {
			return c
		}
	}
	return nil
}

// MenuQuery returns the live menu filter
func (w *Wizard) MenuQuery() string {
	return w.menuQuery
}

// SetMenuQuery sets the live menu filter
func (w *Wizard) SetMenuQuery(query string) {
	w.menuQuery = query
}

// MenuItems returns the catalogue item names matching the menu filter
func (w *Wizard) MenuItems() []string {
	return w.catalogue.Filter(w.menuQuery)
}

// ToggleMenuItem adds or removes an item from the selection
func (w *Wizard) ToggleMenuItem(name string) {
	if w.selected[name] {
		delete(w.selected, name)
		return
	}
	w.selected[name] = true
}

// IsSelected reports whether an item is in the selection
func (w *Wizard) IsSelected(name string) bool {
	return w.selected[name]
}

// SelectedMenu returns the selection in catalogue order
func (w *Wizard) SelectedMenu() []string {
	items := make([]string, 0, len(w.selected))
	for _, name := range w.catalogue.Flatten() {
		if w.selected[name] {
			items = append(items, name)
		}
	}
	return items
}

// Next validates the current step and advances. Entering StepSave saves the
// event immediately; calling Next on StepSave after a failure retries.
func (w *Wizard) Next(ctx context.Context) error {
	if !w.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer w.busy.Store(false)

	switch w.step {
	case StepClient:
		if err := w.bindClient(ctx); err != nil {
			return err
		}
		w.advance(StepEvent)
		return nil
	case StepEvent:
		if err := w.EventForm.Validate(); err != nil {
			return err
		}
		w.advance(StepMenu)
		return nil
	case StepMenu:
		if w.saved != nil {
			return ErrFinished
		}
		w.advance(StepSave)
		return w.save(ctx)
	case StepSave:
		if w.saved != nil {
			return ErrFinished
		}
		return w.save(ctx)
	}
	return nil
}

// Back returns to the previous step. On step 0 it cancels the wizard and
// leaves all state untouched.
func (w *Wizard) Back() {
	if w.step > StepClient {
		w.advance(w.step - 1)
		return
	}
	w.logger.Debug("wizard cancelled")
	if w.onCancel != nil {
		w.onCancel()
	}
}

func (w *Wizard) advance(to Step) {
	w.logger.Debug("wizard step", slog.String("from", w.step.String()), slog.String("to", to.String()))
	w.step = to
}

// bindClient ensures a client is selected, saving the embedded client form
// first when the user is creating a new client.
func (w *Wizard) bindClient(ctx context.Context) error {
	if w.mode == ModeNew && w.selectedClientID == "" {
		c, err := w.ClientForm.Save(ctx)
		if err != nil {
			return err
		}
		w.logger.Info("client saved from wizard", slog.String("client_id", c.ID))
		w.mode = ModeExisting
		w.selectedClientID = c.ID
		w.search = c.Name
		if err := w.ReloadClients(ctx); err != nil {
			w.logger.Warn("client list reload failed after save", slog.Any("error", err))
		}
		if w.SelectedClient() == nil {
			w.clients = append([]*domain.Client{c}, w.clients...)
		}
	}

	if w.selectedClientID == "" {
		if w.mode == ModeNew {
			return domain.ErrSaveClientFirst
		}
		return domain.ErrSelectClient
	}
	return nil
}

func (w *Wizard) save(ctx context.Context) error {
	details, err := w.EventForm.Details()
	if err != nil {
		return err
	}

	e := domain.NewEvent(w.selectedClientID, details, w.SelectedMenu())
	if err := w.eventRepo.Create(ctx, e); err != nil {
		w.logger.Error("failed to save event", slog.Any("error", err))
		return fmt.Errorf("%w: %w", form.ErrSaveFailed, err)
	}

	w.saved = e
	w.logger.Info("event saved",
		slog.String("event_id", e.ID),
		slog.String("client_id", e.ClientID),
		slog.Int("menu_items", len(e.MenuItems)),
	)
	if w.onSaved != nil {
		w.onSaved(e)
	}
	return nil
}
