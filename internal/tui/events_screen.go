package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/dates"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/export"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type eventMode int

const (
	eventModeList eventMode = iota
	eventModeDetail
	eventModeEdit
	eventModeConfirmDelete
)

// event form field indices
const (
	eventFieldName = iota
	eventFieldDate
	eventFieldGuests
	eventFieldAddress
	eventFieldType
)

// EventsModel lists events with their clients and offers detail, edit,
// export, and delete
type EventsModel struct {
	app       *app.App
	events    []service.EventWithClient
	cursor    int
	clientID  string // optional filter
	clientTag string
	loading   bool
	err       error
	statusMsg string

	mode   eventMode
	form   *form.EventForm
	fields *fieldSet
}

type eventsDataMsg struct {
	clientID string
	events   []service.EventWithClient
	err      error
}

type eventSavedMsg struct {
	name string
	err  error
}

type eventDeletedMsg struct {
	name string
	err  error
}

type eventExportedMsg struct {
	path string
	err  error
}

// NewEventsModel creates a new events screen model
func NewEventsModel(a *app.App) tea.Model {
	return &EventsModel{app: a, loading: true}
}

// IsCapturingInput returns true when the edit form or delete confirmation is active
func (m *EventsModel) IsCapturingInput() bool {
	return m.mode == eventModeEdit || m.mode == eventModeConfirmDelete
}

func (m *EventsModel) Init() tea.Cmd {
	return m.loadEvents()
}

func (m *EventsModel) loadEvents() tea.Cmd {
	clientID := m.clientID
	return func() tea.Msg {
		events, err := m.app.EventService.ListWithClients(context.Background(), clientID)
		return eventsDataMsg{clientID: clientID, events: events, err: err}
	}
}

func (m *EventsModel) selected() *service.EventWithClient {
	if len(m.events) == 0 || m.cursor >= len(m.events) {
		return nil
	}
	return &m.events[m.cursor]
}

// eventTypeChoices returns the event type values and their labels
func eventTypeChoices() ([]string, []string) {
	values := make([]string, len(domain.EventTypes))
	labels := make([]string, len(domain.EventTypes))
	for i, t := range domain.EventTypes {
		values[i] = string(t)
		labels[i] = t.Label()
	}
	return values, labels
}

// normalizeDate rewrites recognizable dates as YYYY-MM-DD and leaves
// anything else for validation to reject
func normalizeDate(s string) string {
	if canonical, ok := dates.Normalize(s); ok {
		return canonical
	}
	return strings.TrimSpace(s)
}

// newEventFields builds the event detail form used by edit and the wizard
func newEventFields(a *app.App, f *form.EventForm) *fieldSet {
	fs := &fieldSet{}
	name := fs.text("Event name:", "e.g. Sharma Wedding Reception", 100, 40)
	name.voice = newVoiceField(a, "e.g. Sharma Wedding Reception")
	date := fs.text("Date:", "2024-11-01, 01/11/2024, or 1st Nov", 40, 30)
	date.normalize = normalizeDate
	date.voice = newVoiceField(a, "2024-11-01, 01/11/2024, or 1st Nov")
	fs.text("Guests:", "Number of guests", 6, 10)
	address := fs.text("Venue address:", "Optional venue", 200, 50)
	address.voice = newVoiceField(a, "Optional venue")
	values, labels := eventTypeChoices()
	fs.choose("Event type:", values, labels)

	fs.fields[eventFieldName].SetValue(f.EventName)
	fs.fields[eventFieldDate].SetValue(f.Date)
	fs.fields[eventFieldGuests].SetValue(f.Guests)
	fs.fields[eventFieldAddress].SetValue(f.EventAddress)
	fs.fields[eventFieldType].SetValue(string(f.EventType))
	return fs
}

// applyEventFields copies the form rows into the event form
func applyEventFields(fs *fieldSet, f *form.EventForm) {
	f.EventName = fs.fields[eventFieldName].Value()
	f.SetDate(fs.fields[eventFieldDate].Value())
	f.Guests = fs.fields[eventFieldGuests].Value()
	f.EventAddress = fs.fields[eventFieldAddress].Value()
	f.SetEventType(fs.fields[eventFieldType].Value())
}

func (m *EventsModel) openEdit(e *domain.Event) tea.Cmd {
	m.form = form.EditEventForm(m.app.EventRepo, e)
	m.fields = newEventFields(m.app, m.form)
	m.mode = eventModeEdit
	m.err = nil
	return m.fields.Focus()
}

func (m *EventsModel) closeEdit() {
	if m.fields != nil {
		m.fields.Close()
	}
	m.fields = nil
	m.form = nil
	m.mode = eventModeDetail
}

func (m *EventsModel) saveEvent() tea.Cmd {
	f := m.form
	applyEventFields(m.fields, f)
	return func() tea.Msg {
		e, err := f.Save(context.Background())
		if err != nil {
			return eventSavedMsg{err: err}
		}
		return eventSavedMsg{name: e.EventName}
	}
}

func (m *EventsModel) deleteEvent(e *domain.Event) tea.Cmd {
	return func() tea.Msg {
		err := m.app.EventService.Delete(context.Background(), e.ID)
		return eventDeletedMsg{name: e.EventName, err: err}
	}
}

func (m *EventsModel) exportEvent(e *domain.Event, format export.Format) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.EventService.Export(context.Background(), e.ID, format)
		return eventExportedMsg{path: path, err: err}
	}
}

func (m *EventsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowClientEventsMsg:
		m.clientID = msg.ClientID
		m.clientTag = msg.Name
		m.mode = eventModeList
		m.cursor = 0
		m.loading = true
		return m, m.loadEvents()

	case RefreshDataMsg:
		if m.mode == eventModeEdit {
			return m, nil
		}
		m.loading = true
		return m, m.loadEvents()

	case eventsDataMsg:
		if msg.clientID != m.clientID {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.events = msg.events
			m.cursor = clampCursor(m.cursor, len(m.events))
			if m.mode == eventModeDetail && m.selected() == nil {
				m.mode = eventModeList
			}
		}
		return m, nil

	case eventExportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Exported to " + msg.path
		return m, nil
	}

	switch m.mode {
	case eventModeEdit:
		return m.updateEdit(msg)
	case eventModeConfirmDelete:
		return m.updateConfirmDelete(msg)
	case eventModeDetail:
		return m.updateDetail(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.loading {
			return m, nil
		}
		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.events)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if m.selected() != nil {
				m.mode = eventModeDetail
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenWizard} }
		case key.Matches(msg, DefaultKeyMap.Back):
			if m.clientID != "" {
				m.clientID = ""
				m.clientTag = ""
				m.loading = true
				return m, m.loadEvents()
			}
		}
	}
	return m, nil
}

func (m *EventsModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	ec := m.selected()
	if ec == nil {
		m.mode = eventModeList
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil
	switch {
	case key.Matches(km, DefaultKeyMap.Back):
		m.mode = eventModeList
	case key.Matches(km, DefaultKeyMap.Edit):
		return m, m.openEdit(ec.Event)
	case key.Matches(km, DefaultKeyMap.Delete):
		m.mode = eventModeConfirmDelete
	case km.String() == "x":
		m.statusMsg = "Exporting..."
		return m, m.exportEvent(ec.Event, export.FormatPDF)
	case km.String() == "t":
		m.statusMsg = "Exporting..."
		return m, m.exportEvent(ec.Event, export.FormatText)
	}
	return m, nil
}

func (m *EventsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.closeEdit()
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadEvents()

	case voiceTickMsg:
		return m, m.fields.PollVoice()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			m.closeEdit()
			m.err = nil
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Save):
			m.fields.Commit()
			return m, m.saveEvent()
		case key.Matches(msg, DefaultKeyMap.Voice):
			cmd, err := m.fields.ToggleVoice()
			m.err = err
			return m, cmd
		}
	}

	cmd, submit := m.fields.Update(msg)
	if submit {
		return m, m.saveEvent()
	}
	return m, cmd
}

func (m *EventsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if ec := m.selected(); ec != nil && (msg.String() == "y" || msg.String() == "Y") {
			return m, m.deleteEvent(ec.Event)
		}
		m.mode = eventModeDetail
	case eventDeletedMsg:
		m.mode = eventModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadEvents()
	}
	return m, nil
}

func (m *EventsModel) View() string {
	switch m.mode {
	case eventModeEdit:
		return m.viewEdit()
	case eventModeDetail:
		return m.viewDetail()
	case eventModeConfirmDelete:
		return m.viewConfirmDelete()
	}
	return m.viewList()
}

func (m *EventsModel) viewList() string {
	if m.loading {
		return "Loading events..."
	}

	var s string
	header := "Events"
	if m.clientTag != "" {
		header += subtitleStyle.Render("  for " + m.clientTag)
	}
	s += titleStyle.Render(header) + "\n\n"
	s += statusLine(m.statusMsg)
	s += errorLine(m.err)

	if len(m.events) == 0 {
		s += subtitleStyle.Render("  No events yet. Press 'n' to book one.") + "\n"
		return s
	}

	for i, ec := range m.events {
		s += m.renderEvent(i, ec) + "\n"
	}

	help := "  j/k: navigate  enter: details  n: book event"
	if m.clientID != "" {
		help += "  esc: all clients"
	}
	s += "\n" + helpStyle.Render(help)
	return s
}

func (m *EventsModel) renderEvent(index int, ec service.EventWithClient) string {
	e := ec.Event
	selected := index == m.cursor

	indicator := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		indicator = "> "
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	line1 := nameStyle.Render(fmt.Sprintf("%s%s", indicator, e.EventName))
	if ec.Client != nil && ec.Client.IsVIP {
		line1 += " " + vipStyle.Render("★")
	}
	line2 := subtitleStyle.Render(fmt.Sprintf("    %s  |  %s  |  %s  |  %s  |  %d item(s)",
		e.DisplayDate(),
		truncateStr(ec.ClientName(), 24),
		e.EventType.Label(),
		formatGuests(e.Guests),
		len(e.MenuItems),
	))
	return line1 + "\n" + line2
}

func (m *EventsModel) viewDetail() string {
	ec := m.selected()
	if ec == nil {
		return ""
	}
	e := ec.Event

	labelStyle := lipgloss.NewStyle().Bold(true).Width(14)
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), value)
	}

	var s string
	s += titleStyle.Render(e.EventName) + "\n\n"
	s += statusLine(m.statusMsg)
	s += errorLine(m.err)

	s += row("Client:", ec.ClientName())
	if ec.Client != nil {
		s += row("Phone:", ec.Client.Phone)
		if ec.Client.Email != "" {
			s += row("Email:", ec.Client.Email)
		}
	}
	s += row("Date:", e.DisplayDate())
	s += row("Type:", e.EventType.Label())
	s += row("Guests:", formatGuests(e.Guests))
	if e.EventAddress != "" {
		s += row("Venue:", e.EventAddress)
	}

	var menu string
	if len(e.MenuItems) == 0 {
		menu = subtitleStyle.Render("No items")
	} else {
		menu = "• " + strings.Join(e.MenuItems, "\n• ")
	}
	s += "\n" + boxStyle.Render(fmt.Sprintf("Menu (%d)\n%s", len(e.MenuItems), menu)) + "\n"

	s += "\n" + helpStyle.Render("  e: edit  x: export PDF  t: export text  d: delete  esc: back")
	return s
}

func (m *EventsModel) viewEdit() string {
	var s string
	s += titleStyle.Render("Edit Event") + "\n\n"
	s += m.fields.View()
	s += errorLine(m.err)
	s += helpStyle.Render("  tab: next field  ←/→: event type  ctrl+t: dictate  ctrl+s: save  esc: cancel")
	return s
}

func (m *EventsModel) viewConfirmDelete() string {
	ec := m.selected()
	if ec == nil {
		return ""
	}
	var s string
	s += titleStyle.Render("Delete Event") + "\n\n"
	s += fmt.Sprintf("  %s  %s\n\n", ec.Event.EventName, subtitleStyle.Render(ec.Event.DisplayDate()))
	s += warnStyle.Render("  Delete this event? (y/n)") + "\n"
	return s
}
