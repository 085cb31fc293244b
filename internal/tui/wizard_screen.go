package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/export"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var wizardSteps = []wizard.Step{wizard.StepClient, wizard.StepEvent, wizard.StepMenu, wizard.StepSave}

var wizardStepLabels = map[wizard.Step]string{
	wizard.StepClient: "Client",
	wizard.StepEvent:  "Event",
	wizard.StepMenu:   "Menu",
	wizard.StepSave:   "Save",
}

// WizardModel walks through booking a new event
type WizardModel struct {
	app *app.App
	w   *wizard.Wizard
	err error

	clientFields *fieldSet
	eventFields  *fieldSet

	// existing-client picker and menu picker
	search       textinput.Model
	clientCursor int
	menuFilter   textinput.Model
	menuCursor   int

	statusMsg string
	cancelled bool
}

type wizardReadyMsg struct {
	w   *wizard.Wizard
	err error
}

type wizardNextMsg struct {
	from wizard.Step
	err  error
}

type wizardExportedMsg struct {
	path string
	err  error
}

// NewWizardModel creates a fresh booking wizard screen
func NewWizardModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search clients"
	search.Width = 40

	menuFilter := textinput.New()
	menuFilter.Placeholder = "Filter dishes"
	menuFilter.Width = 40

	return &WizardModel{app: a, search: search, menuFilter: menuFilter}
}

// IsCapturingInput is true for the whole wizard; esc on the first step leaves it
func (m *WizardModel) IsCapturingInput() bool {
	return true
}

func (m *WizardModel) Init() tea.Cmd {
	return func() tea.Msg {
		w, err := m.app.NewWizard(context.Background(), nil, func() { m.cancelled = true })
		return wizardReadyMsg{w: w, err: err}
	}
}

func (m *WizardModel) setup(w *wizard.Wizard) tea.Cmd {
	m.w = w

	fs := &fieldSet{}
	name := fs.text("Name:", "Client name", 100, 40)
	name.voice = newVoiceField(m.app, "Client name")
	fs.text("Phone:", "98765 43210", 20, 20)
	fs.text("Email:", "name@example.com", 100, 40)
	address := fs.text("Address:", "Optional address", 200, 50)
	address.voice = newVoiceField(m.app, "Optional address")
	fs.check("VIP client:", false)
	m.clientFields = fs

	m.eventFields = newEventFields(m.app, w.EventForm)

	if len(w.Clients()) > 0 {
		w.SetMode(wizard.ModeExisting)
		return m.search.Focus()
	}
	return m.clientFields.Focus()
}

func (m *WizardModel) close() {
	if m.clientFields != nil {
		m.clientFields.Close()
	}
	if m.eventFields != nil {
		m.eventFields.Close()
	}
}

// activeFields returns the form for the current step, if it has one
func (m *WizardModel) activeFields() *fieldSet {
	switch m.w.Step() {
	case wizard.StepClient:
		if m.w.Mode() == wizard.ModeNew {
			return m.clientFields
		}
	case wizard.StepEvent:
		return m.eventFields
	}
	return nil
}

// next copies the current step's inputs into the wizard and advances in
// the background
func (m *WizardModel) next() tea.Cmd {
	if m.w.Busy() {
		return nil
	}

	switch m.w.Step() {
	case wizard.StepClient:
		if m.w.Mode() == wizard.ModeNew {
			m.clientFields.Commit()
			f := m.w.ClientForm
			f.Name = m.clientFields.fields[clientFieldName].Value()
			f.Phone = m.clientFields.fields[clientFieldPhone].Value()
			f.SetEmail(m.clientFields.fields[clientFieldEmail].Value())
			f.Address = m.clientFields.fields[clientFieldAddress].Value()
			f.IsVIP = m.clientFields.fields[clientFieldVIP].checked
		} else {
			clients := m.w.Clients()
			if m.clientCursor < len(clients) {
				if err := m.w.SelectClient(clients[m.clientCursor].ID); err != nil {
					m.err = err
					return nil
				}
			}
		}
	case wizard.StepEvent:
		m.eventFields.Commit()
		applyEventFields(m.eventFields, m.w.EventForm)
	}

	w := m.w
	from := w.Step()
	m.statusMsg = ""
	if from >= wizard.StepMenu {
		m.statusMsg = "Saving..."
	}
	return func() tea.Msg {
		err := w.Next(context.Background())
		return wizardNextMsg{from: from, err: err}
	}
}

func (m *WizardModel) back() tea.Cmd {
	if m.w.Busy() {
		return nil
	}
	m.err = nil
	if m.w.Finished() {
		m.close()
		return func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEvents} }
	}
	m.w.Back()
	if m.cancelled {
		m.close()
		return func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEvents} }
	}
	return m.focusStep()
}

func (m *WizardModel) focusStep() tea.Cmd {
	m.search.Blur()
	m.menuFilter.Blur()
	switch m.w.Step() {
	case wizard.StepClient:
		if m.w.Mode() == wizard.ModeExisting {
			return m.search.Focus()
		}
		return m.clientFields.Focus()
	case wizard.StepEvent:
		return m.eventFields.Focus()
	case wizard.StepMenu:
		return m.menuFilter.Focus()
	}
	return nil
}

func (m *WizardModel) exportEvent(e *domain.Event) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.EventService.Export(context.Background(), e.ID, export.FormatPDF)
		return wizardExportedMsg{path: path, err: err}
	}
}

func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wizardReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.setup(msg.w)

	case wizardNextMsg:
		m.statusMsg = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.from == wizard.StepClient && m.w.Mode() == wizard.ModeExisting {
			m.search.SetValue(m.w.Search())
		}
		return m, m.focusStep()

	case wizardExportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Exported to " + msg.path
		return m, nil

	case voiceTickMsg:
		if fs := m.activeFields(); fs != nil {
			return m, fs.PollVoice()
		}
		return m, nil
	}

	if m.w == nil {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, DefaultKeyMap.Back) {
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEvents} }
		}
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && m.w.Busy() {
		return m, nil
	}

	if isKey {
		switch {
		case key.Matches(km, DefaultKeyMap.Back):
			return m, m.back()
		case key.Matches(km, DefaultKeyMap.Next):
			return m, m.next()
		}
	}

	switch m.w.Step() {
	case wizard.StepClient:
		return m.updateClientStep(msg)
	case wizard.StepEvent:
		return m.updateEventStep(msg)
	case wizard.StepMenu:
		return m.updateMenuStep(msg)
	case wizard.StepSave:
		return m.updateSaveStep(msg)
	}
	return m, nil
}

func (m *WizardModel) updateClientStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+e" {
		m.err = nil
		if m.w.Mode() == wizard.ModeNew {
			m.w.SetMode(wizard.ModeExisting)
		} else {
			m.w.SetMode(wizard.ModeNew)
		}
		return m, m.focusStep()
	}

	if m.w.Mode() == wizard.ModeNew {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, DefaultKeyMap.Voice) {
			cmd, err := m.clientFields.ToggleVoice()
			m.err = err
			return m, cmd
		}
		cmd, submit := m.clientFields.Update(msg)
		if submit {
			return m, m.next()
		}
		return m, cmd
	}

	// Existing client picker
	if km, ok := msg.(tea.KeyMsg); ok {
		clients := m.w.Clients()
		switch km.String() {
		case "up":
			if m.clientCursor > 0 {
				m.clientCursor--
			}
			return m, nil
		case "down":
			if m.clientCursor < len(clients)-1 {
				m.clientCursor++
			}
			return m, nil
		case "enter":
			return m, m.next()
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.w.SetSearch(m.search.Value())
		m.clientCursor = 0
	}
	return m, cmd
}

func (m *WizardModel) updateEventStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, DefaultKeyMap.Voice) {
		cmd, err := m.eventFields.ToggleVoice()
		m.err = err
		return m, cmd
	}
	cmd, submit := m.eventFields.Update(msg)
	if submit {
		return m, m.next()
	}
	return m, cmd
}

func (m *WizardModel) updateMenuStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		items := m.w.MenuItems()
		switch km.String() {
		case "up":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
			return m, nil
		case "down":
			if m.menuCursor < len(items)-1 {
				m.menuCursor++
			}
			return m, nil
		case "enter", "tab":
			if m.menuCursor < len(items) {
				m.w.ToggleMenuItem(items[m.menuCursor])
			}
			return m, nil
		}
	}

	before := m.menuFilter.Value()
	var cmd tea.Cmd
	m.menuFilter, cmd = m.menuFilter.Update(msg)
	if m.menuFilter.Value() != before {
		m.w.SetMenuQuery(m.menuFilter.Value())
		m.menuCursor = 0
	}
	return m, cmd
}

func (m *WizardModel) updateSaveStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if !m.w.Finished() {
		if km.String() == "enter" {
			return m, m.next()
		}
		return m, nil
	}
	switch km.String() {
	case "x":
		return m, m.exportEvent(m.w.Event())
	case "enter":
		m.close()
		return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEvents} }
	}
	return m, nil
}

func (m *WizardModel) View() string {
	var s string
	s += titleStyle.Render("Book Event") + "\n"

	if m.w == nil {
		if m.err != nil {
			return s + "\n" + errorLine(m.err)
		}
		return s + "\nLoading..."
	}

	s += m.viewProgress() + "\n\n"
	s += statusLine(m.statusMsg)

	switch m.w.Step() {
	case wizard.StepClient:
		s += m.viewClientStep()
	case wizard.StepEvent:
		s += m.eventFields.View()
	case wizard.StepMenu:
		s += m.viewMenuStep()
	case wizard.StepSave:
		s += m.viewSaveStep()
	}

	if m.err != nil {
		s += "\n" + errorLine(m.friendlyError())
	}

	s += "\n" + helpStyle.Render(m.help())
	return s
}

func (m *WizardModel) friendlyError() error {
	if errors.Is(m.err, form.ErrSaveFailed) {
		return fmt.Errorf("could not save, press enter to retry (%w)", m.err)
	}
	return m.err
}

func (m *WizardModel) viewProgress() string {
	parts := make([]string, len(wizardSteps))
	for i, step := range wizardSteps {
		label := fmt.Sprintf("%d. %s", i+1, wizardStepLabels[step])
		switch {
		case step == m.w.Step():
			parts[i] = selectedStyle.Render(" " + label + " ")
		case step < m.w.Step():
			parts[i] = stepDoneStyle.Render("✓ " + label)
		default:
			parts[i] = stepTodoStyle.Render(label)
		}
	}
	return "  " + strings.Join(parts, "  ›  ")
}

func (m *WizardModel) viewClientStep() string {
	var s string
	if m.w.Mode() == wizard.ModeNew {
		s += subtitleStyle.Render("  New client  (ctrl+e: pick an existing client)") + "\n\n"
		return s + m.clientFields.View()
	}

	s += subtitleStyle.Render("  Existing client  (ctrl+e: add a new client)") + "\n\n"
	s += "  " + m.search.View() + "\n\n"

	clients := m.w.Clients()
	if len(clients) == 0 {
		return s + subtitleStyle.Render("  No clients match.") + "\n"
	}
	for i, c := range clients {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.clientCursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		line := style.Render(fmt.Sprintf("%s%s", indicator, c.Name)) + "  " + subtitleStyle.Render(c.Phone)
		if c.IsVIP {
			line += " " + vipStyle.Render("★")
		}
		if c.ID == m.w.SelectedClientID() {
			line += " " + stepDoneStyle.Render("(selected)")
		}
		s += line + "\n"
	}
	return s
}

func (m *WizardModel) viewMenuStep() string {
	var s string
	s += "  " + m.menuFilter.View() + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("  %d selected", len(m.w.SelectedMenu()))) + "\n\n"

	items := m.w.MenuItems()
	if len(items) == 0 {
		return s + subtitleStyle.Render("  No dishes match.") + "\n"
	}

	// Window the list around the cursor
	const window = 12
	start := 0
	if m.menuCursor >= window {
		start = m.menuCursor - window + 1
	}
	end := min(start+window, len(items))

	for i := start; i < end; i++ {
		name := items[i]
		box := "[ ]"
		if m.w.IsSelected(name) {
			box = stepDoneStyle.Render("[x]")
		}
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.menuCursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		line := fmt.Sprintf("%s%s %s", indicator, box, style.Render(name))
		if item, ok := m.app.Menu.Lookup(name); ok && item.IsVegetarian {
			line += " " + vegStyle.Render("●")
		}
		s += line + "\n"
	}
	return s
}

func (m *WizardModel) viewSaveStep() string {
	if !m.w.Finished() {
		if m.w.Busy() {
			return "  Saving event...\n"
		}
		return ""
	}

	e := m.w.Event()
	client := "Unknown"
	if c := m.w.SelectedClient(); c != nil {
		client = c.Name
	}

	var s string
	s += statusStyle.Render("  Event booked!") + "\n\n"
	s += fmt.Sprintf("  %s for %s\n", e.EventName, client)
	s += subtitleStyle.Render(fmt.Sprintf("  %s  |  %s  |  %s", e.DisplayDate(), e.EventType.Label(), formatGuests(e.Guests))) + "\n"
	if len(e.MenuItems) > 0 {
		s += subtitleStyle.Render("  Menu: "+strings.Join(e.MenuItems, ", ")) + "\n"
	}
	return s
}

func (m *WizardModel) help() string {
	switch m.w.Step() {
	case wizard.StepClient:
		if m.w.Mode() == wizard.ModeNew {
			return "  tab: next field  space: VIP  ctrl+t: dictate  ctrl+n: next step  esc: cancel"
		}
		return "  type to search  ↑/↓: choose  enter/ctrl+n: next step  esc: cancel"
	case wizard.StepEvent:
		return "  tab: next field  ←/→: event type  ctrl+t: dictate  ctrl+n: next step  esc: back"
	case wizard.StepMenu:
		return "  type to filter  ↑/↓: move  enter: toggle dish  ctrl+n: save event  esc: back"
	}
	if m.w.Finished() {
		return "  x: export PDF  enter: done"
	}
	return "  enter: retry save  esc: back"
}
