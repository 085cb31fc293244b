package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clientMode represents the current screen mode
type clientMode int

const (
	clientModeList clientMode = iota
	clientModeSearch
	clientModeNew
	clientModeEdit
	clientModeConfirmDelete
)

// client form field indices
const (
	clientFieldName = iota
	clientFieldPhone
	clientFieldEmail
	clientFieldAddress
	clientFieldVIP
)

var clientFilters = []domain.ClientFilter{
	domain.ClientFilterAll,
	domain.ClientFilterVIP,
	domain.ClientFilterRegular,
}

// ClientsModel displays a searchable list of clients with create/edit forms
type ClientsModel struct {
	app       *app.App
	clients   []service.ClientStats
	cursor    int
	filter    int
	search    textinput.Model
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode          clientMode
	form          *form.ClientForm
	fields        *fieldSet
	autoNewClient bool // open new client form after data loads
}

type clientsDataMsg struct {
	clients []service.ClientStats
	err     error
}

type clientSavedMsg struct {
	name string
	err  error
}

type clientDeletedMsg struct {
	name string
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search name, phone, or email"
	search.Width = 40
	return &ClientsModel{
		app:     a,
		search:  search,
		loading: true,
	}
}

// IsCapturingInput returns true when a form, the search box, or a delete
// confirmation is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.mode != clientModeList
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	query := m.search.Value()
	filter := clientFilters[m.filter]
	return func() tea.Msg {
		stats, err := m.app.ClientService.Stats(context.Background(), query, filter)
		return clientsDataMsg{clients: stats, err: err}
	}
}

func (m *ClientsModel) selected() *domain.Client {
	if len(m.clients) == 0 || m.cursor >= len(m.clients) {
		return nil
	}
	return m.clients[m.cursor].Client
}

func (m *ClientsModel) openForm(editing *domain.Client) tea.Cmd {
	if editing != nil {
		m.mode = clientModeEdit
		m.form = form.EditClientForm(m.app.ClientRepo, editing)
	} else {
		m.mode = clientModeNew
		m.form = form.NewClientForm(m.app.ClientRepo)
	}

	fs := &fieldSet{}
	name := fs.text("Name:", "Client name", 100, 40)
	name.voice = newVoiceField(m.app, "Client name")
	fs.text("Phone:", "98765 43210", 20, 20)
	fs.text("Email:", "name@example.com", 100, 40)
	address := fs.text("Address:", "Optional address", 200, 50)
	address.voice = newVoiceField(m.app, "Optional address")
	fs.check("VIP client:", m.form.IsVIP)

	fs.fields[clientFieldName].SetValue(m.form.Name)
	fs.fields[clientFieldPhone].SetValue(m.form.Phone)
	fs.fields[clientFieldEmail].SetValue(m.form.Email)
	fs.fields[clientFieldAddress].SetValue(m.form.Address)

	m.fields = fs
	m.err = nil
	return fs.Focus()
}

func (m *ClientsModel) closeForm() {
	if m.fields != nil {
		m.fields.Close()
	}
	m.mode = clientModeList
	m.fields = nil
	m.form = nil
}

func (m *ClientsModel) saveClient() tea.Cmd {
	f := m.form
	f.Name = m.fields.fields[clientFieldName].Value()
	f.Phone = m.fields.fields[clientFieldPhone].Value()
	f.SetEmail(m.fields.fields[clientFieldEmail].Value())
	f.Address = m.fields.fields[clientFieldAddress].Value()
	f.IsVIP = m.fields.fields[clientFieldVIP].checked

	return func() tea.Msg {
		c, err := f.Save(context.Background())
		if err != nil {
			return clientSavedMsg{err: err}
		}
		return clientSavedMsg{name: c.Name}
	}
}

func (m *ClientsModel) deleteClient(c *domain.Client) tea.Cmd {
	return func() tea.Msg {
		err := m.app.ClientService.Delete(context.Background(), c.ID)
		return clientDeletedMsg{name: c.Name, err: err}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewClient = true
			return m, nil
		}
		return m, m.openForm(nil)
	}

	switch m.mode {
	case clientModeNew, clientModeEdit:
		return m.updateForm(msg)
	case clientModeSearch:
		return m.updateSearch(msg)
	case clientModeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			m.cursor = clampCursor(m.cursor, len(m.clients))
		}
		// Auto-open new client form on first run
		if m.autoNewClient {
			m.autoNewClient = false
			return m, m.openForm(nil)
		}
		return m, nil

	case tea.KeyMsg:
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
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
			if c := m.selected(); c != nil {
				return m, m.openForm(c)
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.selected() != nil {
				m.mode = clientModeConfirmDelete
			}
		case key.Matches(msg, DefaultKeyMap.Search):
			m.mode = clientModeSearch
			return m, m.search.Focus()
		case key.Matches(msg, DefaultKeyMap.Filter):
			m.filter = (m.filter + 1) % len(clientFilters)
			m.cursor = 0
			m.loading = true
			return m, m.loadClients()
		case msg.String() == "v":
			if c := m.selected(); c != nil {
				return m, func() tea.Msg { return ShowClientEventsMsg{ClientID: c.ID, Name: c.Name} }
			}
		}
	}

	return m, nil
}

func (m *ClientsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clientsDataMsg:
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			m.cursor = clampCursor(m.cursor, len(m.clients))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.mode = clientModeList
			return m, m.loadClients()
		case "enter":
			m.search.Blur()
			m.mode = clientModeList
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadClients())
	}
	return m, cmd
}

func (m *ClientsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			return m, m.deleteClient(m.selected())
		default:
			m.mode = clientModeList
		}
	case clientDeletedMsg:
		m.mode = clientModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadClients()
	}
	return m, nil
}

func (m *ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clientSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.closeForm()
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case voiceTickMsg:
		return m, m.fields.PollVoice()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			m.closeForm()
			m.err = nil
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Save):
			m.fields.Commit()
			return m, m.saveClient()
		case key.Matches(msg, DefaultKeyMap.Voice):
			cmd, err := m.fields.ToggleVoice()
			m.err = err
			return m, cmd
		}
	}

	cmd, submit := m.fields.Update(msg)
	if submit {
		return m, m.saveClient()
	}
	return m, cmd
}

func (m *ClientsModel) View() string {
	switch m.mode {
	case clientModeNew, clientModeEdit:
		return m.viewForm()
	case clientModeConfirmDelete:
		return m.viewConfirmDelete()
	}
	return m.viewList()
}

func (m *ClientsModel) viewForm() string {
	var s string

	if m.mode == clientModeNew {
		if len(m.clients) == 0 && m.search.Value() == "" && m.filter == 0 {
			s += titleStyle.Render("Welcome to caterbook!") + "\n"
			s += subtitleStyle.Render("  Add your first client to get started.") + "\n\n"
		} else {
			s += titleStyle.Render("New Client") + "\n\n"
		}
	} else {
		s += titleStyle.Render("Edit Client") + "\n\n"
	}

	s += m.fields.View()
	s += errorLine(m.err)
	s += helpStyle.Render("  tab: next field  space: toggle VIP  ctrl+t: dictate  ctrl+s: save  esc: cancel")

	return s
}

func (m *ClientsModel) viewConfirmDelete() string {
	c := m.selected()
	if c == nil {
		return ""
	}

	var s string
	s += titleStyle.Render("Delete Client") + "\n\n"
	s += fmt.Sprintf("  %s  %s\n", c.Name, subtitleStyle.Render(c.Phone))
	if n := m.clients[m.cursor].EventCount; n > 0 {
		s += warnStyle.Render(fmt.Sprintf("  %d event(s) will be kept and shown as Unknown.", n)) + "\n"
	}
	s += "\n" + warnStyle.Render("  Delete this client? (y/n)") + "\n"
	return s
}

func (m *ClientsModel) viewList() string {
	if m.loading {
		return "Loading clients..."
	}

	var s string

	// Header
	header := "Clients"
	if f := clientFilters[m.filter]; f != domain.ClientFilterAll {
		header += subtitleStyle.Render(fmt.Sprintf("  (%s only)", f))
	}
	s += titleStyle.Render(header) + "\n\n"

	if m.mode == clientModeSearch || m.search.Value() != "" {
		s += "  " + m.search.View() + "\n\n"
	}

	s += statusLine(m.statusMsg)
	s += errorLine(m.err)

	if len(m.clients) == 0 {
		if m.search.Value() != "" {
			s += subtitleStyle.Render("  No clients match your search.") + "\n"
		} else {
			s += subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n"
		}
		return s
	}

	for i, cs := range m.clients {
		s += m.renderClient(i, cs) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter: edit  d: delete  v: events  /: search  f: filter")

	return s
}

func (m *ClientsModel) renderClient(index int, cs service.ClientStats) string {
	selected := index == m.cursor
	client := cs.Client

	indicator := "  "
	if selected {
		indicator = "> "
	}

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}
	line1 := nameStyle.Render(indicator + client.Name)
	if client.IsVIP {
		line1 += " " + vipStyle.Render("★ VIP")
	}

	details := []string{client.Phone}
	if client.Email != "" {
		details = append(details, client.Email)
	}
	details = append(details, fmt.Sprintf("%d event(s)", cs.EventCount))
	line2 := subtitleStyle.Render("    " + strings.Join(details, "  |  "))

	result := line1 + "\n" + line2
	if client.Address != "" {
		result += "\n" + subtitleStyle.Render("    "+truncateStr(client.Address, 60))
	}
	return result
}
