package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenEvents
	ScreenClients
	ScreenWizard
	ScreenMenu
	ScreenReports
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenEvents:
		return "Events"
	case ScreenClients:
		return "Clients"
	case ScreenWizard:
		return "Book Event"
	case ScreenMenu:
		return "Menu"
	case ScreenReports:
		return "Reports"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models, created on first visit. The wizard is recreated for
	// every booking.
	screens map[Screen]tea.Model

	// First-run state
	checkedFirstRun bool

	// Error state
	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		screens:       map[Screen]tea.Model{ScreenDashboard: NewDashboardModel(a)},
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkFirstRun(),
		m.screens[ScreenDashboard].Init(),
	)
}

// checkFirstRun checks if any clients exist in the store
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.app.ClientRepo.List(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasClients: true} // assume yes on error
		}
		return firstRunCheckMsg{hasClients: len(clients) > 0}
	}
}

func (m *Model) newScreen(screen Screen) tea.Model {
	switch screen {
	case ScreenDashboard:
		return NewDashboardModel(m.app)
	case ScreenEvents:
		return NewEventsModel(m.app)
	case ScreenClients:
		return NewClientsModel(m.app)
	case ScreenWizard:
		return NewWizardModel(m.app)
	case ScreenMenu:
		return NewMenuModel(m.app)
	case ScreenReports:
		return NewReportsModel(m.app)
	case ScreenSettings:
		return NewSettingsModel(m.app)
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	if existing, ok := m.screens[screen]; !ok || screen == ScreenWizard {
		if wm, isWizard := existing.(*WizardModel); isWizard {
			wm.close()
		}
		s := m.newScreen(screen)
		m.screens[screen] = s
		return s.Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			// Global key handlers (screen navigation)
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Dashboard):
				return m, m.switchTo(ScreenDashboard)
			case key.Matches(msg, DefaultKeyMap.Events):
				return m, m.switchTo(ScreenEvents)
			case key.Matches(msg, DefaultKeyMap.Clients):
				return m, m.switchTo(ScreenClients)
			case key.Matches(msg, DefaultKeyMap.Book):
				return m, m.switchTo(ScreenWizard)
			case key.Matches(msg, DefaultKeyMap.Menu):
				return m, m.switchTo(ScreenMenu)
			case key.Matches(msg, DefaultKeyMap.Reports):
				return m, m.switchTo(ScreenReports)
			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasClients {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenClients)
			openFormCmd := func() tea.Msg { return OpenNewClientFormMsg{} }
			return m, tea.Batch(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ShowClientEventsMsg:
		cmd := m.switchTo(ScreenEvents)
		events := m.screens[ScreenEvents]
		var filterCmd tea.Cmd
		m.screens[ScreenEvents], filterCmd = events.Update(msg)
		return m, tea.Batch(cmd, filterCmd)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen, ok := m.screens[m.currentScreen]; ok {
		m.screens[m.currentScreen], cmd = screen.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	header := headerStyle.Render(fmt.Sprintf("caterbook - %s", m.currentScreen.String()))

	// Footer with navigation keys
	footer := footerStyle.Render("[H]ome  [E]vents  [C]lients  [B]ook  [M]enu  [R]eports  [,] Settings  [q]uit")

	// Current screen content
	content := "Loading..."
	if screen, ok := m.screens[m.currentScreen]; ok {
		content = screen.View()
	}

	// Error display
	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
