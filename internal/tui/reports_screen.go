package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/caterbook/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxBarWidth = 40

// ReportsModel shows bookings per month for one year
type ReportsModel struct {
	app     *app.App
	year    int
	monthly map[time.Month]int

	loading bool
	err     error
}

type reportsDataMsg struct {
	year    int
	monthly map[time.Month]int
	err     error
}

// NewReportsModel creates a new reports screen model
func NewReportsModel(a *app.App) tea.Model {
	return &ReportsModel{
		app:     a,
		year:    time.Now().Year(),
		loading: true,
	}
}

func (m *ReportsModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *ReportsModel) loadData() tea.Cmd {
	year := m.year
	return func() tea.Msg {
		monthly, err := m.app.ReportService.GetEventsByMonth(context.Background(), year)
		return reportsDataMsg{year: year, monthly: monthly, err: err}
	}
}

func (m *ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case reportsDataMsg:
		if msg.year != m.year {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.monthly = msg.monthly
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Left):
			m.year--
			m.loading = true
			return m, m.loadData()
		case key.Matches(msg, DefaultKeyMap.Right):
			m.year++
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

func (m *ReportsModel) View() string {
	var s string
	s += titleStyle.Render(fmt.Sprintf("Events by Month - %d", m.year)) + "\n\n"

	if m.loading {
		return s + "Loading report..."
	}
	if m.err != nil {
		return s + lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	peak, total := 0, 0
	for _, n := range m.monthly {
		total += n
		peak = max(peak, n)
	}

	for month := time.January; month <= time.December; month++ {
		n := m.monthly[month]
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", n*maxBarWidth/peak)
		}
		s += fmt.Sprintf("  %s  %s %s\n",
			month.String()[:3],
			lipgloss.NewStyle().Foreground(primaryColor).Render(bar),
			subtitleStyle.Render(fmt.Sprint(n)),
		)
	}

	s += fmt.Sprintf("\n  Total: %d event(s)\n", total)
	s += "\n" + helpStyle.Render("  ←/→: change year")
	return s
}
