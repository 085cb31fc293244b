package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	overview *service.Overview

	loading bool
	err     error
}

type dashboardDataMsg struct {
	overview *service.Overview
	err      error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		overview, err := m.app.ReportService.GetOverview(context.Background(), time.Now())
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("overview: %w", err)}
		}
		return dashboardDataMsg{overview: overview}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.overview = msg.overview
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	o := m.overview
	var s string

	if name := m.app.Config.Business.Name; name != "" {
		s += titleStyle.Render(name) + "\n\n"
	}

	// Summary line
	s += fmt.Sprintf(
		"  Clients:  %-6d  VIP:  %-6d  Events:  %d\n",
		o.TotalClients,
		o.VIPClients,
		o.TotalEvents,
	)

	// Type breakdown
	if o.TotalEvents > 0 {
		s += "\n"
		for _, t := range domain.EventTypes {
			if n := o.ByType[t]; n > 0 {
				s += subtitleStyle.Render(fmt.Sprintf("  %-12s %d", t.Label(), n)) + "\n"
			}
		}
	}

	// Upcoming
	s += "\n" + m.renderUpcoming()

	if o.TotalClients == 0 {
		s += "\n" + helpStyle.Render("  Press C then n to add your first client, or B to book an event.")
	}
	return s
}

func (m *DashboardModel) renderUpcoming() string {
	o := m.overview
	header := fmt.Sprintf("  Upcoming (next 30 days) - %d guests\n", o.UpcomingPax)
	if len(o.Upcoming) == 0 {
		return header + subtitleStyle.Render("  No upcoming events") + "\n"
	}

	s := header
	limit := min(8, len(o.Upcoming))
	for i := 0; i < limit; i++ {
		ec := o.Upcoming[i]
		e := ec.Event
		s += fmt.Sprintf("  %-12s %-24s %-20s %s\n",
			e.DisplayDate(),
			truncateStr(e.EventName, 24),
			truncateStr(ec.ClientName(), 20),
			formatGuests(e.Guests),
		)
	}
	return s
}
