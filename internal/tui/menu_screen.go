package tui

import (
	"fmt"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/menu"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuModel browses the catalogue by category with a live search
type MenuModel struct {
	app       *app.App
	tabs      []domain.MenuCategory // first tab is "all"
	tab       int
	search    textinput.Model
	searching bool
	items     []domain.MenuItem
	cursor    int
}

// NewMenuModel creates a new menu screen model
func NewMenuModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search dishes"
	search.Width = 40

	tabs := append([]domain.MenuCategory{{ID: menu.AllCategory, Name: "All"}}, a.Menu.Categories()...)
	m := &MenuModel{app: a, tabs: tabs, search: search}
	m.refresh()
	return m
}

// IsCapturingInput returns true while typing a search
func (m *MenuModel) IsCapturingInput() bool {
	return m.searching
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) refresh() {
	m.items = m.app.Menu.Search(m.tabs[m.tab].ID, m.search.Value())
	m.cursor = clampCursor(m.cursor, len(m.items))
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.searching {
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "esc":
				m.search.SetValue("")
				m.search.Blur()
				m.searching = false
				m.refresh()
				return m, nil
			case "enter":
				m.search.Blur()
				m.searching = false
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, DefaultKeyMap.Left):
		m.tab = (m.tab - 1 + len(m.tabs)) % len(m.tabs)
		m.cursor = 0
		m.refresh()
	case key.Matches(km, DefaultKeyMap.Right):
		m.tab = (m.tab + 1) % len(m.tabs)
		m.cursor = 0
		m.refresh()
	case key.Matches(km, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, DefaultKeyMap.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(km, DefaultKeyMap.Search):
		m.searching = true
		return m, m.search.Focus()
	}
	return m, nil
}

func (m *MenuModel) View() string {
	var s string
	s += titleStyle.Render("Menu") + "\n\n"

	tabs := ""
	for i, cat := range m.tabs {
		label := cat.Name
		if cat.Icon != "" {
			label = cat.Icon + " " + label
		}
		if i == m.tab {
			tabs += selectedStyle.Render(" "+label+" ") + " "
		} else {
			tabs += subtitleStyle.Render(" "+label+" ") + " "
		}
	}
	s += "  " + tabs + "\n\n"

	if m.searching || m.search.Value() != "" {
		s += "  " + m.search.View() + "\n\n"
	}

	if len(m.items) == 0 {
		s += subtitleStyle.Render("  No dishes found.") + "\n"
	}

	const window = 10
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := min(start+window, len(m.items))
	for i := start; i < end; i++ {
		s += m.renderItem(i, m.items[i]) + "\n"
	}

	s += "\n" + helpStyle.Render(fmt.Sprintf("  ←/→: category  j/k: navigate  /: search   %d dish(es)", len(m.items)))
	return s
}

func (m *MenuModel) renderItem(index int, item domain.MenuItem) string {
	selected := index == m.cursor

	indicator := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		indicator = "> "
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	line1 := nameStyle.Render(indicator + item.Name)
	if item.IsVegetarian {
		line1 += " " + vegStyle.Render("● veg")
	}
	if item.IsPopular {
		line1 += " " + vipStyle.Render("★")
	}
	line1 += "  " + formatRupees(item.Price)

	detail := truncateStr(item.Description, 60)
	if item.SpiceLevel != "" {
		detail += fmt.Sprintf("  (%s)", item.SpiceLevel)
	}
	return line1 + "\n" + subtitleStyle.Render("    "+detail)
}
