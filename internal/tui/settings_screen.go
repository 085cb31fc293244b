package tui

import (
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/export"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldBusinessName = iota
	settingsFieldBusinessPhone
	settingsFieldBusinessEmail
	settingsFieldBusinessAddress
	settingsFieldOutputDir
	settingsFieldFormat
	settingsFieldLanguage
)

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app       *app.App
	mode      settingsMode
	fields    *fieldSet
	err       error
	statusMsg string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() tea.Cmd {
	cfg := m.app.Config

	fs := &fieldSet{}
	fs.text("Business name:", "Your catering business", 100, 40)
	fs.text("Business phone:", "98765 43210", 20, 20)
	fs.text("Business email:", "hello@example.com", 100, 40)
	fs.text("Business address:", "Shown on exported summaries", 200, 50)
	fs.text("Export directory:", "/path/to/exports", 256, 60)
	fs.choose("Export format:", []string{string(export.FormatPDF), string(export.FormatText)}, []string{"PDF", "Text"})
	fs.choose("Voice language:", []string{"en", "hi"}, []string{"English", "Hindi"})

	fs.fields[settingsFieldBusinessName].SetValue(cfg.Business.Name)
	fs.fields[settingsFieldBusinessPhone].SetValue(cfg.Business.Phone)
	fs.fields[settingsFieldBusinessEmail].SetValue(cfg.Business.Email)
	fs.fields[settingsFieldBusinessAddress].SetValue(cfg.Business.Address)
	fs.fields[settingsFieldOutputDir].SetValue(cfg.Export.OutputDir)
	fs.fields[settingsFieldFormat].SetValue(cfg.Export.Format)
	fs.fields[settingsFieldLanguage].SetValue(cfg.Voice.Language)

	m.fields = fs
	return fs.Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	values := make([]string, len(m.fields.fields))
	for i, f := range m.fields.fields {
		values[i] = strings.TrimSpace(f.Value())
	}

	return func() tea.Msg {
		if values[settingsFieldOutputDir] == "" {
			return settingsSavedMsg{err: fmt.Errorf("export directory is required")}
		}

		cfg := m.app.Config
		cfg.Business.Name = values[settingsFieldBusinessName]
		cfg.Business.Phone = values[settingsFieldBusinessPhone]
		cfg.Business.Email = values[settingsFieldBusinessEmail]
		cfg.Business.Address = values[settingsFieldBusinessAddress]
		cfg.Export.OutputDir = values[settingsFieldOutputDir]
		cfg.Export.Format = values[settingsFieldFormat]
		cfg.Voice.Language = values[settingsFieldLanguage]

		if err := m.app.ApplyConfig(); err != nil {
			return settingsSavedMsg{err: err}
		}
		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Select):
			m.mode = settingsModeEdit
			m.statusMsg = ""
			return m, m.initForm()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			m.mode = settingsModeView
			m.err = nil
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Save):
			return m, m.saveSettings()
		}
	}

	cmd, submit := m.fields.Update(msg)
	if submit {
		return m, m.saveSettings()
	}
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"
	s += statusLine(m.statusMsg)

	cfg := m.app.Config

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	s += subtitleStyle.Render("  Business") + "\n\n"
	s += row("Name:", cfg.Business.Name)
	s += row("Phone:", cfg.Business.Phone)
	s += row("Email:", cfg.Business.Email)
	s += row("Address:", cfg.Business.Address)

	s += "\n" + subtitleStyle.Render("  Export & Voice") + "\n\n"
	s += row("Export Directory:", cfg.Export.OutputDir)
	s += row("Export Format:", cfg.Export.Format)
	s += row("Voice Language:", cfg.Voice.Language)
	voiceStatus := "not configured"
	if m.app.Recognizer != nil {
		voiceStatus = cfg.Voice.Command
	}
	s += row("Voice Command:", voiceStatus)

	s += "\n" + subtitleStyle.Render("  Storage") + "\n\n"
	s += row("Backend:", cfg.Store.Backend)
	s += row("Log File:", cfg.Log.Path)

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"
	s += m.fields.View()
	s += errorLine(m.err)
	s += helpStyle.Render("  tab: next field  ←/→: change option  ctrl+s: save  esc: cancel")
	return s
}
