package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/voice"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const voicePollInterval = 250 * time.Millisecond

func voiceTick() tea.Cmd {
	return tea.Tick(voicePollInterval, func(time.Time) tea.Msg {
		return voiceTickMsg{}
	})
}

// voiceField connects a voice.Input to a text input. Recognized text
// arrives on the recognizer's goroutine and is held until the next poll.
type voiceField struct {
	input *voice.Input

	mu      sync.Mutex
	pending *string
}

func newVoiceField(a *app.App, placeholder string) *voiceField {
	vf := &voiceField{}
	vf.input = a.NewVoiceInput(placeholder, vf.deliver)
	return vf
}

func (vf *voiceField) deliver(text string) {
	vf.mu.Lock()
	defer vf.mu.Unlock()
	vf.pending = &text
}

func (vf *voiceField) take() (string, bool) {
	vf.mu.Lock()
	defer vf.mu.Unlock()
	if vf.pending == nil {
		return "", false
	}
	text := *vf.pending
	vf.pending = nil
	return text, true
}

// formField is one row of a form: free text, a checkbox, or a choice
type formField struct {
	label string
	input textinput.Model

	// checkbox rows
	checkbox bool
	checked  bool

	// choice rows cycle with left/right
	choices []string
	labels  []string
	choice  int

	// normalize rewrites the value when focus leaves the field
	normalize func(string) string

	voice *voiceField
}

func (f *formField) Value() string {
	switch {
	case f.checkbox:
		if f.checked {
			return "yes"
		}
		return ""
	case f.choices != nil:
		return f.choices[f.choice]
	}
	return f.input.Value()
}

func (f *formField) SetValue(v string) {
	if f.choices != nil {
		for i, c := range f.choices {
			if c == v {
				f.choice = i
			}
		}
		return
	}
	f.input.SetValue(v)
}

func (f *formField) view(focused bool) string {
	switch {
	case f.checkbox:
		box := "[ ]"
		if f.checked {
			box = "[x]"
		}
		return box
	case f.choices != nil:
		label := f.choices[f.choice]
		if f.labels != nil {
			label = f.labels[f.choice]
		}
		if focused {
			return fmt.Sprintf("‹ %s ›", selectedStyle.Render(" "+label+" "))
		}
		return label
	}
	s := f.input.View()
	if f.voice != nil && f.voice.input.Listening() {
		s += "  " + listeningStyle.Render("● "+f.voice.input.Placeholder())
	}
	return s
}

// fieldSet is a vertical form with a single focused field
type fieldSet struct {
	fields []*formField
	focus  int
}

func (fs *fieldSet) text(label, placeholder string, limit, width int) *formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	f := &formField{label: label, input: in}
	fs.fields = append(fs.fields, f)
	return f
}

func (fs *fieldSet) check(label string, checked bool) *formField {
	f := &formField{label: label, checkbox: true, checked: checked}
	fs.fields = append(fs.fields, f)
	return f
}

func (fs *fieldSet) choose(label string, choices, labels []string) *formField {
	f := &formField{label: label, choices: choices, labels: labels}
	fs.fields = append(fs.fields, f)
	return f
}

func (fs *fieldSet) focused() *formField {
	return fs.fields[fs.focus]
}

func (fs *fieldSet) onLast() bool {
	return fs.focus == len(fs.fields)-1
}

// Focus focuses the first field
func (fs *fieldSet) Focus() tea.Cmd {
	fs.focus = 0
	return fs.focusCurrent()
}

func (fs *fieldSet) focusCurrent() tea.Cmd {
	f := fs.focused()
	if f.checkbox || f.choices != nil {
		return nil
	}
	return f.input.Focus()
}

func (fs *fieldSet) blurCurrent() {
	f := fs.focused()
	if f.checkbox || f.choices != nil {
		return
	}
	if f.normalize != nil {
		f.input.SetValue(f.normalize(f.input.Value()))
	}
	f.input.Blur()
}

func (fs *fieldSet) move(delta int) tea.Cmd {
	fs.blurCurrent()
	n := len(fs.fields)
	fs.focus = (fs.focus + delta + n) % n
	return fs.focusCurrent()
}

// Commit applies normalization to the focused field before saving
func (fs *fieldSet) Commit() {
	f := fs.focused()
	if f.normalize != nil && !f.checkbox && f.choices == nil {
		f.input.SetValue(f.normalize(f.input.Value()))
	}
}

// Update handles navigation and editing keys. submit reports that enter was
// pressed on the last field.
func (fs *fieldSet) Update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		f := fs.focused()
		switch km.String() {
		case "tab", "down":
			return fs.move(1), false
		case "shift+tab", "up":
			return fs.move(-1), false
		case "enter":
			if fs.onLast() {
				fs.Commit()
				return nil, true
			}
			return fs.move(1), false
		}
		switch {
		case f.checkbox && key.Matches(km, DefaultKeyMap.Toggle):
			f.checked = !f.checked
			return nil, false
		case f.choices != nil && key.Matches(km, DefaultKeyMap.Left):
			f.choice = (f.choice - 1 + len(f.choices)) % len(f.choices)
			return nil, false
		case f.choices != nil && key.Matches(km, DefaultKeyMap.Right):
			f.choice = (f.choice + 1) % len(f.choices)
			return nil, false
		}
		if f.checkbox || f.choices != nil {
			return nil, false
		}
	}

	f := fs.focused()
	if f.checkbox || f.choices != nil {
		return nil, false
	}
	var c tea.Cmd
	f.input, c = f.input.Update(msg)
	return c, false
}

// ToggleVoice starts or stops dictation into the focused field
func (fs *fieldSet) ToggleVoice() (tea.Cmd, error) {
	f := fs.focused()
	if f.voice == nil {
		return nil, voice.ErrUnavailable
	}
	if err := f.voice.input.Toggle(context.Background()); err != nil {
		return nil, err
	}
	return voiceTick(), nil
}

// PollVoice copies recognized text into its field and keeps polling while
// any session is live
func (fs *fieldSet) PollVoice() tea.Cmd {
	live := false
	for _, f := range fs.fields {
		if f.voice == nil {
			continue
		}
		if text, ok := f.voice.take(); ok {
			text = strings.TrimSpace(text)
			if f.normalize != nil {
				text = f.normalize(text)
			}
			f.input.SetValue(text)
			f.input.CursorEnd()
		}
		if f.voice.input.Listening() {
			live = true
		}
	}
	if live {
		return voiceTick()
	}
	return nil
}

// Close ends all voice sessions
func (fs *fieldSet) Close() {
	for _, f := range fs.fields {
		if f.voice != nil {
			f.voice.input.Close(context.Background())
		}
	}
}

// View renders the labelled fields with a focus indicator
func (fs *fieldSet) View() string {
	var b strings.Builder
	for i, f := range fs.fields {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == fs.focus {
			indicator = "> "
			labelStyle = focusedLabel
		}
		label := f.label
		if f.voice != nil {
			label += " 🎤"
		}
		fmt.Fprintf(&b, "%s%s\n  %s\n\n", indicator, labelStyle.Render(label), f.view(i == fs.focus))
	}
	return b.String()
}
