// Package export renders an event summary to a shareable file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/andy/caterbook/internal/domain"
)

// Format selects the output renderer
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// ParseFormat accepts "pdf", "text", or "txt"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Business is the caterer shown in the document header
type Business struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Summary is everything printed for one event. Client is nil for events
// whose client has been deleted.
type Summary struct {
	Event    *domain.Event
	Client   *domain.Client
	Business Business
}

type row struct {
	label string
	value string
}

type section struct {
	title string
	rows  []row
}

const unknown = "Unknown"

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (s Summary) clientName() string {
	if s.Client == nil || strings.TrimSpace(s.Client.Name) == "" {
		return unknown
	}
	return s.Client.Name
}

func (s Summary) sections() []section {
	client := section{title: "Client"}
	client.rows = append(client.rows, row{"Name", s.clientName()})
	if s.Client != nil {
		client.rows = append(client.rows,
			row{"Phone", orDash(s.Client.Phone)},
			row{"Email", orDash(s.Client.Email)},
			row{"Address", orDash(s.Client.Address)},
		)
	}

	guests := "-"
	if s.Event.Guests != nil {
		guests = strconv.Itoa(*s.Event.Guests)
	}
	event := section{title: "Event", rows: []row{
		{"Name", s.Event.EventName},
		{"Date", s.Event.DisplayDate()},
		{"Type", s.Event.EventType.Label()},
		{"Guests", guests},
		{"Address", orDash(s.Event.EventAddress)},
	}}

	return []section{client, event}
}

func (s Summary) menuLines() []string {
	if len(s.Event.MenuItems) == 0 {
		return []string{"No items"}
	}
	lines := make([]string, len(s.Event.MenuItems))
	for i, item := range s.Event.MenuItems {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return lines
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func slug(s string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
}

// FileName returns the base name, without extension, for a summary:
// <client>_<event_name>_<event id>
func FileName(s Summary) string {
	return fmt.Sprintf("%s_%s_%s", slug(s.clientName()), slug(s.Event.EventName), slug(s.Event.ID))
}

// Write renders the summary into dir in the given format and returns the
// path written
func Write(dir string, format Format, s Summary) (string, error) {
	if s.Event == nil {
		return "", fmt.Errorf("export: summary has no event")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	switch format {
	case FormatText:
		return WriteText(dir, s)
	default:
		return WritePDF(dir, s)
	}
}

// WriteText writes a plain-text summary
func WriteText(dir string, s Summary) (string, error) {
	var b strings.Builder
	if s.Business.Name != "" {
		fmt.Fprintln(&b, s.Business.Name)
		for _, line := range []string{s.Business.Phone, s.Business.Email, s.Business.Address} {
			if line != "" {
				fmt.Fprintln(&b, line)
			}
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintf(&b, "Event Summary: %s\n", s.Event.EventName)

	for _, sec := range s.sections() {
		fmt.Fprintf(&b, "\n%s\n%s\n", sec.title, strings.Repeat("-", len(sec.title)))
		for _, r := range sec.rows {
			fmt.Fprintf(&b, "%-8s %s\n", r.label+":", r.value)
		}
	}

	fmt.Fprintf(&b, "\nMenu\n----\n")
	for _, line := range s.menuLines() {
		fmt.Fprintln(&b, line)
	}

	path := filepath.Join(dir, FileName(s)+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
