package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andy/caterbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() Summary {
	guests := 50
	return Summary{
		Event: &domain.Event{
			ID:           "0192f1c4-aaaa",
			ClientID:     "c1",
			EventName:    "Diwali Party",
			Date:         "2024-11-01",
			Guests:       &guests,
			EventAddress: "Lawn 3, Koregaon Park",
			EventType:    domain.EventTypeCorporate,
			MenuItems:    []string{"Samosa", "Gulab Jamun"},
			CreatedAt:    time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC),
		},
		Client:   &domain.Client{ID: "c1", Name: "Asha Rao", Phone: "9876543210", Email: "asha@example.com"},
		Business: Business{Name: "Spice Route Caterers", Phone: "020 5550 1234"},
	}
}

func TestFileName(t *testing.T) {
	s := testSummary()
	assert.Equal(t, "Asha_Rao_Diwali_Party_0192f1c4-aaaa", FileName(s))

	s.Client = nil
	s.Event.EventName = "../etc/passwd"
	assert.Equal(t, "Unknown_etc_passwd_0192f1c4-aaaa", FileName(s))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := Write(dir, FormatText, testSummary())
	require.NoError(t, err)
	assert.Equal(t, ".txt", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "Spice Route Caterers\n"))
	assert.Contains(t, text, "Asha Rao")
	assert.Contains(t, text, "01 Nov 2024")
	assert.Contains(t, text, "Corporate")
	assert.Contains(t, text, "1. Samosa")
	assert.Contains(t, text, "2. Gulab Jamun")
}

func TestWriteTextWithoutClientOrMenu(t *testing.T) {
	s := testSummary()
	s.Client = nil
	s.Event.MenuItems = nil
	s.Event.Guests = nil

	path, err := Write(t.TempDir(), FormatText, s)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Unknown")
	assert.Contains(t, string(data), "No items")
	assert.NotContains(t, string(data), "Phone:")
}

func TestWritePDF(t *testing.T) {
	path, err := Write(t.TempDir(), FormatPDF, testSummary())
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestWriteRequiresEvent(t *testing.T) {
	_, err := Write(t.TempDir(), FormatPDF, Summary{})
	assert.Error(t, err)
}
