package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAt(t *testing.T) {
	now := time.Date(2024, time.December, 31, 18, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"today", "today", "2024-12-31", true},
		{"today mixed case", "  ToDay ", "2024-12-31", true},
		{"tomorrow rolls year", "Tomorrow", "2025-01-01", true},
		{"iso", "2024-03-01", "2024-03-01", true},
		{"iso slashes unpadded", "2024/3/1", "2024-03-01", true},
		{"iso leap day", "2024-02-29", "2024-02-29", true},
		{"iso invalid day", "2024-02-30", "", false},
		{"iso non-leap", "2023-02-29", "", false},
		{"iso month 13", "2024-13-01", "", false},
		{"dmy dashes", "01-03-2024", "2024-03-01", true},
		{"dmy slashes", "5/3/2024", "2024-03-05", true},
		{"dmy spaces", "05 03 2024", "2024-03-05", true},
		{"dmy invalid", "30-02-2024", "", false},
		{"day month name", "5 March 2024", "2024-03-05", true},
		{"day month abbrev", "5 mar 2024", "2024-03-05", true},
		{"sept", "12 sept 2024", "2024-09-12", true},
		{"month first sept", "Sept 5, 2024", "2024-09-05", true},
		{"month first full name", "november 1 2024", "2024-11-01", true},
		{"month first abbreviation", "Dec. 25, 2024", "2024-12-25", true},
		{"month first impossible day", "sept 31 2024", "", false},
		{"may", "1 May 2025", "2025-05-01", true},
		{"month name invalid day", "31 april 2024", "", false},
		{"trailing comma", "5 March, 2024", "2024-03-05", true},
		{"fallback long form", "March 5, 2024", "2024-03-05", true},
		{"empty", "   ", "", false},
		{"garbage", "next full moon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAt(tt.input, now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	now := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local)
	inputs := []string{
		"today", "tomorrow", "2024-3-9", "09/03/2024", "9 Sep 2024",
		"1 january 2000", "March 5, 2024", "2024/12/31",
	}

	for _, in := range inputs {
		first, ok := NormalizeAt(in, now)
		require.True(t, ok, in)
		second, ok := NormalizeAt(first, now)
		require.True(t, ok, first)
		assert.Equal(t, first, second, in)
	}
}

func TestNormalizeToday(t *testing.T) {
	got, ok := Normalize("today")
	require.True(t, ok)
	assert.Equal(t, time.Now().Format(Layout), got)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(2000, 2, 29))
	assert.False(t, Valid(1900, 2, 29))
	assert.False(t, Valid(2024, 4, 31))
	assert.False(t, Valid(2024, 0, 10))
	assert.False(t, Valid(2024, 1, 0))
}

func TestDisplay(t *testing.T) {
	created := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "05 Mar 2024", Display("2024-03-05", created))
	assert.Equal(t, "02 Jan 2024", Display("", created))
	assert.Equal(t, "sometime soon", Display("sometime soon", created))
	assert.Equal(t, "", Display("", time.Time{}))
}
