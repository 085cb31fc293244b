package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical stored date format
const Layout = "2006-01-02"

// DisplayLayout is used when rendering dates for people
const DisplayLayout = "02 Jan 2006"

var (
	ymdPattern       = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	dmyPattern       = regexp.MustCompile(`^(\d{1,2})[-/\s](\d{1,2})[-/\s](\d{4})$`)
	dayMonthPattern  = regexp.MustCompile(`^(\d{1,2})\s+([a-z]+)\s+(\d{4})$`)
	monthDayPattern  = regexp.MustCompile(`^([a-z]+)\s+(\d{1,2})\s+(\d{4})$`)
	punctuationStrip = strings.NewReplacer(",", " ", ".", " ")
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// Normalize parses flexible human date input into a canonical YYYY-MM-DD
// string relative to the current local time. The bool is false when no rule
// matched.
func Normalize(input string) (string, bool) {
	return NormalizeAt(input, time.Now())
}

// NormalizeAt is Normalize with an explicit reference time for "today" and
// "tomorrow".
func NormalizeAt(input string, now time.Time) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(punctuationStrip.Replace(input)))
	if s == "" {
		return "", false
	}

	switch s {
	case "today":
		return Format(now), true
	case "tomorrow":
		return Format(now.AddDate(0, 0, 1)), true
	}

	// A numeric layout that matches but names an impossible day is rejected
	// outright rather than handed to the lenient fallback.
	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		return fromParts(m[1], m[2], m[3])
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		return fromParts(m[3], m[2], m[1])
	}

	if m := dayMonthPattern.FindStringSubmatch(s); m != nil {
		if month, found := monthNames[m[2]]; found {
			return fromParts(m[3], strconv.Itoa(int(month)), m[1])
		}
	}

	// Month-first text such as "sept 5 2024"
	if m := monthDayPattern.FindStringSubmatch(s); m != nil {
		if month, found := monthNames[m[1]]; found {
			return fromParts(m[3], strconv.Itoa(int(month)), m[2])
		}
	}

	// Free-form fallback works on the original text so layouts with
	// punctuation (e.g. "March 5, 2024") still parse.
	parsed, err := dateparse.ParseIn(strings.TrimSpace(input), now.Location())
	if err != nil {
		return "", false
	}
	return Format(parsed), true
}

// Valid reports whether y-m-d names a real calendar day. The date is built and
// its components compared back, which rejects day and month overflow.
func Valid(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

// Format renders t as a canonical date
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Parse reads a canonical date in local time
func Parse(canonical string) (time.Time, error) {
	return time.ParseInLocation(Layout, canonical, time.Local)
}

// Display renders an event date for people, falling back to the creation time
// when no explicit date is set. Non-canonical dates are returned unchanged.
func Display(date string, createdAt time.Time) string {
	date = strings.TrimSpace(date)
	if date != "" {
		if t, err := Parse(date); err == nil {
			return t.Format(DisplayLayout)
		}
		return date
	}
	if createdAt.IsZero() {
		return ""
	}
	return createdAt.Local().Format(DisplayLayout)
}

func fromParts(year, month, day string) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	if !Valid(y, m, d) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), true
}
