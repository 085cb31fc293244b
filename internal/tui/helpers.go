package tui

import (
	"fmt"
	"strings"
)

// formatRupees formats an amount as "₹X,XX,XXX" using Indian digit grouping
func formatRupees(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%.0f", amount)
	var grouped string
	if len(digits) <= 3 {
		grouped = digits
	} else {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}

	if negative {
		return "-₹" + grouped
	}
	return "₹" + grouped
}

// formatGuests renders an optional guest count
func formatGuests(g *int) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%d pax", *g)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// clampCursor keeps a list cursor inside [0, n)
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func errorLine(err error) string {
	if err == nil {
		return ""
	}
	return errorStyle.Render(fmt.Sprintf("  Error: %v", err)) + "\n\n"
}

func statusLine(msg string) string {
	if msg == "" {
		return ""
	}
	return statusStyle.Render("  "+msg) + "\n\n"
}
