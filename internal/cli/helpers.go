package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/domain"
)

// shortIDLen is how much of an ID list output shows
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// matchID finds the single id equal to or prefixed by ref
func matchID(ref string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no record matches %q", ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
}

// resolveClient resolves a client by ID, ID prefix, or exact name
func resolveClient(ctx context.Context, ref string) (*domain.Client, error) {
	clients, err := appInstance.ClientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	if id, err := matchID(ref, ids); err == nil {
		return appInstance.ClientRepo.GetByID(ctx, id)
	}

	// Try to find by name
	for _, c := range clients {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("client '%s' not found", ref)
}

// resolveEventID resolves an event by ID or ID prefix
func resolveEventID(ctx context.Context, ref string) (string, error) {
	events, err := appInstance.EventRepo.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return matchID(ref, ids)
}

func guestsString(g *int) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprint(*g)
}
