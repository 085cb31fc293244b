package service

import (
	"context"
	"sort"
	"time"

	"github.com/andy/caterbook/internal/dates"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/repository"
)

// upcomingWindow is how far ahead the overview looks for upcoming events
const upcomingWindow = 30 * 24 * time.Hour

// Overview provides dashboard analytics
type Overview struct {
	TotalClients int
	VIPClients   int
	TotalEvents  int
	ByType       map[domain.EventType]int
	Upcoming     []EventWithClient // Dated events from today within the window, soonest first
	UpcomingPax  int               // Guests across upcoming events
}

// ReportService provides aggregations over clients and events
type ReportService interface {
	GetOverview(ctx context.Context, now time.Time) (*Overview, error)
	GetEventsByMonth(ctx context.Context, year int) (map[time.Month]int, error)
}

type reportService struct {
	clientRepo repository.ClientRepository
	eventRepo  repository.EventRepository
}

// NewReportService creates a new report service
func NewReportService(
	clientRepo repository.ClientRepository,
	eventRepo repository.EventRepository,
) ReportService {
	return &reportService{
		clientRepo: clientRepo,
		eventRepo:  eventRepo,
	}
}

// eventDay returns the day an event takes place, falling back to the day it
// was booked
func eventDay(e *domain.Event) time.Time {
	if t, err := dates.Parse(e.Date); err == nil {
		return t
	}
	return e.CreatedAt.Local()
}

func (s *reportService) GetOverview(ctx context.Context, now time.Time) (*Overview, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalClients: len(clients),
		TotalEvents:  len(events),
		ByType:       make(map[domain.EventType]int),
	}

	byID := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
		if c.IsVIP {
			overview.VIPClients++
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := today.Add(upcomingWindow)

	for _, e := range events {
		overview.ByType[e.EventType]++

		// Only events with a real date count as upcoming
		if e.Date == "" {
			continue
		}
		day, err := dates.Parse(e.Date)
		if err != nil || day.Before(today) || day.After(until) {
			continue
		}
		overview.Upcoming = append(overview.Upcoming, EventWithClient{Event: e, Client: byID[e.ClientID]})
		if e.Guests != nil {
			overview.UpcomingPax += *e.Guests
		}
	}

	sort.SliceStable(overview.Upcoming, func(i, j int) bool {
		return overview.Upcoming[i].Event.Date < overview.Upcoming[j].Event.Date
	})

	return overview, nil
}

func (s *reportService) GetEventsByMonth(ctx context.Context, year int) (map[time.Month]int, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Month]int)

	// Initialize all months to 0
	for m := time.January; m <= time.December; m++ {
		counts[m] = 0
	}

	for _, e := range events {
		day := eventDay(e)
		if day.Year() == year {
			counts[day.Month()]++
		}
	}

	return counts, nil
}
