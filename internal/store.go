package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// departureTimeLayouts are the accepted ISO-8601 forms. Layouts without a zone are read in
// local time.
var departureTimeLayouts = []string{ //nolint:gochecknoglobals // constant table
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
}

// ManualDeparture is a departure filed through this service.
type ManualDeparture struct {
	ID            int
	Callsign      string
	DepartureTime time.Time
	FiledAt       time.Time
}

// ManualDepartureView is a manual departure with its countdown computed at read time.
type ManualDepartureView struct {
	ID            int             `json:"id"`
	Callsign      string          `json:"callsign"`
	DepartureTime string          `json:"departure_time"`
	TimeRemaining float64         `json:"time_remaining"` // in [seconds], never negative
	FiledAt       string          `json:"filed_at"`
	Source        DepartureSource `json:"source"`
}

// View computes the countdown relative to now.
func (d ManualDeparture) View(now time.Time) ManualDepartureView {
	return ManualDepartureView{
		ID:            d.ID,
		Callsign:      d.Callsign,
		DepartureTime: d.DepartureTime.Format(time.RFC3339),
		TimeRemaining: max(0, d.DepartureTime.Sub(now).Seconds()),
		FiledAt:       d.FiledAt.Format(time.RFC3339),
		Source:        SourceManual,
	}
}

// DepartureStore is the process-wide table of manual departures. All operations are atomic.
// Ids come from a dedicated counter and are never reused.
type DepartureStore struct {
	mu         sync.Mutex
	lastID     int
	departures []ManualDeparture
	slots      []SlotRecord
}

// NewDepartureStore creates an empty store.
func NewDepartureStore() *DepartureStore {
	return &DepartureStore{}
}

// Create validates and files a departure.
func (s *DepartureStore) Create(callsign, departureTime string, now time.Time) (ManualDeparture, error) {
	normalized := NormalizeCallsign(callsign)
	if normalized == "" || departureTime == "" {
		return ManualDeparture{}, fmt.Errorf("callsign and departure time are required: %w", ErrValidation)
	}

	parsed, err := ParseDepartureTime(departureTime)
	if err != nil {
		return ManualDeparture{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	departure := ManualDeparture{
		ID:            s.lastID,
		Callsign:      normalized,
		DepartureTime: parsed,
		FiledAt:       now,
	}
	s.departures = append(s.departures, departure)

	return departure, nil
}

// List returns every departure in filing order.
func (s *DepartureStore) List(now time.Time) []ManualDepartureView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ManualDepartureView, 0, len(s.departures))
	for _, departure := range s.departures {
		views = append(views, departure.View(now))
	}

	return views
}

// Delete removes a departure. The operator capability must be present in ctx. Deleting an
// id that does not exist succeeds.
func (s *DepartureStore) Delete(ctx context.Context, id int) error {
	if !IsOperator(ctx) {
		return fmt.Errorf("delete departure %d: %w", id, ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.departures[:0]
	for _, departure := range s.departures {
		if departure.ID != id {
			kept = append(kept, departure)
		}
	}
	s.departures = kept

	return nil
}

// UpdateDepartureTime revises the target departure time of a filed departure. Without the
// operator capability in ctx the caller must name the callsign the departure was filed under.
func (s *DepartureStore) UpdateDepartureTime(ctx context.Context, id int, callsign, departureTime string) (ManualDeparture, error) {
	parsed, err := ParseDepartureTime(departureTime)
	if err != nil {
		return ManualDeparture{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.departures {
		if s.departures[i].ID != id {
			continue
		}

		if !IsOperator(ctx) && NormalizeCallsign(callsign) != s.departures[i].Callsign {
			return ManualDeparture{}, fmt.Errorf("update departure %d: callsign mismatch: %w", id, ErrUnauthorized)
		}

		s.departures[i].DepartureTime = parsed

		return s.departures[i], nil
	}

	return ManualDeparture{}, fmt.Errorf("departure %d: %w", id, ErrNotFound)
}

// FindByCallsign returns the most recently filed departure for callsign.
func (s *DepartureStore) FindByCallsign(callsign string, now time.Time) (ManualDepartureView, error) {
	normalized := NormalizeCallsign(callsign)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.departures) - 1; i >= 0; i-- {
		if s.departures[i].Callsign == normalized {
			return s.departures[i].View(now), nil
		}
	}

	return ManualDepartureView{}, fmt.Errorf("departure for %q: %w", normalized, ErrNotFound)
}

// Len returns the number of filed departures.
func (s *DepartureStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.departures)
}

// NormalizeCallsign trims and upper-cases a callsign.
func NormalizeCallsign(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}

// ParseDepartureTime accepts RFC 3339 and the zone-less ISO-8601 forms.
func ParseDepartureTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("departure time is required: %w", ErrValidation)
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	for _, layout := range departureTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid datetime format %q: %w", value, ErrValidation)
}
