package internal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// slotPlaceholder is shown for slot times the controller client has not assigned.
const slotPlaceholder = "----"

// tobtLayout is the HHMM form slot times are exchanged in.
const tobtLayout = "1504"

// SlotRecord is one flight of the slot list pushed by the controller client. Times are HHMM
// strings in UTC.
type SlotRecord struct {
	Callsign   string `json:"callsign"`
	EOBT       string `json:"eobt,omitempty"`
	TSAT       string `json:"tsat,omitempty"`
	CTOT       string `json:"ctot,omitempty"`
	ManualTOBT string `json:"manual_tobt,omitempty"`
}

// SlotView is what a pilot sees for their flight.
type SlotView struct {
	Callsign string `json:"callsign"`
	TOBT     string `json:"tobt"`
	TSAT     string `json:"tsat"`
	CTOT     string `json:"ctot"`
}

// View resolves the displayed times. A pilot-entered TOBT wins over the filed EOBT.
func (r SlotRecord) View() SlotView {
	return SlotView{
		Callsign: r.Callsign,
		TOBT:     orPlaceholder(r.ManualTOBT, r.EOBT),
		TSAT:     orPlaceholder(r.TSAT),
		CTOT:     orPlaceholder(r.CTOT),
	}
}

func orPlaceholder(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return slotPlaceholder
}

// SyncSlots replaces the slot list wholesale. A TOBT the pilot entered earlier survives the
// sync when the callsign is still present. The operator capability must be present in ctx.
func (s *DepartureStore) SyncSlots(ctx context.Context, records []SlotRecord) (int, error) {
	if !IsOperator(ctx) {
		return 0, fmt.Errorf("sync slots: %w", ErrUnauthorized)
	}

	merged := make([]SlotRecord, 0, len(records))
	for i, record := range records {
		record.Callsign = NormalizeCallsign(record.Callsign)
		if record.Callsign == "" {
			return 0, fmt.Errorf("slot %d has no callsign: %w", i, ErrValidation)
		}

		merged = append(merged, record)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range merged {
		if existing, ok := s.slotLocked(merged[i].Callsign); ok && existing.ManualTOBT != "" {
			merged[i].ManualTOBT = existing.ManualTOBT
		}
	}
	s.slots = merged

	return len(merged), nil
}

// UpdateTOBT records the pilot's target off-block time. tobt is HHMM.
func (s *DepartureStore) UpdateTOBT(callsign, tobt string) (SlotView, error) {
	normalized := NormalizeCallsign(callsign)
	tobt = strings.TrimSpace(tobt)

	if _, err := time.Parse(tobtLayout, tobt); err != nil || len(tobt) != len(tobtLayout) {
		return SlotView{}, fmt.Errorf("invalid TOBT %q, want HHMM: %w", tobt, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.slots {
		if s.slots[i].Callsign == normalized {
			s.slots[i].ManualTOBT = tobt
			return s.slots[i].View(), nil
		}
	}

	return SlotView{}, fmt.Errorf("slot for %q: %w", normalized, ErrNotFound)
}

// SlotByCallsign looks up the slot of one flight.
func (s *DepartureStore) SlotByCallsign(callsign string) (SlotView, error) {
	normalized := NormalizeCallsign(callsign)

	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.slotLocked(normalized); ok {
		return record.View(), nil
	}

	return SlotView{}, fmt.Errorf("slot for %q: %w", normalized, ErrNotFound)
}

func (s *DepartureStore) slotLocked(callsign string) (SlotRecord, bool) {
	for _, record := range s.slots {
		if record.Callsign == callsign {
			return record, true
		}
	}

	return SlotRecord{}, false
}
