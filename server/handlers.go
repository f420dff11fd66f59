package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

type departureRequest struct {
	Callsign      string `json:"callsign"`
	DepartureTime string `json:"departure_time"`
}

type tobtRequest struct {
	TOBT string `json:"tobt"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type arrivalsResponse struct {
	AirportCode string                 `json:"airport_code"`
	AirportName string                 `json:"airport_name"`
	Arrivals    []internal.ArrivalView `json:"arrivals"`
	TotalCount  int                    `json:"total_count"`
}

type vatsimDeparturesResponse struct {
	AirportCode string                   `json:"airport_code"`
	AirportName string                   `json:"airport_name"`
	Departures  []internal.DepartureView `json:"departures"`
	TotalCount  int                      `json:"total_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, fmt.Errorf("malformed login body: %w", internal.ErrValidation))
		return
	}

	token, err := s.sessions.Login(req.Password)
	if err != nil {
		if errors.Is(err, internal.ErrUnauthorized) {
			s.logger.Warn("operator login rejected", "remote", r.RemoteAddr)
			respondJSON(w, s.logger, http.StatusUnauthorized,
				errorResponse{Success: false, Message: msgInvalidPassword})

			return
		}

		respondError(w, s.logger, err)

		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct // session cookie
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("operator logged in", "remote", r.RemoteAddr)
	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(sessionToken(r))

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct // expiring cookie
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListDepartures(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, s.store.List(s.now()))
}

func (s *Server) handleCreateDeparture(w http.ResponseWriter, r *http.Request) {
	var req departureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, fmt.Errorf("malformed departure body: %w", internal.ErrValidation))
		return
	}

	now := s.now()

	departure, err := s.store.Create(req.Callsign, req.DepartureTime, now)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	s.logger.Info("departure filed", "id", departure.ID, "callsign", departure.Callsign)
	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true, "departure": departure.View(now)})
}

func (s *Server) handleFindDeparture(w http.ResponseWriter, r *http.Request) {
	departure, err := s.store.FindByCallsign(chi.URLParam(r, "callsign"), s.now())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, departure)
}

func (s *Server) handleUpdateDeparture(w http.ResponseWriter, r *http.Request) {
	id, err := departureID(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	var req departureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, fmt.Errorf("malformed departure body: %w", internal.ErrValidation))
		return
	}

	departure, err := s.store.UpdateDepartureTime(r.Context(), id, req.Callsign, req.DepartureTime)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true, "departure": departure.View(s.now())})
}

func (s *Server) handleDeleteDeparture(w http.ResponseWriter, r *http.Request) {
	id, err := departureID(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		respondError(w, s.logger, err)
		return
	}

	s.logger.Info("departure deleted", "id", id)
	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAirports(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, s.registry.Public())
}

func (s *Server) handleArrivals(w http.ResponseWriter, r *http.Request) {
	airport, snapshot, err := s.airportSnapshot(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	arrivals, err := internal.CorrelateArrivals(snapshot, airport)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	internal.ApplySeparation(arrivals)

	respondJSON(w, s.logger, http.StatusOK, arrivalsResponse{
		AirportCode: airport.Code,
		AirportName: airport.Name,
		Arrivals:    arrivals,
		TotalCount:  len(arrivals),
	})
}

func (s *Server) handleVatsimDepartures(w http.ResponseWriter, r *http.Request) {
	airport, snapshot, err := s.airportSnapshot(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	departures, err := internal.DetectGroundDepartures(snapshot, airport)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, vatsimDeparturesResponse{
		AirportCode: airport.Code,
		AirportName: airport.Name,
		Departures:  departures,
		TotalCount:  len(departures),
	})
}

func (s *Server) handleAllDepartures(w http.ResponseWriter, r *http.Request) {
	airport, snapshot, err := s.airportSnapshot(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	report, err := internal.AggregateDepartures(s.store, snapshot, airport, s.now())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, report)
}

// airportSnapshot resolves the airport path parameter before fetching, so unknown codes never
// cost a feed request.
func (s *Server) airportSnapshot(r *http.Request) (internal.Airport, *internal.Snapshot, error) {
	airport, err := s.registry.Lookup(chi.URLParam(r, "airportCode"))
	if err != nil {
		return internal.Airport{}, nil, err
	}

	snapshot, err := s.feed.Fetch(r.Context())
	if err != nil {
		return internal.Airport{}, nil, err
	}

	return airport, snapshot, nil
}

func departureID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("departure id %q: %w", raw, internal.ErrValidation)
	}

	return id, nil
}

func (s *Server) handleSyncSlots(w http.ResponseWriter, r *http.Request) {
	var records []internal.SlotRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		respondError(w, s.logger, fmt.Errorf("malformed slot list: %w", internal.ErrValidation))
		return
	}

	count, err := s.store.SyncSlots(r.Context(), records)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	s.logger.Info("slots synced", "count", count)
	respondJSON(w, s.logger, http.StatusOK, map[string]any{"status": "synced", "count": count})
}

func (s *Server) handleUpdateTOBT(w http.ResponseWriter, r *http.Request) {
	var req tobtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, fmt.Errorf("malformed TOBT body: %w", internal.ErrValidation))
		return
	}

	slot, err := s.store.UpdateTOBT(chi.URLParam(r, "callsign"), req.TOBT)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, map[string]any{"success": true, "slot": slot})
}

func (s *Server) handleFindSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := s.store.SlotByCallsign(chi.URLParam(r, "callsign"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, s.logger, http.StatusOK, slot)
}
