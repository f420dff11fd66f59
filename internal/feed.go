package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/skypies/geo"
)

const (
	// DefaultFeedURL is the public VATSIM v3 data feed.
	DefaultFeedURL = "https://data.vatsim.net/v3/vatsim-data.json"
	// DefaultFeedTimeout bounds a single feed fetch.
	DefaultFeedTimeout = 10 * time.Second
	// aircraftTypeUnknown is what we use for flight plans without an aircraft type.
	aircraftTypeUnknown = "ZZZZ"
)

var (
	ErrNonOkResponse     = errors.New("non-OK response")
	ErrEmptyResponseBody = errors.New("empty response body")
	ErrNonJSONContent    = errors.New("non-JSON content type")
)

// See https://vatsim.dev/api/data-api/get-network-data
// for further explanations of the fields. Only the fields we use are mirrored.

// FlightPlan is the filed intent of a flight. Absent fields decode to their zero value.
type FlightPlan struct {
	Departure     string `json:"departure"`      // departure aerodrome code
	Arrival       string `json:"arrival"`        // arrival aerodrome code
	AircraftShort string `json:"aircraft_short"` // ICAO aircraft type designator
	Route         string `json:"route"`          // filed route
	Altitude      string `json:"altitude"`       // filed cruise altitude, free form
	Remarks       string `json:"remarks"`        // free form remarks
}

// AircraftType returns the filed aircraft type or the ZZZZ sentinel.
func (fp *FlightPlan) AircraftType() string {
	if fp == nil || strings.TrimSpace(fp.AircraftShort) == "" {
		return aircraftTypeUnknown
	}

	return strings.TrimSpace(fp.AircraftShort)
}

// DepartureCode returns the departure aerodrome, or "" for a missing flight plan.
func (fp *FlightPlan) DepartureCode() string {
	if fp == nil {
		return ""
	}

	return strings.ToUpper(strings.TrimSpace(fp.Departure))
}

// ArrivalCode returns the arrival aerodrome, or "" for a missing flight plan.
func (fp *FlightPlan) ArrivalCode() string {
	if fp == nil {
		return ""
	}

	return strings.ToUpper(strings.TrimSpace(fp.Arrival))
}

// PilotRecord is one connected aircraft of a feed snapshot.
type PilotRecord struct {
	Callsign    string      `json:"callsign"`
	Latitude    float64     `json:"latitude"`    // in [decimal degrees]
	Longitude   float64     `json:"longitude"`   // in [decimal degrees]
	Altitude    int         `json:"altitude"`    // in [feet]
	Groundspeed int         `json:"groundspeed"` // in [knots]
	FlightPlan  *FlightPlan `json:"flight_plan"` // nil when nothing is filed
}

// Position returns the reported position.
func (p *PilotRecord) Position() geo.Latlong {
	return geo.Latlong{Lat: p.Latitude, Long: p.Longitude}
}

// PrefileRecord is a flight plan filed for a flight that is not connected yet.
type PrefileRecord struct {
	Callsign   string      `json:"callsign"`
	FlightPlan *FlightPlan `json:"flight_plan"`
}

// Snapshot is one fetch of the live feed. It is consumed by a single request and never cached.
type Snapshot struct {
	Pilots   []PilotRecord   `json:"pilots"`
	Prefiles []PrefileRecord `json:"prefiles"`
}

// FeedSource yields live-feed snapshots.
type FeedSource interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// FeedClient fetches snapshots over HTTP. Every call is a fresh request; failures are not retried.
type FeedClient struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFeedClient creates a client for the given feed URL.
func NewFeedClient(url string, timeout time.Duration, logger *slog.Logger) *FeedClient {
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &FeedClient{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{}, //nolint:exhaustruct // the deadline comes from the context
		logger:     logger,
	}
}

// Fetch retrieves and decodes one snapshot. Any failure is reported as ErrUpstreamUnavailable.
func (c *FeedClient) Fetch(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	body, requestErr := sendRequest(ctx, c.httpClient, c.url)
	if requestErr != nil {
		c.logger.Warn("feed fetch failed", slog.String("url", c.url), slog.Any("error", requestErr))
		return nil, fmt.Errorf("fetch: %w: %w", ErrUpstreamUnavailable, requestErr)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		c.logger.Warn("feed decode failed", slog.String("url", c.url), slog.Any("error", err))
		return nil, fmt.Errorf("fetch: %w: failed to unmarshal snapshot: %w", ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("feed fetched",
		slog.Int("pilots", len(snapshot.Pilots)),
		slog.Int("prefiles", len(snapshot.Prefiles)),
		slog.Duration("elapsed", time.Since(start)))

	return &snapshot, nil
}

// sendRequest sends an HTTP GET request and returns a valid byte slice of the response body.
func sendRequest(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("sendRequest: invalid request error: %s : %w", url, reqErr)
	}

	resp, respErr := client.Do(req)
	if respErr != nil {
		return nil, fmt.Errorf("sendRequest: failed to send GET request: %s: %w", url, respErr)
	}
	defer resp.Body.Close()

	// Check if the request was successful (status code 200 OK)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sendRequest: %w %s", ErrNonOkResponse, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, fmt.Errorf("sendRequest: %w, %s", ErrNonJSONContent, contentType)
	}

	// Read the response body
	body, bodyErr := io.ReadAll(resp.Body)
	if bodyErr != nil {
		return nil, fmt.Errorf("sendRequest: failed to read response body: %w", bodyErr)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("sendRequest: %w", ErrEmptyResponseBody)
	}

	return body, nil
}
