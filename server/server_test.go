package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

const testPassword = "atc2024"

type stubFeed struct {
	snapshot *internal.Snapshot
	err      error
	calls    int
}

func (f *stubFeed) Fetch(_ context.Context) (*internal.Snapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

func newTestServer(t *testing.T, feed internal.FeedSource) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(
		internal.DefaultAirportRegistry(),
		feed,
		internal.NewDepartureStore(),
		internal.NewOperatorSessions(testPassword),
		logger)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return ts
}

func doRequest(t *testing.T, method, url, body, token string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp, decoded
}

func getList(t *testing.T, url string) []map[string]any {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))

	return list
}

func login(t *testing.T, baseURL string) string {
	t.Helper()

	resp, body := doRequest(t, http.MethodPost, baseURL+"/atc/login", `{"password":"`+testPassword+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	token, ok := body["token"].(string)
	require.True(t, ok)

	return token
}

func TestManualDepartureLifecycle(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/departures",
		`{"callsign":"UIA123","departure_time":"2030-01-01T10:00:00"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	departure, ok := body["departure"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UIA123", departure["callsign"])
	assert.InDelta(t, 1, departure["id"], 0)

	list := getList(t, ts.URL+"/api/departures")
	require.Len(t, list, 1)
	assert.Greater(t, list[0]["time_remaining"], 0.0)
	assert.Equal(t, "manual", list[0]["source"])

	resp, body = doRequest(t, http.MethodDelete, ts.URL+"/api/departures/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Len(t, getList(t, ts.URL+"/api/departures"), 1)

	token := login(t, ts.URL)

	resp, body = doRequest(t, http.MethodDelete, ts.URL+"/api/departures/1", "", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, getList(t, ts.URL+"/api/departures"))
}

func TestCreateDepartureValidation(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})

	bodies := []string{
		`{"callsign":"","departure_time":"2030-01-01T10:00:00"}`,
		`{"callsign":"UIA123"}`,
		`{"callsign":"UIA123","departure_time":"not a time"}`,
		`not json`,
	}

	for _, body := range bodies {
		resp, decoded := doRequest(t, http.MethodPost, ts.URL+"/api/departures", body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, false, decoded["success"], body)
		assert.NotEmpty(t, decoded["message"], body)
	}

	assert.Empty(t, getList(t, ts.URL+"/api/departures"))
}

func TestUpdateAndFindDeparture(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/departures",
		`{"callsign":"uia123","departure_time":"2030-01-01T10:00:00Z"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/departures/1",
		`{"callsign":"AUA9","departure_time":"2030-01-01T12:00:00Z"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "another callsign must not move the departure")

	resp, body := doRequest(t, http.MethodPut, ts.URL+"/api/departures/1",
		`{"callsign":"UIA123","departure_time":"2030-01-01T11:00:00Z"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	departure, ok := body["departure"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2030-01-01T11:00:00Z", departure["departure_time"])

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/departures/callsign/UIA123", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UIA123", body["callsign"])

	token := login(t, ts.URL)
	resp, body = doRequest(t, http.MethodPut, ts.URL+"/api/departures/1",
		`{"departure_time":"2030-01-01T13:00:00Z"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "operators may move any departure")
	assert.Equal(t, "2030-01-01T13:00:00Z", body["departure"].(map[string]any)["departure_time"])

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/departures/callsign/NOPE1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/departures/9", `{"departure_time":"2030-01-01T11:00:00Z"}`, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/departures/abc", `{"departure_time":"2030-01-01T11:00:00Z"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSlots(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})
	list := `[{"callsign":"uia1","eobt":"1000","tsat":"1010"},{"callsign":"AUA2","eobt":"1100","ctot":"1130"}]`

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/slots/sync", list, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, ts.URL)
	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/slots/sync", list, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "synced", body["status"])
	assert.InDelta(t, 2, body["count"], 0)

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/slots/UIA1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1000", body["tobt"])
	assert.Equal(t, "1010", body["tsat"])
	assert.Equal(t, "----", body["ctot"])

	resp, body = doRequest(t, http.MethodPut, ts.URL+"/api/slots/uia1/tobt", `{"tobt":"1005"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// A later push keeps the pilot's TOBT.
	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/api/slots/sync",
		`[{"callsign":"UIA1","eobt":"1000","tsat":"1015","ctot":"1040"}]`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/slots/UIA1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1005", body["tobt"])
	assert.Equal(t, "1015", body["tsat"])
	assert.Equal(t, "1040", body["ctot"])

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/slots/AUA2", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/slots/UIA1/tobt", `{"tobt":"25:00"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/api/slots/sync", `{"callsign":"UIA1"}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "the slot list must be an array")
}

func TestLoginLogout(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/atc/login", `{"password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, msgInvalidPassword, body["message"])

	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/atc/login", `{"password":""}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	token := login(t, ts.URL)

	resp, body = doRequest(t, http.MethodPost, ts.URL+"/atc/logout", "", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	doRequest(t, http.MethodPost, ts.URL+"/api/departures", `{"callsign":"UIA1","departure_time":"2030-01-01T10:00"}`, "")

	resp, _ = doRequest(t, http.MethodDelete, ts.URL+"/api/departures/1", "", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked token must not delete")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	ts := newTestServer(t, &stubFeed{snapshot: &internal.Snapshot{}})

	resp, err := http.Post(ts.URL+"/atc/login", "application/json", //nolint:noctx // test
		strings.NewReader(`{"password":"`+testPassword+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var session *http.Cookie

	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie {
			session = cookie
		}
	}

	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
}

func TestAirports(t *testing.T) {
	ts := newTestServer(t, &stubFeed{})

	list := getList(t, ts.URL+"/api/airports")
	require.NotEmpty(t, list)

	for _, airport := range list {
		assert.NotEqual(t, internal.TestAirportCode, airport["code"])
		assert.NotEmpty(t, airport["name"])
	}
}

func TestArrivals(t *testing.T) {
	registry := internal.DefaultAirportRegistry()
	ukbb, err := registry.Lookup("UKBB")
	require.NoError(t, err)

	nmPerDegree := internal.GreatCircleDistance(0, 0, 1, 0)
	inbound := func(callsign string, distance float64) internal.PilotRecord {
		return internal.PilotRecord{
			Callsign:    callsign,
			Latitude:    ukbb.Position.Lat + distance/nmPerDegree,
			Longitude:   ukbb.Position.Long,
			Altitude:    4000,
			Groundspeed: 240,
			FlightPlan:  &internal.FlightPlan{Departure: "EPWA", Arrival: "UKBB", AircraftShort: "A320"},
		}
	}

	feed := &stubFeed{snapshot: &internal.Snapshot{Pilots: []internal.PilotRecord{
		inbound("SECOND", 22),
		inbound("FIRST", 20),
		inbound("THIRD", 40),
	}}}
	ts := newTestServer(t, feed)

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/arrivals/ukbb", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UKBB", body["airport_code"])
	assert.InDelta(t, 3, body["total_count"], 0)

	arrivals, ok := body["arrivals"].([]any)
	require.True(t, ok)
	require.Len(t, arrivals, 3)

	first := arrivals[0].(map[string]any)
	second := arrivals[1].(map[string]any)
	third := arrivals[2].(map[string]any)

	assert.Equal(t, "FIRST", first["callsign"])
	assert.Equal(t, "EPWA", first["departure_code"])
	assert.NotContains(t, first, "departure")
	assert.Equal(t, "A320", first["aircraft_type"])
	assert.Nil(t, first["distance_separation_nm"])
	assert.Equal(t, "ok", first["separation_status"])
	assert.Equal(t, "conflict", second["separation_status"])
	assert.InDelta(t, 2.0, second["distance_separation_nm"], 1e-9)
	assert.Equal(t, "ok", third["separation_status"])
}

func TestArrivalsErrors(t *testing.T) {
	feed := &stubFeed{err: internal.ErrUpstreamUnavailable}
	ts := newTestServer(t, feed)

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/arrivals/EGLL", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, 0, feed.calls, "unknown airports must not hit the feed")

	for _, path := range []string{"/api/arrivals/UKBB", "/api/vatsim-departures/UKBB", "/api/all-departures/UKBB"} {
		resp, body = doRequest(t, http.MethodGet, ts.URL+path, "", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, msgUpstream, body["message"], path)
	}
}

func TestDeparturesForAirport(t *testing.T) {
	registry := internal.DefaultAirportRegistry()
	ukll, err := registry.Lookup("UKLL")
	require.NoError(t, err)

	feed := &stubFeed{snapshot: &internal.Snapshot{
		Pilots: []internal.PilotRecord{{
			Callsign:   "WZZ1",
			Latitude:   ukll.Position.Lat,
			Longitude:  ukll.Position.Long,
			FlightPlan: &internal.FlightPlan{Departure: "UKLL", Arrival: "EPKT", AircraftShort: "A21N"},
		}},
		Prefiles: []internal.PrefileRecord{{
			Callsign:   "LOT2",
			FlightPlan: &internal.FlightPlan{Departure: "UKLL", Arrival: "EPWA"},
		}},
	}}
	ts := newTestServer(t, feed)

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/vatsim-departures/UKLL", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 2, body["total_count"], 0)

	departures := body["departures"].([]any)
	assert.Equal(t, "LOT2", departures[0].(map[string]any)["callsign"])
	assert.Equal(t, "prefile", departures[0].(map[string]any)["source"])
	assert.Equal(t, "ground", departures[1].(map[string]any)["source"])

	doRequest(t, http.MethodPost, ts.URL+"/api/departures", `{"callsign":"UIA123","departure_time":"2030-01-01T10:00"}`, "")

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/all-departures/UKLL", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UKLL", body["airport_code"])
	assert.InDelta(t, 1, body["manual_count"], 0)
	assert.InDelta(t, 2, body["vatsim_count"], 0)
	assert.InDelta(t, 3, body["total_count"], 0)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubFeed{})

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), logger)
	}()

	cancel()
	assert.NoError(t, <-done)
}
