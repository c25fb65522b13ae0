package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamehubz/matchday/internal/config"
	"github.com/gamehubz/matchday/internal/database"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/hub"
	"github.com/gamehubz/matchday/internal/metrics"
	"github.com/gamehubz/matchday/internal/notifier"
	"github.com/gamehubz/matchday/internal/processor"
	"github.com/gamehubz/matchday/internal/pubsub"
	"github.com/gamehubz/matchday/internal/schedule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, gamehubzClient gamehubz.Client, notifier notifier.Notifier) (*Server, func()) {
	t.Helper()

	// For handlers that use the store, we need a real db connection for now.
	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	hubStore := hub.New(db)
	cfg := config.Config{
		GameHubz: config.GameHubzConfig{
			UserID:       "user-1",
			TournamentID: "tour-1",
		},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock("TEST")
	proc := processor.New(hubStore, notifier, metricsSvc, ps)
	server := NewServer(hubStore, metricsSvc, metricsHandler, cfg, gamehubzClient, notifier, proc, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, teardown
}

func postJSON(t *testing.T, server *Server, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	// Use the server's router to serve the request, which is more robust.
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestFetchMatchesHandler(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.GetTournamentMatchesFunc = func(tournamentID, userID string) ([]gamehubz.Match, error) {
		assert.Equal(t, "tour-1", tournamentID)
		assert.Equal(t, "user-1", userID)
		return []gamehubz.Match{
			{MatchID: "m1", TournamentID: tournamentID, Status: gamehubz.MatchStatusPendingAvailability},
			{MatchID: "m2", TournamentID: tournamentID, Status: gamehubz.MatchStatusScheduled},
		}, nil
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/matches/fetch", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFetchMatchesHandler_DryRun(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.GetTournamentMatchesFunc = func(tournamentID, userID string) ([]gamehubz.Match, error) {
		return []gamehubz.Match{{MatchID: "m1"}}, nil
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/matches/fetch?dry_run=true", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAvailabilityHandler(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.GetAvailabilityFunc = func(matchID, userID string) (gamehubz.Availability, error) {
		return gamehubz.Availability{
			MySlots:       []string{"2024-01-23T14:00:00", "2024-01-23T16:00:00"},
			OpponentSlots: []string{"2024-01-23T16:00:00"},
		}, nil
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/availability?matchID=m1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp availabilityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "m1", resp.MatchID)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, schedule.GridStateEditing, resp.State)
	assert.Len(t, resp.Days, 5)
	assert.Equal(t, []int{10, 12, 14, 16, 18, 20, 22}, resp.Hours)
	assert.Equal(t, []schedule.SlotKey{"2024-01-23-14", "2024-01-23-16"}, resp.Mine)
	assert.Equal(t, []schedule.SlotKey{"2024-01-23-16"}, resp.Overlap)

	// Second request must come from the store, not the API.
	rr2 := httptest.NewRecorder()
	server.Router.ServeHTTP(rr2, req)
	require.Equal(t, http.StatusOK, rr2.Code)
	assert.Len(t, client.GetAvailabilityCalls, 1)
}

func TestAvailabilityHandler_MissingMatchID(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/availability", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToggleAvailabilityHandler(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	grid := schedule.NewGrid("m1", "user-1")
	require.NoError(t, server.Store.SaveGrid(grid))

	rr := postJSON(t, server, "/availability/toggle", map[string]any{
		"matchId": "m1",
		"day":     "2024-01-23",
		"hour":    14,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Selected bool               `json:"selected"`
		Mine     []schedule.SlotKey `json:"mine"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Selected)
	assert.Equal(t, []schedule.SlotKey{"2024-01-23-14"}, resp.Mine)

	// Toggling again deselects and persists.
	rr = postJSON(t, server, "/availability/toggle", map[string]any{
		"matchId": "m1",
		"day":     "2024-01-23",
		"hour":    14,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Selected)
	assert.Empty(t, resp.Mine)
}

func TestToggleAvailabilityHandler_InvalidHour(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/availability/toggle", map[string]any{
		"matchId": "m1",
		"day":     "2024-01-23",
		"hour":    13,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToggleAvailabilityHandler_AlreadySubmitted(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	grid := schedule.NewGrid("m1", "user-1")
	grid.Toggle("2024-01-23", 14)
	grid.MarkSubmitted()
	require.NoError(t, server.Store.SaveGrid(grid))

	rr := postJSON(t, server, "/availability/toggle", map[string]any{
		"matchId": "m1",
		"day":     "2024-01-23",
		"hour":    16,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSubmitAvailabilityHandler(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.SubmitAvailabilityFunc = func(matchID string, isoSlots []string) (gamehubz.SubmissionAck, error) {
		assert.Equal(t, []string{"2024-01-23T14:00:00", "2024-01-23T16:00:00"}, isoSlots)
		return gamehubz.SubmissionAck{ConfirmedTime: "2024-01-24T18:00:00"}, nil
	}
	client.GetMatchFunc = func(matchID string) (gamehubz.Match, error) {
		return gamehubz.Match{
			MatchID:       matchID,
			Status:        gamehubz.MatchStatusScheduled,
			ConfirmedTime: "2024-01-24T18:00:00",
		}, nil
	}
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, client, mockNotifier)
	defer teardown()

	grid := schedule.NewGrid("m1", "user-1")
	grid.Toggle("2024-01-23", 14)
	grid.Toggle("2024-01-23", 16)
	require.NoError(t, server.Store.SaveGrid(grid))

	rr := postJSON(t, server, "/availability/submit", map[string]any{"matchId": "m1"})
	require.Equal(t, http.StatusOK, rr.Code)

	var outcome schedule.Outcome
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &outcome))
	assert.Equal(t, schedule.OutcomeScheduled, outcome.Status)
	assert.Equal(t, "2024-01-24T18:00:00", outcome.ConfirmedTime)

	// The grid is now read-only and the scheduled match was pulled in.
	saved, err := server.Store.GetGrid("m1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, schedule.GridStateSubmitted, saved.State())

	match, err := server.Store.GetMatch("m1")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, gamehubz.MatchStatusScheduled, match.Status)

	require.Len(t, mockNotifier.SendSubmittedNotificationCalls, 1)
	assert.Equal(t, 2, mockNotifier.SendSubmittedNotificationCalls[0].SlotCount)
}

func TestSubmitAvailabilityHandler_EmptyGrid(t *testing.T) {
	client := gamehubz.NewMockClient()
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	grid := schedule.NewGrid("m1", "user-1")
	require.NoError(t, server.Store.SaveGrid(grid))

	rr := postJSON(t, server, "/availability/submit", map[string]any{"matchId": "m1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, client.SubmitAvailabilityCalls, "no network call for an empty slot set")
}

func TestSubmitAvailabilityHandler_TransportFailure(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.SubmitAvailabilityFunc = func(matchID string, isoSlots []string) (gamehubz.SubmissionAck, error) {
		return gamehubz.SubmissionAck{}, fmt.Errorf("connection refused")
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	grid := schedule.NewGrid("m1", "user-1")
	grid.Toggle("2024-01-23", 14)
	require.NoError(t, server.Store.SaveGrid(grid))

	rr := postJSON(t, server, "/availability/submit", map[string]any{"matchId": "m1"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	// Failure keeps the grid editable so the user can retry.
	saved, err := server.Store.GetGrid("m1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, schedule.GridStateEditing, saved.State())
}

func TestReportResultHandler(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.GetMatchFunc = func(matchID string) (gamehubz.Match, error) {
		home, away := 3, 1
		return gamehubz.Match{
			MatchID:   matchID,
			Status:    gamehubz.MatchStatusCompleted,
			HomeScore: &home,
			AwayScore: &away,
		}, nil
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/report-result", map[string]any{
		"matchId":   "m1",
		"homeScore": "3",
		"awayScore": "1",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, client.ReportResultCalls, 1)
	report := client.ReportResultCalls[0]
	assert.Equal(t, "m1", report.MatchID)
	assert.Equal(t, "tour-1", report.TournamentID, "tournament falls back to the configured one")
	assert.Equal(t, "3", report.HomeScore)
	assert.Equal(t, "1", report.AwayScore)

	match, err := server.Store.GetMatch("m1")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, gamehubz.MatchStatusCompleted, match.Status)
}

func TestReportResultHandler_MissingScore(t *testing.T) {
	client := gamehubz.NewMockClient()
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/report-result", map[string]any{
		"matchId":   "m1",
		"homeScore": "3",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please enter scores for both players")
	assert.Empty(t, client.ReportResultCalls, "no network call with a missing score")
}

func TestReportResultHandler_BackendRejection(t *testing.T) {
	client := gamehubz.NewMockClient()
	client.ReportResultFunc = func(report gamehubz.ResultReport) error {
		return fmt.Errorf("result already reported for this match")
	}
	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/report-result", map[string]any{
		"matchId":   "m1",
		"homeScore": "3",
		"awayScore": "1",
	})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "result already reported for this match")
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, gamehubz.NewMockClient(), notifier.NewMock())
	defer teardown()

	require.NoError(t, server.Store.UpsertMatch(&gamehubz.Match{MatchID: "m1"}))

	req, err := http.NewRequest("GET", "/clear", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}
