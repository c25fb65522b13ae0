package hub_test

import (
	"database/sql"
	"testing"

	"github.com/gamehubz/matchday/internal/database"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/hub"
	"github.com/gamehubz/matchday/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (hub.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := hub.New(db)
	return store, db, dbTeardown
}

func testMatch(id string) *gamehubz.Match {
	return &gamehubz.Match{
		MatchID:      id,
		TournamentID: "tourn-1",
		HomePlayer:   gamehubz.Participant{UserID: "u1", Name: "Player One"},
		AwayPlayer:   gamehubz.Participant{UserID: "u2", Name: "Player Two"},
		Status:       gamehubz.MatchStatusPendingAvailability,
	}
}

func TestUpsertMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	match := testMatch("match1")
	require.NoError(t, store.UpsertMatch(match))

	matches, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "match1", matches[0].MatchID)
	assert.Equal(t, gamehubz.StatusNew, matches[0].ProcessingStatus)

	// A re-upsert updates server fields but never the processing status.
	require.NoError(t, store.UpdateProcessingStatus("match1", gamehubz.StatusScheduleNotified))
	match.Status = gamehubz.MatchStatusScheduled
	match.ConfirmedTime = "2024-01-24T18:00:00"
	require.NoError(t, store.UpsertMatch(match))

	matches, err = store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, gamehubz.MatchStatusScheduled, matches[0].Status)
	assert.Equal(t, "2024-01-24T18:00:00", matches[0].ConfirmedTime)
	assert.Equal(t, gamehubz.StatusScheduleNotified, matches[0].ProcessingStatus)
}

func TestGetMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	match, err := store.GetMatch("missing")
	require.NoError(t, err)
	assert.Nil(t, match, "untracked match returns nil, not an error")

	require.NoError(t, store.UpsertMatch(testMatch("match1")))
	match, err = store.GetMatch("match1")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Player One", match.HomePlayer.Name)
}

func TestGetMatchesForProcessing_SkipsCompleted(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertMatch(testMatch("m1")))
	require.NoError(t, store.UpsertMatch(testMatch("m2")))
	require.NoError(t, store.UpdateProcessingStatus("m1", gamehubz.StatusCompleted))

	matches, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m2", matches[0].MatchID)
}

func TestMatchScoresRoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	home, away := 2, 3
	match := testMatch("m1")
	match.Status = gamehubz.MatchStatusCompleted
	match.HomeScore = &home
	match.AwayScore = &away
	require.NoError(t, store.UpsertMatch(match))

	got, err := store.GetMatch("m1")
	require.NoError(t, err)
	require.NotNil(t, got.HomeScore)
	require.NotNil(t, got.AwayScore)
	assert.Equal(t, 2, *got.HomeScore)
	assert.Equal(t, 3, *got.AwayScore)
}

func TestSaveAndGetGrid(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	grid, err := store.GetGrid("m1", "u1")
	require.NoError(t, err)
	assert.Nil(t, grid, "no grid saved yet")

	g := schedule.NewGrid("m1", "u1")
	g.Toggle("2024-01-23", 14)
	g.Toggle("2024-01-23", 16)
	g.LoadOpponent([]string{"2024-01-23T16:00:00"})
	require.NoError(t, store.SaveGrid(g))

	restored, err := store.GetGrid("m1", "u1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, schedule.GridStateEditing, restored.State())
	assert.True(t, restored.IsMineSelected("2024-01-23", 14))
	assert.True(t, restored.IsOpponentAvailable("2024-01-23", 16))
	assert.Equal(t, []schedule.SlotKey{"2024-01-23-16"}, restored.Overlap())
}

func TestMarkGridSubmitted(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.MarkGridSubmitted("m1", "u1")
	require.Error(t, err, "cannot submit a grid that was never saved")

	g := schedule.NewGrid("m1", "u1")
	g.Toggle("2024-01-23", 14)
	require.NoError(t, store.SaveGrid(g))

	submissionID, err := store.MarkGridSubmitted("m1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, submissionID)

	restored, err := store.GetGrid("m1", "u1")
	require.NoError(t, err)
	assert.Equal(t, schedule.GridStateSubmitted, restored.State())

	restored.Toggle("2024-01-23", 14)
	assert.True(t, restored.IsMineSelected("2024-01-23", 14), "submitted grids are read-only")
}

func TestClear(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertMatch(testMatch("m1")))
	g := schedule.NewGrid("m1", "u1")
	g.Toggle("2024-01-23", 14)
	require.NoError(t, store.SaveGrid(g))

	store.Clear()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM availability_grids").Scan(&count))
	assert.Equal(t, 0, count)
}
