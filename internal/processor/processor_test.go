package processor

import (
	"testing"
	"time"

	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/hub"
	"github.com/gamehubz/matchday/internal/metrics"
	"github.com/gamehubz/matchday/internal/notifier"
	"github.com/gamehubz/matchday/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProcessor() (*Processor, *hub.Mock, *notifier.Mock, *metrics.Mock, *pubsub.MockPubSubClient) {
	store := hub.NewMock()
	notif := notifier.NewMock()
	m := metrics.NewMock()
	ps := pubsub.NewMock("test-project")
	return New(store, notif, m, ps), store, notif, m, ps
}

func match(processing gamehubz.ProcessingStatus, status gamehubz.MatchStatus) *gamehubz.Match {
	return &gamehubz.Match{
		MatchID:          "m1",
		TournamentID:     "t1",
		HomePlayer:       gamehubz.Participant{UserID: "u1", Name: "Player A"},
		AwayPlayer:       gamehubz.Participant{UserID: "u2", Name: "Player B"},
		Status:           status,
		ConfirmedTime:    "2024-01-24T18:00:00",
		Start:            time.Now().Unix(),
		ProcessingStatus: processing,
	}
}

func TestProcessMatches(t *testing.T) {
	t.Run("new match still pending availability does not advance", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		m := match(gamehubz.StatusNew, gamehubz.MatchStatusPendingAvailability)
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		assert.Empty(t, store.UpdateProcessingStatusCalls)
		assert.Empty(t, notif.SendScheduledNotificationCalls)
		assert.Empty(t, ps.SendMessageCalls)
		assert.Equal(t, gamehubz.StatusNew, m.ProcessingStatus)
	})

	t.Run("new scheduled match is notified and advances", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		m := match(gamehubz.StatusNew, gamehubz.MatchStatusScheduled)
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendScheduledNotificationCalls, 1)
		assert.Equal(t, "m1", notif.SendScheduledNotificationCalls[0].Match.MatchID)

		require.Len(t, ps.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventMatchScheduled), ps.SendMessageCalls[0].Topic)

		require.Len(t, store.UpdateNotificationTimestamps, 1)
		assert.Equal(t, hub.NotificationSchedule, store.UpdateNotificationTimestamps[0].Type)

		require.Len(t, store.UpdateProcessingStatusCalls, 1)
		assert.Equal(t, gamehubz.StatusScheduleNotified, store.UpdateProcessingStatusCalls[0].Status)
		assert.Equal(t, gamehubz.StatusScheduleNotified, m.ProcessingStatus)
	})

	t.Run("scheduled match entering ready phase sends ready notification", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		m := match(gamehubz.StatusScheduleNotified, gamehubz.MatchStatusReadyPhase)
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendReadyNotificationCalls, 1)
		require.Len(t, ps.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventMatchReady), ps.SendMessageCalls[0].Topic)
		assert.Equal(t, gamehubz.StatusReadyNotified, m.ProcessingStatus)
	})

	t.Run("completed match runs through to completion", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		home, away := 3, 1
		m := match(gamehubz.StatusReadyNotified, gamehubz.MatchStatusCompleted)
		m.HomeScore = &home
		m.AwayScore = &away
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendResultNotificationCalls, 1)
		require.Len(t, ps.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventMatchCompleted), ps.SendMessageCalls[0].Topic)

		// RESULT_NOTIFIED then COMPLETED in one pass.
		require.Len(t, store.UpdateProcessingStatusCalls, 2)
		assert.Equal(t, gamehubz.StatusResultNotified, store.UpdateProcessingStatusCalls[0].Status)
		assert.Equal(t, gamehubz.StatusCompleted, store.UpdateProcessingStatusCalls[1].Status)
		assert.Equal(t, gamehubz.StatusCompleted, m.ProcessingStatus)
	})

	t.Run("historic completed match stays quiet", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		m := match(gamehubz.StatusReadyNotified, gamehubz.MatchStatusCompleted)
		m.Start = time.Now().Add(-48 * time.Hour).Unix()
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		assert.Empty(t, notif.SendResultNotificationCalls)
		require.Len(t, ps.SendMessageCalls, 1)
		assert.Equal(t, gamehubz.StatusCompleted, m.ProcessingStatus)
	})

	t.Run("new match first seen after completion skips older notifications", func(t *testing.T) {
		p, store, notif, _, _ := setupProcessor()
		m := match(gamehubz.StatusNew, gamehubz.MatchStatusCompleted)
		m.Start = time.Now().Add(-48 * time.Hour).Unix()
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(false)

		assert.Empty(t, notif.SendScheduledNotificationCalls)
		assert.Empty(t, notif.SendReadyNotificationCalls)
		assert.Empty(t, notif.SendResultNotificationCalls)
		assert.Equal(t, gamehubz.StatusCompleted, m.ProcessingStatus)
	})

	t.Run("dry run never touches store or pubsub", func(t *testing.T) {
		p, store, notif, _, ps := setupProcessor()
		m := match(gamehubz.StatusNew, gamehubz.MatchStatusScheduled)
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{m}, nil
		}

		p.ProcessMatches(true)

		assert.Empty(t, store.UpdateProcessingStatusCalls)
		assert.Empty(t, store.UpdateNotificationTimestamps)
		assert.Empty(t, ps.SendMessageCalls)
		// Notifier still sees the call, it handles dry-run itself.
		require.Len(t, notif.SendScheduledNotificationCalls, 1)
		// In-memory status still advances so the loop terminates.
		assert.Equal(t, gamehubz.StatusScheduleNotified, m.ProcessingStatus)
	})

	t.Run("processing metrics are recorded per match", func(t *testing.T) {
		p, store, _, m, _ := setupProcessor()
		store.GetMatchesForProcessingFunc = func() ([]*gamehubz.Match, error) {
			return []*gamehubz.Match{
				match(gamehubz.StatusNew, gamehubz.MatchStatusScheduled),
				match(gamehubz.StatusScheduleNotified, gamehubz.MatchStatusReadyPhase),
			}, nil
		}

		p.ProcessMatches(false)

		assert.Equal(t, 2, m.MatchesProcessed())
	})
}
