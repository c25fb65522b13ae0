package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
)

// ErrNoSlotsSelected is returned when a submission is attempted with an
// empty slot set. No network call is made in that case.
var ErrNoSlotsSelected = errors.New("no availability slots selected")

// OutcomeStatus describes what a successful submission resulted in.
type OutcomeStatus string

const (
	// OutcomeScheduled means the backend intersected both sides and
	// auto-confirmed a match time.
	OutcomeScheduled OutcomeStatus = "SCHEDULED"
	// OutcomeAwaitingOpponent means the slots were saved and the match is
	// waiting for the opponent's availability.
	OutcomeAwaitingOpponent OutcomeStatus = "AWAITING_OPPONENT"
)

// Outcome is the interpreted result of an availability submission.
type Outcome struct {
	Status        OutcomeStatus `json:"status"`
	ConfirmedTime string        `json:"confirmed_time,omitempty"`
}

// SchedulingClient is the slice of the GameHubz API the submitter needs.
type SchedulingClient interface {
	SubmitAvailability(ctx context.Context, matchID string, isoSlots []string) (gamehubz.SubmissionAck, error)
}

// Submitter bridges a grid to the remote scheduling endpoint.
type Submitter struct {
	client SchedulingClient
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(client SchedulingClient) *Submitter {
	return &Submitter{client: client}
}

// Submit decodes the grid's selected slots to ISO strings, posts them, and
// interprets the response. On success the grid transitions to Submitted.
// Failures are terminal for this call; re-invoking with the same slot set is
// safe, the endpoint is idempotent.
func (s *Submitter) Submit(ctx context.Context, grid *Grid) (Outcome, error) {
	keys := grid.Mine()
	if len(keys) == 0 {
		return Outcome{}, ErrNoSlotsSelected
	}

	isoSlots := DecodeSlots(keys)
	log.Info("Submitting availability", "matchID", grid.MatchID, "userID", grid.UserID, "slots", len(isoSlots))

	ack, err := s.client.SubmitAvailability(ctx, grid.MatchID, isoSlots)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to submit availability: %w", err)
	}

	grid.MarkSubmitted()

	if ack.ConfirmedTime != "" {
		log.Info("Match auto-scheduled", "matchID", grid.MatchID, "confirmedTime", ack.ConfirmedTime)
		return Outcome{Status: OutcomeScheduled, ConfirmedTime: ack.ConfirmedTime}, nil
	}
	log.Info("Availability submitted, awaiting opponent", "matchID", grid.MatchID)
	return Outcome{Status: OutcomeAwaitingOpponent}, nil
}
