package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
)

// ErrMissingScores is returned when either score field is empty. The message
// is user-facing and shown verbatim.
var ErrMissingScores = errors.New("Please enter scores for both players")

// ResultClient is the slice of the GameHubz API the reporter needs.
type ResultClient interface {
	ReportResult(ctx context.Context, report gamehubz.ResultReport) error
}

// Reporter submits final match results.
type Reporter struct {
	client ResultClient
}

// NewReporter creates a new Reporter.
func NewReporter(client ResultClient) *Reporter {
	return &Reporter{client: client}
}

// Report validates that both scores are present and submits the result.
// Score plausibility (negative values, disallowed draws) is entirely the
// backend's concern; a rejection surfaces the backend's response body as the
// error text.
func (r *Reporter) Report(ctx context.Context, matchID, tournamentID, homeScore, awayScore string) error {
	if homeScore == "" || awayScore == "" {
		return ErrMissingScores
	}

	report := gamehubz.ResultReport{
		MatchID:      matchID,
		TournamentID: tournamentID,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
	}
	log.Info("Reporting match result", "matchID", matchID, "home", homeScore, "away", awayScore)
	if err := r.client.ReportResult(ctx, report); err != nil {
		return fmt.Errorf("failed to report result: %w", err)
	}
	return nil
}
