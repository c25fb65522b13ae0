package gamehubz

import "context"

// Client defines the interface for interacting with the GameHubz API.
// This allows for mock implementations to be used in tests.
type Client interface {
	GetMatch(ctx context.Context, matchID string) (Match, error)
	GetTournamentMatches(ctx context.Context, tournamentID, userID string) ([]Match, error)
	GetAvailability(ctx context.Context, matchID, userID string) (Availability, error)
	SubmitAvailability(ctx context.Context, matchID string, isoSlots []string) (SubmissionAck, error)
	ReportResult(ctx context.Context, report ResultReport) error
}
