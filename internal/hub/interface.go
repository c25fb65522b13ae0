package hub

import (
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/schedule"
)

// Store defines the interface for the local match and grid cache.
type Store interface {
	UpsertMatch(match *gamehubz.Match) error
	UpsertMatches(matches []*gamehubz.Match) error
	GetMatch(matchID string) (*gamehubz.Match, error)
	GetAllMatches() ([]*gamehubz.Match, error)
	GetMatchesForProcessing() ([]*gamehubz.Match, error)
	UpdateProcessingStatus(matchID string, status gamehubz.ProcessingStatus) error
	UpdateNotificationTimestamp(matchID string, notificationType string) error

	SaveGrid(grid *schedule.Grid) error
	GetGrid(matchID, userID string) (*schedule.Grid, error)
	MarkGridSubmitted(matchID, userID string) (string, error)

	Clear()
	ClearMatch(matchID string)
}
