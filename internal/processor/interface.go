package processor

import (
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]*gamehubz.Match, error)
	UpdateProcessingStatus(matchID string, status gamehubz.ProcessingStatus) error
	UpdateNotificationTimestamp(matchID string, notificationType string) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
