package notifier

import "github.com/gamehubz/matchday/internal/gamehubz"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// The backend has confirmed a time for a match.
	SendScheduledNotification(match *gamehubz.Match, dryRun bool) error
	// A scheduled match has entered its ready phase.
	SendReadyNotification(match *gamehubz.Match, dryRun bool) error
	// A final result has been recorded for a match.
	SendResultNotification(match *gamehubz.Match, dryRun bool) error
	// This side's availability was submitted and is waiting for the opponent.
	SendAvailabilitySubmittedNotification(match *gamehubz.Match, slotCount int, dryRun bool) error
}
