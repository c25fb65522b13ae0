package processor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/hub"
	"github.com/gamehubz/matchday/internal/metrics"
	"github.com/gamehubz/matchday/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for _, match := range matches {
		startTime := time.Now()
		p.processMatch(match, dryRun)
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveProcessingDuration(float64(duration))
		p.metrics.IncMatchesProcessed()
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(match *gamehubz.Match, dryRun bool) {
	log.Info("Processing match", "matchID", match.MatchID, "initial_status", match.ProcessingStatus, "match_status", match.Status)
	for {
		currentState := match.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", match.MatchID, "status", currentState)

		switch currentState {
		case gamehubz.StatusNew:
			switch match.Status {
			case gamehubz.MatchStatusScheduled:
				// The backend confirmed a time. Tell everyone.
				log.Info("Match has a confirmed time. Sending schedule notification.", "matchID", match.MatchID)
				if !dryRun {
					p.pubsub.SendMessage(string(pubsub.EventMatchScheduled), match)
				}
				p.notifier.SendScheduledNotification(match, dryRun)
				p.recordNotification(match, hub.NotificationSchedule, dryRun)
				p.updateStatus(match, gamehubz.StatusScheduleNotified, dryRun)
			case gamehubz.MatchStatusReadyPhase, gamehubz.MatchStatusCompleted:
				// We first saw this match after its schedule phase. Never send a
				// stale schedule notification, just catch the state up.
				log.Info("Match is new but already past scheduling. Skipping schedule notification.", "matchID", match.MatchID)
				p.updateStatus(match, gamehubz.StatusScheduleNotified, dryRun)
			default:
				// Still collecting availability. Nothing to notify yet.
				log.Debug("Match is still pending availability.", "matchID", match.MatchID)
				return
			}

		case gamehubz.StatusScheduleNotified:
			switch match.Status {
			case gamehubz.MatchStatusReadyPhase:
				log.Info("Match entered its ready phase. Sending ready notification.", "matchID", match.MatchID)
				if !dryRun {
					p.pubsub.SendMessage(string(pubsub.EventMatchReady), match)
				}
				p.notifier.SendReadyNotification(match, dryRun)
				p.updateStatus(match, gamehubz.StatusReadyNotified, dryRun)
			case gamehubz.MatchStatusCompleted:
				log.Info("Match completed without a visible ready phase. Skipping ready notification.", "matchID", match.MatchID)
				p.updateStatus(match, gamehubz.StatusReadyNotified, dryRun)
			default:
				return
			}

		case gamehubz.StatusReadyNotified:
			if match.Status != gamehubz.MatchStatusCompleted {
				return
			}
			log.Info("Match result is available. Sending result notification.", "matchID", match.MatchID)
			timeStarted := time.Unix(match.Start, 0)
			timeSinceStart := time.Since(timeStarted)
			// If the match started more than a day ago we are backfilling
			// historic data and should stay quiet.
			if match.Start == 0 || timeSinceStart < 24*time.Hour {
				p.notifier.SendResultNotification(match, dryRun)
				p.recordNotification(match, hub.NotificationResult, dryRun)
			}
			if !dryRun {
				p.pubsub.SendMessage(string(pubsub.EventMatchCompleted), match)
			}
			p.updateStatus(match, gamehubz.StatusResultNotified, dryRun)

		case gamehubz.StatusResultNotified:
			log.Info("Match result has been notified. Marking match as complete.", "matchID", match.MatchID)
			p.updateStatus(match, gamehubz.StatusCompleted, dryRun)

		case gamehubz.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.MatchID)
			return // End of the line for this match

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", match.MatchID)
			return // Exit if status is unknown
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.MatchID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.MatchID, "final_status", match.ProcessingStatus)
}

func (p *Processor) recordNotification(match *gamehubz.Match, notificationType string, dryRun bool) {
	if dryRun {
		return
	}
	if err := p.store.UpdateNotificationTimestamp(match.MatchID, notificationType); err != nil {
		log.Error("Failed to record notification timestamp", "error", err, "matchID", match.MatchID, "type", notificationType)
	}
}

func (p *Processor) updateStatus(match *gamehubz.Match, newStatus gamehubz.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.MatchID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(match.MatchID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", match.MatchID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.MatchID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
