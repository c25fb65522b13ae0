package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/schedule"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

func (s *Server) FetchMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match fetch...")
		s.Metrics.IncFetcherRuns()
		isDryRun := isDryRunFromContext(r)

		tournamentID := r.URL.Query().Get("tournamentID")
		if tournamentID == "" {
			tournamentID = s.Cfg.GameHubz.TournamentID
		}

		matches, err := s.GameHubz.GetTournamentMatches(r.Context(), tournamentID, s.Cfg.GameHubz.UserID)
		if err != nil {
			log.Error("Error fetching tournament matches", "error", err)
			http.Error(w, "Failed to fetch matches", http.StatusInternalServerError)
			return
		}
		log.Info("Found matches from API", "count", len(matches), "tournamentID", tournamentID)

		matchesToUpsert := make([]*gamehubz.Match, 0, len(matches))
		for i := range matches {
			matchesToUpsert = append(matchesToUpsert, &matches[i])
		}

		if len(matchesToUpsert) > 0 {
			if !isDryRun {
				log.Info("Upserting matches", "count", len(matchesToUpsert))
				if err := s.Store.UpsertMatches(matchesToUpsert); err != nil {
					log.Error("Failed to bulk upsert matches", "error", err)
					http.Error(w, "Failed to save matches", http.StatusInternalServerError)
					return
				}
			} else {
				log.Info("[Dry Run] Would have upserted matches", "count", len(matchesToUpsert))
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match fetch completed.")
		log.Info("Match fetch finished.", "total_api_matches", len(matches))
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		isDryRun := isDryRunFromContext(r)

		s.Processor.ProcessMatches(isDryRun)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
		log.Info("Match processing finished.")
	}
}

// availabilityResponse is the payload returned by the availability endpoint:
// the day window, the bookable hours and both sides' selections.
type availabilityResponse struct {
	MatchID  string             `json:"match_id"`
	UserID   string             `json:"user_id"`
	State    schedule.GridState `json:"state"`
	Days     []schedule.Day     `json:"days"`
	Hours    []int              `json:"hours"`
	Mine     []schedule.SlotKey `json:"mine"`
	Opponent []schedule.SlotKey `json:"opponent"`
	Overlap  []schedule.SlotKey `json:"overlap"`
}

func (s *Server) AvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		userID := r.URL.Query().Get("userID")
		if userID == "" {
			userID = s.Cfg.GameHubz.UserID
		}

		week := 0
		if weekStr := r.URL.Query().Get("week"); weekStr != "" {
			parsedWeek, err := strconv.Atoi(weekStr)
			if err != nil {
				log.Warn("Invalid 'week' parameter provided. Defaulting to 0.", "week_param", weekStr)
			} else {
				week = parsedWeek
			}
		}

		grid, err := s.Store.GetGrid(matchID, userID)
		if err != nil {
			http.Error(w, "Failed to load availability grid", http.StatusInternalServerError)
			log.Error("Failed to load grid from store", "error", err, "matchID", matchID)
			return
		}
		if grid == nil {
			// First time we see this match: pull both sides' saved slots.
			avail, err := s.GameHubz.GetAvailability(r.Context(), matchID, userID)
			if err != nil {
				log.Error("Failed to fetch availability", "error", err, "matchID", matchID)
				http.Error(w, "Failed to fetch availability", http.StatusBadGateway)
				return
			}
			grid = schedule.NewGrid(matchID, userID)
			grid.LoadInitial(avail.MySlots)
			grid.LoadOpponent(avail.OpponentSlots)
			if err := s.Store.SaveGrid(grid); err != nil {
				log.Error("Failed to save grid", "error", err, "matchID", matchID)
			}
		}

		resp := availabilityResponse{
			MatchID:  matchID,
			UserID:   userID,
			State:    grid.State(),
			Days:     schedule.Window(week, time.Now()),
			Hours:    schedule.GridHours,
			Mine:     grid.Mine(),
			Opponent: grid.OpponentSlots(),
			Overlap:  grid.Overlap(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to encode availability response", "error", err)
		}
	}
}

type toggleRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	UserID  string `json:"userId"`
	Day     string `json:"day" validate:"required"`
	Hour    int    `json:"hour" validate:"required"`
}

func (s *Server) ToggleAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			req.UserID = s.Cfg.GameHubz.UserID
		}
		if !schedule.IsGridHour(req.Hour) {
			http.Error(w, "hour is not a bookable slot", http.StatusBadRequest)
			return
		}

		grid, err := s.Store.GetGrid(req.MatchID, req.UserID)
		if err != nil {
			http.Error(w, "Failed to load availability grid", http.StatusInternalServerError)
			log.Error("Failed to load grid from store", "error", err, "matchID", req.MatchID)
			return
		}
		if grid == nil {
			grid = schedule.NewGrid(req.MatchID, req.UserID)
		}
		if grid.State() == schedule.GridStateSubmitted {
			http.Error(w, "Availability already submitted", http.StatusConflict)
			return
		}

		grid.Toggle(req.Day, req.Hour)

		if !isDryRunFromContext(r) {
			if err := s.Store.SaveGrid(grid); err != nil {
				http.Error(w, "Failed to save availability grid", http.StatusInternalServerError)
				log.Error("Failed to save grid", "error", err, "matchID", req.MatchID)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		resp := struct {
			Selected bool               `json:"selected"`
			Mine     []schedule.SlotKey `json:"mine"`
		}{
			Selected: grid.IsMineSelected(req.Day, req.Hour),
			Mine:     grid.Mine(),
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to encode toggle response", "error", err)
		}
	}
}

type submitRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	UserID  string `json:"userId"`
}

func (s *Server) SubmitAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			req.UserID = s.Cfg.GameHubz.UserID
		}

		grid, err := s.Store.GetGrid(req.MatchID, req.UserID)
		if err != nil {
			http.Error(w, "Failed to load availability grid", http.StatusInternalServerError)
			log.Error("Failed to load grid from store", "error", err, "matchID", req.MatchID)
			return
		}
		if grid == nil {
			http.Error(w, "No availability grid for match", http.StatusNotFound)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would submit availability", "matchID", req.MatchID, "slots", len(grid.Mine()))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run: availability not submitted.")
			return
		}

		submitter := schedule.NewSubmitter(s.GameHubz)
		outcome, err := submitter.Submit(r.Context(), grid)
		if err != nil {
			if errors.Is(err, schedule.ErrNoSlotsSelected) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.Metrics.IncAvailabilitySubmissionsFailed()
			log.Error("Failed to submit availability", "error", err, "matchID", req.MatchID)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		s.Metrics.IncAvailabilitySubmissions()

		if err := s.Store.SaveGrid(grid); err != nil {
			log.Error("Failed to save submitted grid", "error", err, "matchID", req.MatchID)
		}
		if _, err := s.Store.MarkGridSubmitted(req.MatchID, req.UserID); err != nil {
			log.Error("Failed to mark grid submitted", "error", err, "matchID", req.MatchID)
		}

		// A confirmed time means the backend just scheduled the match. Pull
		// the fresh state so the processor can pick it up.
		if outcome.Status == schedule.OutcomeScheduled {
			if updated, err := s.GameHubz.GetMatch(r.Context(), req.MatchID); err == nil {
				if err := s.Store.UpsertMatch(&updated); err != nil {
					log.Error("Failed to upsert scheduled match", "error", err, "matchID", req.MatchID)
				}
			} else {
				log.Error("Failed to refresh scheduled match", "error", err, "matchID", req.MatchID)
			}
		}

		if match, err := s.Store.GetMatch(req.MatchID); err == nil && match != nil {
			if err := s.Notifier.SendAvailabilitySubmittedNotification(match, len(grid.Mine()), false); err != nil {
				log.Error("Failed to send availability submitted notification", "error", err, "matchID", req.MatchID)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(outcome); err != nil {
			log.Error("Failed to encode submission outcome", "error", err)
		}
	}
}

type reportResultRequest struct {
	MatchID      string `json:"matchId" validate:"required"`
	TournamentID string `json:"tournamentId"`
	HomeScore    string `json:"homeScore"`
	AwayScore    string `json:"awayScore"`
}

func (s *Server) ReportResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.TournamentID == "" {
			req.TournamentID = s.Cfg.GameHubz.TournamentID
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would report result", "matchID", req.MatchID, "home", req.HomeScore, "away", req.AwayScore)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run: result not reported.")
			return
		}

		reporter := schedule.NewReporter(s.GameHubz)
		err := reporter.Report(r.Context(), req.MatchID, req.TournamentID, req.HomeScore, req.AwayScore)
		if err != nil {
			if errors.Is(err, schedule.ErrMissingScores) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to report result", "error", err, "matchID", req.MatchID)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		// Pull the completed match so the processor can send the result
		// notification on its next run.
		if updated, err := s.GameHubz.GetMatch(r.Context(), req.MatchID); err == nil {
			if err := s.Store.UpsertMatch(&updated); err != nil {
				log.Error("Failed to upsert completed match", "error", err, "matchID", req.MatchID)
			}
		} else {
			log.Error("Failed to refresh completed match", "error", err, "matchID", req.MatchID)
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Result reported.")
	}
}

// MatchCompletedHandler is the Pub/Sub push endpoint for match-completed
// events. The payload is the standard push envelope with a base64-encoded
// MessagePack match inside.
func (s *Server) MatchCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match completed message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		match := gamehubz.Match{}
		if err := s.pubsub.ProcessMessage(rawData, &match); err != nil {
			log.Error("Failed to decode match payload", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if !isDryRun {
			if err := s.Store.UpsertMatch(&match); err != nil {
				log.Error("Failed to upsert completed match", "error", err, "matchID", match.MatchID)
				http.Error(w, "Failed to save match", http.StatusInternalServerError)
				return
			}
		}
		w.Write([]byte("OK"))
	}
}
