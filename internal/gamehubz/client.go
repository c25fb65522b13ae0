package gamehubz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is the HTTP client for the GameHubz backend. It implements the
// Client interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	token      string
}

// NewClient creates a new GameHubz API client.
func NewClient(baseURL, token string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

func (c *APIClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// GetMatch fetches a specific match by its ID.
func (c *APIClient) GetMatch(ctx context.Context, matchID string) (Match, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/tournaments/matches/"+url.PathEscape(matchID), nil)
	if err != nil {
		return Match{}, err
	}

	log.Debug("Requesting match from GameHubz API", "matchID", matchID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Match{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from GameHubz API", "status", resp.StatusCode, "body", string(body))
		return Match{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var wire wireMatch
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Match{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return normalizeMatch(wire), nil
}

// GetTournamentMatches fetches the matches of a tournament, optionally
// filtered to the ones a user participates in.
func (c *APIClient) GetTournamentMatches(ctx context.Context, tournamentID, userID string) ([]Match, error) {
	path := "/api/tournaments/" + url.PathEscape(tournamentID) + "/matches"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	log.Debug("Requesting tournament matches from GameHubz API", "tournamentID", tournamentID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from GameHubz API", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	// Some deployments wrap the list in "data", others in "matches".
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var list wireMatchList
	if err := json.Unmarshal(raw, &list); err != nil {
		// Fall back to a bare array.
		var bare []wireMatch
		if err := json.Unmarshal(raw, &bare); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		list.Data = bare
	}
	wires := list.Data
	if len(wires) == 0 {
		wires = list.Matches
	}

	matches := make([]Match, 0, len(wires))
	for _, wire := range wires {
		matches = append(matches, normalizeMatch(wire))
	}
	log.Info("Successfully fetched tournament matches", "count", len(matches), "tournamentID", tournamentID)
	return matches, nil
}

// GetAvailability fetches the availability sets for a match from the
// perspective of one participant.
func (c *APIClient) GetAvailability(ctx context.Context, matchID, userID string) (Availability, error) {
	path := "/api/tournaments/matches/" + url.PathEscape(matchID) + "/availability?userId=" + url.QueryEscape(userID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Availability{}, err
	}

	log.Debug("Requesting availability from GameHubz API", "matchID", matchID, "userID", userID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Availability{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from GameHubz API", "status", resp.StatusCode, "body", string(body))
		return Availability{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var wire wireAvailability
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Availability{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return wire.normalize(), nil
}

// SubmitAvailability posts the selected slots for a match. The returned ack
// carries a confirmed time when the backend auto-scheduled the match by
// intersecting both sides' availability.
func (c *APIClient) SubmitAvailability(ctx context.Context, matchID string, isoSlots []string) (SubmissionAck, error) {
	payload := struct {
		MatchID       string   `json:"matchId"`
		SelectedSlots []string `json:"selectedSlots"`
	}{MatchID: matchID, SelectedSlots: isoSlots}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/tournaments/matches/availability", payload)
	if err != nil {
		return SubmissionAck{}, err
	}

	log.Debug("Submitting availability to GameHubz API", "matchID", matchID, "slots", len(isoSlots))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmissionAck{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from GameHubz API", "status", resp.StatusCode, "body", string(body))
		return SubmissionAck{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var wire wireSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return SubmissionAck{}, fmt.Errorf("failed to decode response: %w", err)
	}
	ack := SubmissionAck{ConfirmedTime: wire.ConfirmedTime}
	if wire.Data != nil && wire.Data.ConfirmedTime != "" {
		ack.ConfirmedTime = wire.Data.ConfirmedTime
	}
	return ack, nil
}

// ReportResult submits a final score. On a non-2xx response the raw response
// body is surfaced as the error message; the backend does not guarantee a
// structured error shape.
func (c *APIClient) ReportResult(ctx context.Context, report ResultReport) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/tournaments/matches/report-result", report)
	if err != nil {
		return err
	}

	log.Debug("Reporting result to GameHubz API", "matchID", report.MatchID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Result report rejected by GameHubz API", "status", resp.StatusCode, "body", string(body))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	return nil
}

// confirmedTimeLayout is the ISO-like local datetime format the backend uses,
// with no timezone marker.
const confirmedTimeLayout = "2006-01-02T15:04:05"

func normalizeMatch(wire wireMatch) Match {
	var status MatchStatus
	switch wire.Status {
	case string(MatchStatusPendingAvailability):
		status = MatchStatusPendingAvailability
	case string(MatchStatusScheduled):
		status = MatchStatusScheduled
	case string(MatchStatusReadyPhase):
		status = MatchStatusReadyPhase
	case string(MatchStatusCompleted):
		status = MatchStatusCompleted
	default:
		status = MatchStatusUnknown
		log.Warn("Unknown match status received from GameHubz API", "status", wire.Status)
	}

	confirmedTime := firstNonEmpty(wire.ConfirmedTime, wire.ScheduledTime)
	var start int64
	if confirmedTime != "" {
		t, err := time.ParseInLocation(confirmedTimeLayout, confirmedTime, time.Local)
		if err != nil {
			log.Warn("Failed to parse confirmed time", "confirmedTime", confirmedTime, "error", err)
		} else {
			start = t.Unix()
		}
	}

	return Match{
		MatchID:       firstNonEmpty(wire.MatchID, wire.ID),
		TournamentID:  wire.TournamentID,
		HubID:         wire.HubID,
		HomePlayer:    wire.HomePlayer.normalize(),
		AwayPlayer:    wire.AwayPlayer.normalize(),
		Status:        status,
		ConfirmedTime: confirmedTime,
		Start:         start,
		HomeScore:     wire.HomeScore,
		AwayScore:     wire.AwayScore,
	}
}
