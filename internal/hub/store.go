package hub

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/schedule"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// UpsertMatch inserts a new match or updates an existing one. It is "dumb"
// and does not change the processing status of an existing match.
func (s *store) UpsertMatch(match *gamehubz.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertMatchLocked(match)
}

// UpsertMatches upserts a batch of matches in a single transaction.
func (s *store) UpsertMatches(matches []*gamehubz.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, match := range matches {
		if err := s.upsertMatchLocked(match); err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", match.MatchID, err)
		}
	}
	return nil
}

func (s *store) upsertMatchLocked(match *gamehubz.Match) error {
	// ON CONFLICT updates all server-owned fields EXCEPT processing_status,
	// which belongs to the local state machine.
	_, err := s.db.Exec(`
		INSERT INTO matches (id, tournament_id, hub_id, home_player_id, home_player_name, home_fair_play, away_player_id, away_player_name, away_fair_play, status, confirmed_time, start_time, home_score, away_score, processing_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			hub_id = excluded.hub_id,
			home_player_id = excluded.home_player_id,
			home_player_name = excluded.home_player_name,
			home_fair_play = excluded.home_fair_play,
			away_player_id = excluded.away_player_id,
			away_player_name = excluded.away_player_name,
			away_fair_play = excluded.away_fair_play,
			status = excluded.status,
			confirmed_time = excluded.confirmed_time,
			start_time = excluded.start_time,
			home_score = excluded.home_score,
			away_score = excluded.away_score;
	`,
		match.MatchID, match.TournamentID, match.HubID,
		match.HomePlayer.UserID, match.HomePlayer.Name, match.HomePlayer.FairPlayScore,
		match.AwayPlayer.UserID, match.AwayPlayer.Name, match.AwayPlayer.FairPlayScore,
		match.Status, match.ConfirmedTime, match.Start,
		nullableInt(match.HomeScore), nullableInt(match.AwayScore),
		gamehubz.StatusNew,
	)
	return err
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status gamehubz.ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", status, matchID)
	return err
}

// UpdateNotificationTimestamp records when a notification was sent for a match.
func (s *store) UpdateNotificationTimestamp(matchID string, notificationType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var column string
	switch notificationType {
	case NotificationSchedule:
		column = "schedule_notified_ts"
	case NotificationResult:
		column = "result_notified_ts"
	default:
		return fmt.Errorf("unknown notification type: %s", notificationType)
	}

	query := fmt.Sprintf("UPDATE matches SET %s = ? WHERE id = ?", column)
	_, err := s.db.Exec(query, time.Now().Unix(), matchID)
	return err
}

// GetMatch retrieves a single match, or nil when it is not tracked.
func (s *store) GetMatch(matchID string) (*gamehubz.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(matchSelect+" WHERE id = ?", matchID)
	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return match, err
}

// GetAllMatches retrieves every tracked match.
func (s *store) GetAllMatches() ([]*gamehubz.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(matchSelect)
}

// GetMatchesForProcessing retrieves all matches that are not yet in a
// completed processing state.
func (s *store) GetMatchesForProcessing() ([]*gamehubz.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(matchSelect+" WHERE processing_status != ?", gamehubz.StatusCompleted)
}

const matchSelect = `
	SELECT id, tournament_id, hub_id, home_player_id, home_player_name, home_fair_play, away_player_id, away_player_name, away_fair_play, status, confirmed_time, start_time, home_score, away_score, processing_status
	FROM matches`

func (s *store) queryMatches(query string, args ...any) ([]*gamehubz.Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*gamehubz.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanMatch(scanner interface{ Scan(...any) error }) (*gamehubz.Match, error) {
	var match gamehubz.Match
	var hubID, confirmedTime sql.NullString
	var homeScore, awayScore sql.NullInt64

	err := scanner.Scan(
		&match.MatchID, &match.TournamentID, &hubID,
		&match.HomePlayer.UserID, &match.HomePlayer.Name, &match.HomePlayer.FairPlayScore,
		&match.AwayPlayer.UserID, &match.AwayPlayer.Name, &match.AwayPlayer.FairPlayScore,
		&match.Status, &confirmedTime, &match.Start,
		&homeScore, &awayScore, &match.ProcessingStatus,
	)
	if err != nil {
		return nil, err
	}

	match.HubID = hubID.String
	match.ConfirmedTime = confirmedTime.String
	if homeScore.Valid {
		v := int(homeScore.Int64)
		match.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		match.AwayScore = &v
	}
	return &match, nil
}

// SaveGrid persists a grid's slot sets and state for later resumption.
func (s *store) SaveGrid(grid *schedule.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mineBlob, err := msgpack.Marshal(grid.Mine())
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}
	opponentBlob, err := msgpack.Marshal(grid.OpponentSlots())
	if err != nil {
		return fmt.Errorf("failed to marshal opponent slots: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO availability_grids (match_id, user_id, my_slots, opponent_slots, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, user_id) DO UPDATE SET
			my_slots = excluded.my_slots,
			opponent_slots = excluded.opponent_slots,
			state = excluded.state,
			updated_at = excluded.updated_at;
	`, grid.MatchID, grid.UserID, mineBlob, opponentBlob, grid.State(), time.Now().Unix())
	return err
}

// GetGrid restores a persisted grid, or nil when none exists for the pair.
func (s *store) GetGrid(matchID, userID string) (*schedule.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mineBlob, opponentBlob []byte
	var state string
	err := s.db.QueryRow(`
		SELECT my_slots, opponent_slots, state
		FROM availability_grids
		WHERE match_id = ? AND user_id = ?
	`, matchID, userID).Scan(&mineBlob, &opponentBlob, &state)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var mine, opponent []schedule.SlotKey
	if len(mineBlob) > 0 {
		if err := msgpack.Unmarshal(mineBlob, &mine); err != nil {
			return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
		}
	}
	if len(opponentBlob) > 0 {
		if err := msgpack.Unmarshal(opponentBlob, &opponent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opponent slots: %w", err)
		}
	}
	return schedule.RestoreGrid(matchID, userID, mine, opponent, schedule.GridState(state)), nil
}

// MarkGridSubmitted marks a grid as submitted and returns the generated
// submission id.
func (s *store) MarkGridSubmitted(matchID, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissionID := uuid.New().String()
	now := time.Now().Unix()
	result, err := s.db.Exec(`
		UPDATE availability_grids
		SET state = ?, submission_id = ?, submitted_at = ?, updated_at = ?
		WHERE match_id = ? AND user_id = ?
	`, schedule.GridStateSubmitted, submissionID, now, now, matchID, userID)
	if err != nil {
		return "", err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", fmt.Errorf("no grid found for match %s and user %s", matchID, userID)
	}
	return submissionID, nil
}

// Clear removes all tracked matches and grids.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM availability_grids"); err != nil {
		log.Error("Failed to clear availability grids", "error", err)
	}
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches", "error", err)
	}
}

// ClearMatch removes a single match and its grids.
func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM availability_grids WHERE match_id = ?", matchID); err != nil {
		log.Error("Failed to clear grids for match", "error", err, "matchID", matchID)
	}
	if _, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
