package hub

import (
	"sync"

	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/schedule"
)

// Mock is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertMatchFunc             func(match *gamehubz.Match) error
	UpsertMatchesFunc           func(matches []*gamehubz.Match) error
	GetMatchFunc                func(matchID string) (*gamehubz.Match, error)
	GetAllMatchesFunc           func() ([]*gamehubz.Match, error)
	GetMatchesForProcessingFunc func() ([]*gamehubz.Match, error)
	SaveGridFunc                func(grid *schedule.Grid) error
	GetGridFunc                 func(matchID, userID string) (*schedule.Grid, error)
	MarkGridSubmittedFunc       func(matchID, userID string) (string, error)

	// Call records
	UpsertMatchCalls             []*gamehubz.Match
	UpsertMatchesCalls           [][]*gamehubz.Match
	UpdateProcessingStatusCalls  []UpdateProcessingStatusCall
	UpdateNotificationTimestamps []UpdateNotificationTimestampCall
	SaveGridCalls                []*schedule.Grid
	MarkGridSubmittedCalls       []MarkGridSubmittedCall
	ClearCalls                   int
	ClearMatchCalls              []string
}

// UpdateProcessingStatusCall records one UpdateProcessingStatus invocation.
type UpdateProcessingStatusCall struct {
	MatchID string
	Status  gamehubz.ProcessingStatus
}

// UpdateNotificationTimestampCall records one UpdateNotificationTimestamp invocation.
type UpdateNotificationTimestampCall struct {
	MatchID string
	Type    string
}

// MarkGridSubmittedCall records one MarkGridSubmitted invocation.
type MarkGridSubmittedCall struct {
	MatchID string
	UserID  string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMatchCalls = nil
	m.UpsertMatchesCalls = nil
	m.UpdateProcessingStatusCalls = nil
	m.UpdateNotificationTimestamps = nil
	m.SaveGridCalls = nil
	m.MarkGridSubmittedCalls = nil
	m.ClearCalls = 0
	m.ClearMatchCalls = nil
}

func (m *Mock) UpsertMatch(match *gamehubz.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMatchCalls = append(m.UpsertMatchCalls, match)
	if m.UpsertMatchFunc != nil {
		return m.UpsertMatchFunc(match)
	}
	return nil
}

func (m *Mock) UpsertMatches(matches []*gamehubz.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMatchesCalls = append(m.UpsertMatchesCalls, matches)
	if m.UpsertMatchesFunc != nil {
		return m.UpsertMatchesFunc(matches)
	}
	return nil
}

func (m *Mock) GetMatch(matchID string) (*gamehubz.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *Mock) GetAllMatches() ([]*gamehubz.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return []*gamehubz.Match{}, nil
}

func (m *Mock) GetMatchesForProcessing() ([]*gamehubz.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return []*gamehubz.Match{}, nil
}

func (m *Mock) UpdateProcessingStatus(matchID string, status gamehubz.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, UpdateProcessingStatusCall{MatchID: matchID, Status: status})
	return nil
}

func (m *Mock) UpdateNotificationTimestamp(matchID string, notificationType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateNotificationTimestamps = append(m.UpdateNotificationTimestamps, UpdateNotificationTimestampCall{MatchID: matchID, Type: notificationType})
	return nil
}

func (m *Mock) SaveGrid(grid *schedule.Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveGridCalls = append(m.SaveGridCalls, grid)
	if m.SaveGridFunc != nil {
		return m.SaveGridFunc(grid)
	}
	return nil
}

func (m *Mock) GetGrid(matchID, userID string) (*schedule.Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGridFunc != nil {
		return m.GetGridFunc(matchID, userID)
	}
	return nil, nil
}

func (m *Mock) MarkGridSubmitted(matchID, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkGridSubmittedCalls = append(m.MarkGridSubmittedCalls, MarkGridSubmittedCall{MatchID: matchID, UserID: userID})
	if m.MarkGridSubmittedFunc != nil {
		return m.MarkGridSubmittedFunc(matchID, userID)
	}
	return "mock-submission-id", nil
}

func (m *Mock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}

func (m *Mock) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
}
