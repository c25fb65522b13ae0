package gamehubz

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchFunc             func(matchID string) (Match, error)
	GetTournamentMatchesFunc func(tournamentID, userID string) ([]Match, error)
	GetAvailabilityFunc      func(matchID, userID string) (Availability, error)
	SubmitAvailabilityFunc   func(matchID string, isoSlots []string) (SubmissionAck, error)
	ReportResultFunc         func(report ResultReport) error

	// Call records
	GetMatchCalls             []string
	GetTournamentMatchesCalls []string
	GetAvailabilityCalls      []string
	SubmitAvailabilityCalls   []SubmitAvailabilityCall
	ReportResultCalls         []ResultReport
}

// SubmitAvailabilityCall records one SubmitAvailability invocation.
type SubmitAvailabilityCall struct {
	MatchID  string
	IsoSlots []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchCalls = nil
	m.GetTournamentMatchesCalls = nil
	m.GetAvailabilityCalls = nil
	m.SubmitAvailabilityCalls = nil
	m.ReportResultCalls = nil
}

func (m *MockClient) GetMatch(_ context.Context, matchID string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return Match{}, nil
}

func (m *MockClient) GetTournamentMatches(_ context.Context, tournamentID, userID string) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTournamentMatchesCalls = append(m.GetTournamentMatchesCalls, tournamentID)
	if m.GetTournamentMatchesFunc != nil {
		return m.GetTournamentMatchesFunc(tournamentID, userID)
	}
	return []Match{}, nil
}

func (m *MockClient) GetAvailability(_ context.Context, matchID, userID string) (Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetAvailabilityCalls = append(m.GetAvailabilityCalls, matchID)
	if m.GetAvailabilityFunc != nil {
		return m.GetAvailabilityFunc(matchID, userID)
	}
	return Availability{}, nil
}

func (m *MockClient) SubmitAvailability(_ context.Context, matchID string, isoSlots []string) (SubmissionAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitAvailabilityCalls = append(m.SubmitAvailabilityCalls, SubmitAvailabilityCall{MatchID: matchID, IsoSlots: isoSlots})
	if m.SubmitAvailabilityFunc != nil {
		return m.SubmitAvailabilityFunc(matchID, isoSlots)
	}
	return SubmissionAck{}, nil
}

func (m *MockClient) ReportResult(_ context.Context, report ResultReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportResultCalls = append(m.ReportResultCalls, report)
	if m.ReportResultFunc != nil {
		return m.ReportResultFunc(report)
	}
	return nil
}
