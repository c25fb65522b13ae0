package notifier

import (
	"sync"

	"github.com/gamehubz/matchday/internal/gamehubz"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendScheduledNotificationCalls []struct{ Match *gamehubz.Match }
	SendReadyNotificationCalls     []struct{ Match *gamehubz.Match }
	SendResultNotificationCalls    []struct{ Match *gamehubz.Match }
	SendSubmittedNotificationCalls []struct {
		Match     *gamehubz.Match
		SlotCount int
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendScheduledNotificationCalls = nil
	m.SendReadyNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendSubmittedNotificationCalls = nil
}

func (m *Mock) SendScheduledNotification(match *gamehubz.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendScheduledNotificationCalls = append(m.SendScheduledNotificationCalls, struct{ Match *gamehubz.Match }{match})
	return nil
}

func (m *Mock) SendReadyNotification(match *gamehubz.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReadyNotificationCalls = append(m.SendReadyNotificationCalls, struct{ Match *gamehubz.Match }{match})
	return nil
}

func (m *Mock) SendResultNotification(match *gamehubz.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct{ Match *gamehubz.Match }{match})
	return nil
}

func (m *Mock) SendAvailabilitySubmittedNotification(match *gamehubz.Match, slotCount int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSubmittedNotificationCalls = append(m.SendSubmittedNotificationCalls, struct {
		Match     *gamehubz.Match
		SlotCount int
	}{match, slotCount})
	return nil
}
