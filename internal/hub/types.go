package hub

import (
	"database/sql"
	"sync"
)

// store handles all database operations for tracked matches and grids.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Notification types recorded on a match row.
const (
	NotificationSchedule = "schedule"
	NotificationResult   = "result"
)
