package schedule

import "sort"

// GridState is the lifecycle state of an availability grid.
type GridState string

const (
	// GridStateEditing allows toggling slots.
	GridStateEditing GridState = "EDITING"
	// GridStateSubmitted is terminal: the grid is read-only while waiting
	// for the opponent or a confirmed time.
	GridStateSubmitted GridState = "SUBMITTED"
)

// Grid holds one participant's selected slots and the opponent's known slots
// for a single match. It is a plain data structure with no locking; callers
// that share a Grid across goroutines must serialize access themselves.
type Grid struct {
	MatchID string
	UserID  string

	mine     map[SlotKey]struct{}
	opponent map[SlotKey]struct{}
	state    GridState
}

// NewGrid creates an empty grid in the Editing state.
func NewGrid(matchID, userID string) *Grid {
	return &Grid{
		MatchID:  matchID,
		UserID:   userID,
		mine:     make(map[SlotKey]struct{}),
		opponent: make(map[SlotKey]struct{}),
		state:    GridStateEditing,
	}
}

// RestoreGrid rebuilds a grid from persisted slot sets and state.
func RestoreGrid(matchID, userID string, mine, opponent []SlotKey, state GridState) *Grid {
	g := NewGrid(matchID, userID)
	for _, key := range mine {
		g.mine[key] = struct{}{}
	}
	for _, key := range opponent {
		g.opponent[key] = struct{}{}
	}
	if state != "" {
		g.state = state
	}
	return g
}

// State returns the current grid state.
func (g *Grid) State() GridState {
	return g.state
}

// MarkSubmitted transitions the grid to the terminal Submitted state.
// Callers should only invoke this after a successful submission.
func (g *Grid) MarkSubmitted() {
	g.state = GridStateSubmitted
}

// Toggle inserts the slot for (dayKey, hour) if absent and removes it if
// present. It is a no-op once the grid is submitted, and for hours outside
// the bookable grid.
func (g *Grid) Toggle(dayKey string, hour int) {
	if g.state == GridStateSubmitted || !IsGridHour(hour) {
		return
	}
	key := SlotKeyFor(dayKey, hour)
	if _, ok := g.mine[key]; ok {
		delete(g.mine, key)
		return
	}
	g.mine[key] = struct{}{}
}

// IsMineSelected reports whether the user has selected the given slot.
func (g *Grid) IsMineSelected(dayKey string, hour int) bool {
	_, ok := g.mine[SlotKeyFor(dayKey, hour)]
	return ok
}

// IsOpponentAvailable reports whether the opponent is available in the given slot.
func (g *Grid) IsOpponentAvailable(dayKey string, hour int) bool {
	_, ok := g.opponent[SlotKeyFor(dayKey, hour)]
	return ok
}

// LoadInitial bulk-populates the user's slots from ISO datetime strings,
// dropping any that fail to encode. Used when resuming an in-progress
// submission the server has previously saved.
func (g *Grid) LoadInitial(isoSlots []string) {
	for _, iso := range isoSlots {
		if key := EncodeSlot(iso); key != "" {
			g.mine[key] = struct{}{}
		}
	}
}

// LoadOpponent bulk-populates the opponent's slots from ISO datetime strings,
// dropping any that fail to encode.
func (g *Grid) LoadOpponent(isoSlots []string) {
	for _, iso := range isoSlots {
		if key := EncodeSlot(iso); key != "" {
			g.opponent[key] = struct{}{}
		}
	}
}

// Mine returns the user's selected slots in sorted order.
func (g *Grid) Mine() []SlotKey {
	return sortedKeys(g.mine)
}

// OpponentSlots returns the opponent's known slots in sorted order.
func (g *Grid) OpponentSlots() []SlotKey {
	return sortedKeys(g.opponent)
}

// Overlap returns the slots present in both sets, in sorted order. This is a
// display convenience; the backend owns the authoritative intersection when
// it confirms a time.
func (g *Grid) Overlap() []SlotKey {
	overlap := make(map[SlotKey]struct{})
	for key := range g.mine {
		if _, ok := g.opponent[key]; ok {
			overlap[key] = struct{}{}
		}
	}
	return sortedKeys(overlap)
}

func sortedKeys(set map[SlotKey]struct{}) []SlotKey {
	keys := make([]SlotKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
