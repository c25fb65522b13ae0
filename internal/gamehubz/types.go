package gamehubz

// Match represents a single tournament match as the rest of the application
// sees it: one canonical shape, normalized from the wire format.
type Match struct {
	MatchID          string
	TournamentID     string
	HubID            string
	HomePlayer       Participant
	AwayPlayer       Participant
	Status           MatchStatus
	ConfirmedTime    string // ISO-like local datetime, empty until scheduled
	Start            int64  // Unix timestamp of the confirmed time, 0 until scheduled
	HomeScore        *int
	AwayScore        *int
	ProcessingStatus ProcessingStatus
}

// Participant is one side of a match.
type Participant struct {
	UserID        string
	Name          string
	FairPlayScore float64
}

// Availability is the availability state of a match for one participant.
type Availability struct {
	MySlots       []string // ISO datetime strings previously saved for this user
	OpponentSlots []string
	ConfirmedTime string // set once the backend has intersected both sides
}

// SubmissionAck is the backend's answer to an availability submission.
// A non-empty ConfirmedTime means the match was auto-scheduled.
type SubmissionAck struct {
	ConfirmedTime string
}

// ResultReport is the immutable payload for reporting a final score. Scores
// are kept as strings: the backend owns all plausibility validation.
type ResultReport struct {
	MatchID      string `json:"MatchId"`
	HomeScore    string `json:"HomeScore"`
	AwayScore    string `json:"AwayScore"`
	TournamentID string `json:"TournamentId"`
}

// MatchStatus is the backend-owned lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusPendingAvailability MatchStatus = "pending_availability"
	MatchStatusScheduled           MatchStatus = "scheduled"
	MatchStatusReadyPhase          MatchStatus = "ready_phase"
	MatchStatusCompleted           MatchStatus = "completed"
	MatchStatusUnknown             MatchStatus = "unknown"
)

// ProcessingStatus defines the internal processing state of a match.
type ProcessingStatus string

const (
	StatusNew              ProcessingStatus = "NEW"
	StatusScheduleNotified ProcessingStatus = "SCHEDULE_NOTIFIED"
	StatusReadyNotified    ProcessingStatus = "READY_NOTIFIED"
	StatusResultNotified   ProcessingStatus = "RESULT_NOTIFIED"
	StatusCompleted        ProcessingStatus = "COMPLETED"
)

// --- Wire format ---
//
// The backend does not guarantee consistent field naming: ids arrive as
// "matchId", "MatchId" or plain "id" depending on the endpoint. encoding/json
// matches keys case-insensitively, which covers the camel/Pascal variants;
// the distinct names are normalized here, at the API boundary, so nothing
// else in the codebase does fallback-field lookups.

type wireMatch struct {
	MatchID       string          `json:"matchId"`
	ID            string          `json:"id"`
	TournamentID  string          `json:"tournamentId"`
	HubID         string          `json:"hubId"`
	HomePlayer    wireParticipant `json:"homePlayer"`
	AwayPlayer    wireParticipant `json:"awayPlayer"`
	Status        string          `json:"status"`
	ConfirmedTime string          `json:"confirmedTime"`
	ScheduledTime string          `json:"scheduledTime"`
	HomeScore     *int            `json:"homeScore"`
	AwayScore     *int            `json:"awayScore"`
}

type wireParticipant struct {
	UserID        string  `json:"userId"`
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Username      string  `json:"username"`
	FairPlayScore float64 `json:"fairPlayScore"`
}

type wireAvailability struct {
	MySlots       []string `json:"mySlots"`
	SelectedSlots []string `json:"selectedSlots"`
	OpponentSlots []string `json:"opponentSlots"`
	ConfirmedTime string   `json:"confirmedTime"`
}

type wireSubmitResponse struct {
	Data          *wireSubmitData `json:"data"`
	ConfirmedTime string          `json:"confirmedTime"`
}

type wireSubmitData struct {
	ConfirmedTime string `json:"confirmedTime"`
}

type wireMatchList struct {
	Data    []wireMatch `json:"data"`
	Matches []wireMatch `json:"matches"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (w wireParticipant) normalize() Participant {
	return Participant{
		UserID:        firstNonEmpty(w.UserID, w.ID),
		Name:          firstNonEmpty(w.Name, w.Username),
		FairPlayScore: w.FairPlayScore,
	}
}

func (w wireAvailability) normalize() Availability {
	mySlots := w.MySlots
	if len(mySlots) == 0 {
		mySlots = w.SelectedSlots
	}
	return Availability{
		MySlots:       mySlots,
		OpponentSlots: w.OpponentSlots,
		ConfirmedTime: w.ConfirmedTime,
	}
}
