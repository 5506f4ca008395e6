package persistence

import "time"

// Session is the persisted top-level scheduling request.
type Session struct {
	ID                   string
	CreatorID            string
	Title                string
	Participants         []string
	Status               string
	WindowStart          time.Time
	WindowEnd            time.Time
	DurationMinutes      int
	CommittedCandidateID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Candidate is a scored slot proposal stored with its session.
type Candidate struct {
	ID          string
	SessionID   string
	Start       time.Time
	End         time.Time
	Score       int
	Explanation string
}

// Hold is a persisted per-account reservation against a candidate slot.
type Hold struct {
	ID              string
	SessionID       string
	AccountID       string
	OwnerUserID     string
	Title           string
	Start           time.Time
	End             time.Time
	ProviderEventID *string
	ExpiresAt       time.Time
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event is a calendar entry in a user's canonical event store.
type Event struct {
	ID        string
	UserID    string
	AccountID string
	Title     string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// Constraint is a persisted scheduling restriction owned by one user.
type Constraint struct {
	ID          string
	UserID      string
	Kind        string
	StartHour   int
	EndHour     int
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
	CreatedAt   time.Time
}

// VipPolicy grants a participant a priority weight within one user's scope.
type VipPolicy struct {
	ID              string
	UserID          string
	ParticipantHash string
	DisplayName     string
	PriorityWeight  float64
	CreatedAt       time.Time
}

// HistoryEntry aggregates a participant's scheduling outcomes across
// sessions. Entries are appended-to, never overwritten.
type HistoryEntry struct {
	ParticipantHash      string
	SessionsParticipated int
	SessionsPreferred    int
	LastSessionTs        time.Time
}
