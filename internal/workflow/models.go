package workflow

import (
	"time"

	"github.com/example/meeting-coordinator/internal/hold"
)

// SessionStatus identifies the lifecycle state of a scheduling session.
type SessionStatus string

const (
	// StatusCandidatesReady marks a session whose candidates await a commit.
	StatusCandidatesReady SessionStatus = "candidates_ready"
	// StatusCommitted marks a session whose chosen candidate became real events.
	StatusCommitted SessionStatus = "committed"
	// StatusCancelled marks a session explicitly abandoned by a caller.
	StatusCancelled SessionStatus = "cancelled"
	// StatusExpired marks a session whose holds all lapsed without a commit.
	StatusExpired SessionStatus = "expired"
)

// IsTerminal reports whether no further mutation is permitted on a session
// in this status.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCommitted || s == StatusCancelled || s == StatusExpired
}

// Candidate is a scored slot proposal attached to a session.
type Candidate struct {
	CandidateID string
	Start       time.Time
	End         time.Time
	Score       int
	Explanation string
}

// Session is the top-level unit of a scheduling request.
type Session struct {
	SessionID            string
	CreatorID            string
	Title                string
	Participants         []string
	Status               SessionStatus
	WindowStart          time.Time
	WindowEnd            time.Time
	DurationMinutes      int
	Candidates           []Candidate
	Holds                []hold.Hold
	CommittedCandidateID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreateSessionParams captures a caller's scheduling request.
type CreateSessionParams struct {
	CreatorID       string
	Title           string
	Participants    []string
	WindowStart     time.Time
	WindowEnd       time.Time
	DurationMinutes int
	// HoldTTL overrides the configured hold lifetime when positive.
	HoldTTL time.Duration
	// MaxCandidates overrides the configured candidate cap when positive.
	MaxCandidates int
}
