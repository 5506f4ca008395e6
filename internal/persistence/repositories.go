package persistence

import (
	"context"
	"time"
)

// SessionRepository stores scheduling sessions and their candidates.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session, candidates []Candidate) error
	GetSession(ctx context.Context, id string) (Session, error)
	UpdateSessionStatus(ctx context.Context, id, status string, committedCandidateID *string, updatedAt time.Time) error
	ListCandidates(ctx context.Context, sessionID string) ([]Candidate, error)
	ListSessionsByStatus(ctx context.Context, status string) ([]Session, error)
}

// HoldRepository stores per-account reservations.
type HoldRepository interface {
	CreateHold(ctx context.Context, hold Hold) error
	GetHold(ctx context.Context, id string) (Hold, error)
	UpdateHold(ctx context.Context, hold Hold) error
	ListHoldsBySession(ctx context.Context, sessionID string) ([]Hold, error)
	ListActiveHoldsByAccount(ctx context.Context, accountID string) ([]Hold, error)
	ListHeldHolds(ctx context.Context) ([]Hold, error)
}

// EventRepository stores canonical calendar events per user.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	ListEventsOverlapping(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]Event, error)
}

// ConstraintRepository stores per-user scheduling restrictions.
type ConstraintRepository interface {
	CreateConstraint(ctx context.Context, constraint Constraint) error
	ListConstraints(ctx context.Context, userID string) ([]Constraint, error)
}

// VipPolicyRepository stores per-user VIP priority policies.
type VipPolicyRepository interface {
	CreateVipPolicy(ctx context.Context, policy VipPolicy) error
	ListVipPolicies(ctx context.Context, userID string) ([]VipPolicy, error)
}

// HistoryRepository stores fairness aggregates per participant.
type HistoryRepository interface {
	RecordOutcome(ctx context.Context, participantHash string, gotPreferred bool, ts time.Time) error
	ListHistory(ctx context.Context, participantHashes []string) ([]HistoryEntry, error)
}
