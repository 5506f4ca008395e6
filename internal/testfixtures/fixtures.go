// Package testfixtures provides deterministic fixtures, clocks, and storage
// harnesses shared by the coordinator's test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/meeting-coordinator/internal/availability"
	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/persistence"
)

var (
	eventCounter      uint64
	holdCounter       uint64
	sessionCounter    uint64
	constraintCounter uint64
	policyCounter     uint64
)

var referenceTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Event fixtures -----------------------------

// EventOption configures the generated event fixture.
type EventOption func(*persistence.Event)

// NewEventFixture returns a deterministic calendar event with optional
// overrides. Successive events occupy successive hour slots after the
// reference time.
func NewEventFixture(userID string, opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	event := persistence.Event{
		ID:        fmt.Sprintf("evt_%03d", idx),
		UserID:    userID,
		AccountID: availability.SyntheticAccountID(userID),
		Title:     fmt.Sprintf("Event %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventWindow overrides the event's start and end.
func WithEventWindow(start, end time.Time) EventOption {
	return func(event *persistence.Event) {
		event.Start = start
		event.End = end
	}
}

// WithEventAccount overrides the account the event belongs to.
func WithEventAccount(accountID string) EventOption {
	return func(event *persistence.Event) {
		event.AccountID = accountID
	}
}

// ----------------------------- Hold fixtures ------------------------------

// HoldOption configures the generated hold fixture.
type HoldOption func(*persistence.Hold)

// NewHoldFixture returns a deterministic held hold for the given user.
func NewHoldFixture(userID string, opts ...HoldOption) persistence.Hold {
	idx := atomic.AddUint64(&holdCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	record := persistence.Hold{
		ID:          fmt.Sprintf("hld_%03d", idx),
		SessionID:   fmt.Sprintf("ses_%03d", idx),
		AccountID:   availability.SyntheticAccountID(userID),
		OwnerUserID: userID,
		Title:       fmt.Sprintf("Hold %03d", idx),
		Start:       start,
		End:         start.Add(time.Hour),
		ExpiresAt:   referenceTime.Add(4 * time.Hour),
		Status:      string(hold.StatusHeld),
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// WithHoldSession pins the hold to a session.
func WithHoldSession(sessionID string) HoldOption {
	return func(record *persistence.Hold) {
		record.SessionID = sessionID
	}
}

// WithHoldStatus overrides the hold status.
func WithHoldStatus(status hold.Status) HoldOption {
	return func(record *persistence.Hold) {
		record.Status = string(status)
	}
}

// WithHoldExpiry overrides the hold's expiry instant.
func WithHoldExpiry(expiresAt time.Time) HoldOption {
	return func(record *persistence.Hold) {
		record.ExpiresAt = expiresAt
	}
}

// WithHoldWindow overrides the reserved slot.
func WithHoldWindow(start, end time.Time) HoldOption {
	return func(record *persistence.Hold) {
		record.Start = start
		record.End = end
	}
}

// ---------------------------- Session fixtures ----------------------------

// SessionOption configures the generated session fixture.
type SessionOption func(*persistence.Session)

// NewSessionFixture returns a deterministic candidates_ready session.
func NewSessionFixture(creatorID string, opts ...SessionOption) persistence.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	session := persistence.Session{
		ID:              fmt.Sprintf("ses_%03d", idx),
		CreatorID:       creatorID,
		Title:           fmt.Sprintf("Session %03d", idx),
		Participants:    []string{creatorID},
		Status:          "candidates_ready",
		WindowStart:     referenceTime,
		WindowEnd:       referenceTime.Add(24 * time.Hour),
		DurationMinutes: 60,
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// WithParticipants overrides the participant list.
func WithParticipants(participants ...string) SessionOption {
	return func(session *persistence.Session) {
		session.Participants = participants
	}
}

// WithSessionStatus overrides the session status.
func WithSessionStatus(status string) SessionOption {
	return func(session *persistence.Session) {
		session.Status = status
	}
}

// --------------------------- Constraint fixtures --------------------------

// NewConstraintFixture returns a working-hours constraint owned by userID.
func NewConstraintFixture(userID string, startHour, endHour int) persistence.Constraint {
	idx := atomic.AddUint64(&constraintCounter, 1)
	return persistence.Constraint{
		ID:        fmt.Sprintf("cst_%03d", idx),
		UserID:    userID,
		Kind:      "working_hours",
		StartHour: startHour,
		EndHour:   endHour,
		CreatedAt: referenceTime,
	}
}

// --------------------------- VIP policy fixtures --------------------------

// NewVipPolicyFixture returns a VIP policy granting weight to a participant
// within userID's scope.
func NewVipPolicyFixture(userID, participantHash string, weight float64) persistence.VipPolicy {
	idx := atomic.AddUint64(&policyCounter, 1)
	return persistence.VipPolicy{
		ID:              fmt.Sprintf("vip_%03d", idx),
		UserID:          userID,
		ParticipantHash: participantHash,
		DisplayName:     fmt.Sprintf("VIP %03d", idx),
		PriorityWeight:  weight,
		CreatedAt:       referenceTime,
	}
}
