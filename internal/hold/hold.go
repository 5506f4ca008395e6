// Package hold implements the lifecycle rules for calendar reservations.
//
// A hold blocks a single account for a candidate time range until a caller
// commits the session it belongs to, or until the hold's TTL lapses. All
// functions in this package are pure; the owning actor decides when to apply
// the transitions they compute.
package hold

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status identifies the lifecycle state of a hold.
type Status string

const (
	// StatusHeld marks an active reservation awaiting commit or expiry.
	StatusHeld Status = "held"
	// StatusCommitted marks a hold whose candidate was chosen.
	StatusCommitted Status = "committed"
	// StatusReleased marks a hold given up before expiry.
	StatusReleased Status = "released"
	// StatusExpired marks a hold whose TTL lapsed without a commit.
	StatusExpired Status = "expired"
)

// ApproachingExpiryWindow is the remaining-lifetime threshold below which a
// held hold is reported as approaching expiry.
const ApproachingExpiryWindow = time.Hour

// Duration bounds, in hours, accepted for hold TTLs and extensions.
const (
	MinDurationHours = 1
	MaxDurationHours = 72
)

// Hold is a time-bounded reservation of one account for one candidate slot.
type Hold struct {
	ID              string
	SessionID       string
	AccountID       string
	Title           string
	Start           time.Time
	End             time.Time
	ProviderEventID *string
	ExpiresAt       time.Time
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimeRange pairs the candidate start and end a hold was created for.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// InvalidTransitionError reports a lifecycle transition the state machine
// does not permit.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("hold: invalid transition from %q to %q", e.From, e.To)
}

// DurationRangeError reports an out-of-range hold duration.
type DurationRangeError struct {
	Hours int
}

// Error implements the error interface.
func (e *DurationRangeError) Error() string {
	return fmt.Sprintf("hold: duration %d hours outside allowed range [%d, %d]", e.Hours, MinDurationHours, MaxDurationHours)
}

// ExtendStatusError reports an extension attempt on a non-held hold.
type ExtendStatusError struct {
	HoldID string
	Status Status
}

// Error implements the error interface.
func (e *ExtendStatusError) Error() string {
	return fmt.Sprintf("hold: cannot extend hold %q in status %q; only held holds can be extended", e.HoldID, e.Status)
}

// IsValidTransition reports whether the state machine permits from -> to.
// Held is the only non-terminal status.
func IsValidTransition(from, to Status) bool {
	if from != StatusHeld {
		return false
	}
	switch to {
	case StatusCommitted, StatusReleased, StatusExpired:
		return true
	default:
		return false
	}
}

// Transition returns the new status for a valid transition and an
// InvalidTransitionError otherwise.
func Transition(from, to Status) (Status, error) {
	if !IsValidTransition(from, to) {
		return "", &InvalidTransitionError{From: from, To: to}
	}
	return to, nil
}

// New produces a held hold for the given candidate slot with expiry measured
// from now.
func New(sessionID, accountID string, candidateStart, candidateEnd time.Time, title string, ttl time.Duration, now time.Time) Hold {
	return Hold{
		ID:        NewID(),
		SessionID: sessionID,
		AccountID: accountID,
		Title:     title,
		Start:     candidateStart,
		End:       candidateEnd,
		ExpiresAt: now.Add(ttl),
		Status:    StatusHeld,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID generates a hold identifier with the hld_ prefix.
func NewID() string {
	return "hld_" + uuid.NewString()
}

// IsExpired reports whether the hold's expiry instant has passed. The check
// is purely temporal; callers combine it with status checks as needed.
func IsExpired(h Hold, now time.Time) bool {
	return h.ExpiresAt.Before(now)
}

// FindExpired returns the holds that are still held but past their expiry.
// The background sweep uses this to drive holds to expired.
func FindExpired(holds []Hold, now time.Time) []Hold {
	var expired []Hold
	for _, h := range holds {
		if h.Status == StatusHeld && IsExpired(h, now) {
			expired = append(expired, h)
		}
	}
	return expired
}

// IsApproachingExpiry reports whether a held hold has at most
// ApproachingExpiryWindow of lifetime left. An already-expired held hold
// counts as approaching; holds in any other status never do.
func IsApproachingExpiry(h Hold, now time.Time) bool {
	if h.Status != StatusHeld {
		return false
	}
	return h.ExpiresAt.Sub(now) <= ApproachingExpiryWindow
}

// ComputeExtendedExpiry returns the new expiry for extending a held hold by
// the given number of hours. Extension is always measured from now, not from
// the previous expiry.
func ComputeExtendedExpiry(h Hold, hours int, now time.Time) (time.Time, error) {
	if h.Status != StatusHeld {
		return time.Time{}, &ExtendStatusError{HoldID: h.ID, Status: h.Status}
	}
	if err := ValidateDurationHours(hours); err != nil {
		return time.Time{}, err
	}
	return now.Add(time.Duration(hours) * time.Hour), nil
}

// ValidateDurationHours accepts integers in the closed range
// [MinDurationHours, MaxDurationHours].
func ValidateDurationHours(hours int) error {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return &DurationRangeError{Hours: hours}
	}
	return nil
}

// DetectConflicts returns the active holds whose candidate time range
// overlaps [newStart, newEnd). Released and expired holds are ignored; holds
// without an entry in candidateTimes cannot be compared and are skipped.
// Overlap is half-open interval intersection.
func DetectConflicts(newStart, newEnd time.Time, holds []Hold, candidateTimes map[string]TimeRange) []Hold {
	var conflicts []Hold
	for _, h := range holds {
		if h.Status != StatusHeld && h.Status != StatusCommitted {
			continue
		}
		tr, ok := candidateTimes[h.ID]
		if !ok {
			continue
		}
		if newStart.Before(tr.End) && newEnd.After(tr.Start) {
			conflicts = append(conflicts, h)
		}
	}
	return conflicts
}
