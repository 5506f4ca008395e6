// Package availability merges busy calendar intervals and anonymizes them
// for cross-user aggregation.
//
// The merged output is the only channel through which one user's busy time
// reaches the solver, so every interval leaving this package is tagged with
// a synthetic per-user token instead of real account identifiers.
package availability

import (
	"encoding/hex"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"
)

// BusyInterval is a blocked time span tied to one or more account identifiers.
type BusyInterval struct {
	Start      time.Time
	End        time.Time
	AccountIDs []string
}

// UserAvailability groups the busy intervals gathered from one user's data
// owner. Intervals may reference several of the user's real accounts.
type UserAvailability struct {
	UserID    string
	Intervals []BusyInterval
}

// MergeOverlapping collapses a single user's intervals into a minimal
// non-overlapping set covering the same busy time. Touching intervals are
// coalesced. The input is not modified.
func MergeOverlapping(intervals []BusyInterval) []BusyInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]BusyInterval, 0, len(sorted))
	current := cloneInterval(sorted[0])
	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			current.AccountIDs = unionAccountIDs(current.AccountIDs, next.AccountIDs)
			continue
		}
		merged = append(merged, current)
		current = cloneInterval(next)
	}
	merged = append(merged, current)

	return merged
}

// MergeBusyIntervals merges each user's intervals and re-tags the results
// with that user's synthetic token, discarding the real account identifiers
// entirely. The guarantee holds even when a user has multiple real accounts:
// every interval for a user carries exactly one token, derived only from the
// user identifier.
func MergeBusyIntervals(users []UserAvailability) []BusyInterval {
	var out []BusyInterval
	for _, user := range users {
		token := SyntheticAccountID(user.UserID)
		for _, interval := range MergeOverlapping(user.Intervals) {
			out = append(out, BusyInterval{
				Start:      interval.Start,
				End:        interval.End,
				AccountIDs: []string{token},
			})
		}
	}
	return out
}

// BuildGroupAccountIDs maps user identifiers to their synthetic tokens,
// preserving order, for use as the required accounts of a group solve.
func BuildGroupAccountIDs(userIDs []string) []string {
	tokens := make([]string, len(userIDs))
	for i, id := range userIDs {
		tokens[i] = SyntheticAccountID(id)
	}
	return tokens
}

// SyntheticAccountID derives the deterministic per-user token substituted
// for real account identifiers before aggregation. The derivation is one-way;
// only the owning actor can map a token back to a user.
func SyntheticAccountID(userID string) string {
	return "group_" + digest("availability/group:"+userID, 6)
}

// ParticipantHash derives the opaque identifier used for a participant in
// solver inputs and scheduling history.
func ParticipantHash(userID string) string {
	return "ph_" + digest("availability/participant:"+userID, 8)
}

func digest(input string, bytes int) string {
	sum := blake2b.Sum256([]byte(input))
	return hex.EncodeToString(sum[:bytes])
}

func cloneInterval(interval BusyInterval) BusyInterval {
	ids := make([]string, len(interval.AccountIDs))
	copy(ids, interval.AccountIDs)
	interval.AccountIDs = ids
	return interval
}

func unionAccountIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range b {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Overlaps reports whether the interval intersects [start, end) using
// half-open interval semantics.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// BlocksAny reports whether the interval belongs to any of the given
// accounts and intersects [start, end).
func (b BusyInterval) BlocksAny(accountIDs []string, start, end time.Time) bool {
	if !b.Overlaps(start, end) {
		return false
	}
	for _, required := range accountIDs {
		for _, id := range b.AccountIDs {
			if id == required {
				return true
			}
		}
	}
	return false
}
