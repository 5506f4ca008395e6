// Package solver finds and ranks free meeting slots.
//
// The greedy solver handles small problems directly; larger ones are routed
// to an external constraint solver by SelectSolver. Scoring combines a
// time-of-day preference with constraint, fairness, and VIP factors.
package solver

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/meeting-coordinator/internal/availability"
)

// Kind identifies which solving strategy a problem should use.
type Kind string

const (
	// KindGreedy routes the problem to the in-process greedy search.
	KindGreedy Kind = "greedy"
	// KindExternal signals delegation to a third-party constraint solver.
	KindExternal Kind = "external"
)

// Duration bounds, in minutes, accepted for a solve.
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

// Routing thresholds: problems at or below both are considered simple
// enough for the greedy search.
const (
	greedyMaxParticipants = 3
	greedyMaxConstraints  = 5
)

const (
	defaultStepMinutes   = 30
	defaultMaxCandidates = 5
)

// ConstraintKindWorkingHours restricts candidates to a daily hour range.
const ConstraintKindWorkingHours = "working_hours"

// Constraint describes a scheduling restriction supplied by a participant's
// data owner. ActiveFrom/ActiveUntil bound when the constraint applies; nil
// means always.
type Constraint struct {
	Kind        string
	StartHour   int
	EndHour     int
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
}

// Input is a fully-specified slot search problem. ParticipantHashes are
// opaque identifiers, never raw account IDs.
type Input struct {
	WindowStart        time.Time
	WindowEnd          time.Time
	DurationMinutes    int
	BusyIntervals      []availability.BusyInterval
	RequiredAccountIDs []string
	ParticipantHashes  []string
	Constraints        []Constraint
	StepMinutes        int
}

// ScoredCandidate is a concretely-timed, ranked slot proposal.
type ScoredCandidate struct {
	CandidateID string
	Start       time.Time
	End         time.Time
	Score       int
	Explanation string
}

// Validate checks the structural invariants of the input.
func (in Input) Validate() error {
	if !in.WindowStart.Before(in.WindowEnd) {
		return fmt.Errorf("solver: window start %v must precede window end %v", in.WindowStart, in.WindowEnd)
	}
	if in.DurationMinutes < MinDurationMinutes || in.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("solver: duration %d minutes outside allowed range [%d, %d]", in.DurationMinutes, MinDurationMinutes, MaxDurationMinutes)
	}
	return nil
}

// SelectSolver routes a problem to the greedy search when it is simple (at
// most 3 participants and 5 constraints) and to an external solver
// otherwise. Pure routing decision, no side effects.
func SelectSolver(in Input) Kind {
	if len(in.ParticipantHashes) <= greedyMaxParticipants && len(in.Constraints) <= greedyMaxConstraints {
		return KindGreedy
	}
	return KindExternal
}

// GreedySolver scans [WindowStart, WindowEnd) for free slots of exactly
// DurationMinutes where none of the required accounts is busy, scores each
// by time-of-day preference, and returns up to maxCandidates results sorted
// by descending score.
func GreedySolver(in Input, maxCandidates int) ([]ScoredCandidate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	step := in.StepMinutes
	if step <= 0 {
		step = defaultStepMinutes
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	stepDuration := time.Duration(step) * time.Minute

	var candidates []ScoredCandidate
	for start := alignToStep(in.WindowStart, step); !start.Add(duration).After(in.WindowEnd); start = start.Add(stepDuration) {
		end := start.Add(duration)
		if isBlocked(in, start, end) {
			continue
		}
		if !satisfiesConstraints(in.Constraints, start, end) {
			continue
		}
		score, explanation := timePreference(start, end)
		candidates = append(candidates, ScoredCandidate{
			CandidateID: NewCandidateID(),
			Start:       start,
			End:         end,
			Score:       score,
			Explanation: explanation,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Start.Before(candidates[j].Start)
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// NewCandidateID generates a candidate identifier with the cand_ prefix.
func NewCandidateID() string {
	return "cand_" + uuid.NewString()
}

func alignToStep(t time.Time, stepMinutes int) time.Time {
	aligned := t.Truncate(time.Duration(stepMinutes) * time.Minute)
	if aligned.Before(t) {
		aligned = aligned.Add(time.Duration(stepMinutes) * time.Minute)
	}
	return aligned
}

func isBlocked(in Input, start, end time.Time) bool {
	for _, interval := range in.BusyIntervals {
		if interval.BlocksAny(in.RequiredAccountIDs, start, end) {
			return true
		}
	}
	return false
}

func satisfiesConstraints(constraints []Constraint, start, end time.Time) bool {
	for _, c := range constraints {
		if c.Kind != ConstraintKindWorkingHours {
			continue
		}
		if c.ActiveFrom != nil && start.Before(*c.ActiveFrom) {
			continue
		}
		if c.ActiveUntil != nil && !start.Before(*c.ActiveUntil) {
			continue
		}
		if !withinDailyHours(start, end, c.StartHour, c.EndHour) {
			return false
		}
	}
	return true
}

// withinDailyHours reports whether the slot lies fully inside the
// [startHour, endHour] range of its own day.
func withinDailyHours(start, end time.Time, startHour, endHour int) bool {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), startHour, 0, 0, 0, start.Location())
	dayEnd := time.Date(start.Year(), start.Month(), start.Day(), endHour, 0, 0, 0, start.Location())
	return !start.Before(dayStart) && !end.After(dayEnd)
}

// timePreference assigns the base score for a slot. Slots inside typical
// working hours score higher, and mornings higher still; every slot keeps a
// positive floor score.
func timePreference(start, end time.Time) (int, string) {
	score := 10
	explanation := "outside typical working hours"

	if withinDailyHours(start, end, 9, 17) {
		score += 20
		explanation = "within working hours"
		if start.Hour() >= 9 && start.Hour() < 12 {
			score += 20
			explanation = "morning slot within working hours"
		}
	}

	return score, explanation
}
