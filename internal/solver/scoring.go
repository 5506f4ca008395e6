package solver

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// HistoryEntry aggregates how often a participant's preferred slot was
// chosen across past sessions.
type HistoryEntry struct {
	ParticipantHash      string
	SessionsParticipated int
	SessionsPreferred    int
	LastSessionTs        time.Time
}

// FairnessScore is the multiplicative adjustment derived from a
// participant's scheduling history. Neutral is 1.0 with an empty
// explanation.
type FairnessScore struct {
	Adjustment  float64
	Explanation string
}

// VipWeight is the multiplicative boost applied for high-priority
// participants. Explanation is nil when no policy matched.
type VipWeight struct {
	Weight      float64
	Explanation *string
}

// VipPolicy grants a participant a priority weight. Policies are managed by
// the per-user data owner and only read here.
type VipPolicy struct {
	ParticipantHash string
	DisplayName     string
	PriorityWeight  float64
}

// ScoreFactors are the independent inputs to the final score: additive base
// factors and multiplicative adjustment factors.
type ScoreFactors struct {
	TimePreferenceScore float64
	ConstraintScore     float64
	FairnessAdjustment  float64
	VipWeight           float64
}

// ExplanationParts collects the per-factor explanation fragments for one
// candidate.
type ExplanationParts struct {
	BaseExplanation     string
	FairnessExplanation string
	VipExplanation      *string
}

// OutcomeRecord captures, for one participant, whether a committed session
// chose their preferred slot. Records feed the history aggregates behind
// fairness scoring.
type OutcomeRecord struct {
	SessionID       string
	ParticipantHash string
	GotPreferred    bool
	CommittedTime   time.Time
}

// ComputeFairnessScore derives the fairness adjustment for a participant. A
// preference rate of 0.5 is the fair baseline; the adjustment moves linearly
// against the deviation, penalizing historically advantaged participants and
// boosting disadvantaged ones. Missing history is neutral.
func ComputeFairnessScore(history []HistoryEntry, participantHash string) FairnessScore {
	var entry *HistoryEntry
	for i := range history {
		if history[i].ParticipantHash == participantHash {
			entry = &history[i]
			break
		}
	}
	if entry == nil || entry.SessionsParticipated == 0 {
		return FairnessScore{Adjustment: 1.0}
	}

	rate := float64(entry.SessionsPreferred) / float64(entry.SessionsParticipated)
	deviation := rate - 0.5
	adjustment := 1.0 - deviation

	if deviation == 0 {
		return FairnessScore{Adjustment: 1.0}
	}

	standing := "disadvantaged"
	if deviation > 0 {
		standing = "advantaged"
	}
	return FairnessScore{
		Adjustment:  adjustment,
		Explanation: fmt.Sprintf("participant %s has been historically %s (preference rate %.2f)", participantHash, standing, rate),
	}
}

// ApplyVipWeight selects the maximum priority weight among policies matching
// the given participants. When no policy matches, the weight is the neutral
// 1.0 with a nil explanation.
func ApplyVipWeight(policies []VipPolicy, participantHashes []string) VipWeight {
	present := make(map[string]struct{}, len(participantHashes))
	for _, hash := range participantHashes {
		present[hash] = struct{}{}
	}

	var best *VipPolicy
	for i := range policies {
		if _, ok := present[policies[i].ParticipantHash]; !ok {
			continue
		}
		if best == nil || policies[i].PriorityWeight > best.PriorityWeight {
			best = &policies[i]
		}
	}

	if best == nil {
		return VipWeight{Weight: 1.0}
	}
	explanation := fmt.Sprintf("VIP participant %s prioritized (weight %.1f)", best.DisplayName, best.PriorityWeight)
	return VipWeight{Weight: best.PriorityWeight, Explanation: &explanation}
}

// ComputeMultiFactorScore composes the final candidate score: additive base
// factors scaled by the multiplicative adjustments, rounded to the nearest
// integer.
func ComputeMultiFactorScore(f ScoreFactors) int {
	return int(math.Round((f.TimePreferenceScore + f.ConstraintScore) * f.FairnessAdjustment * f.VipWeight))
}

// BuildExplanation concatenates the non-neutral explanation fragments into
// one human-readable string.
func BuildExplanation(parts ExplanationParts) string {
	fragments := make([]string, 0, 3)
	if parts.BaseExplanation != "" {
		fragments = append(fragments, parts.BaseExplanation)
	}
	if parts.FairnessExplanation != "" {
		fragments = append(fragments, parts.FairnessExplanation)
	}
	if parts.VipExplanation != nil && *parts.VipExplanation != "" {
		fragments = append(fragments, *parts.VipExplanation)
	}
	return strings.Join(fragments, "; ")
}

// RecordSchedulingOutcome produces one outcome record per participant for a
// committed session. The chosen participant is marked as having gotten their
// preferred slot.
func RecordSchedulingOutcome(sessionID string, participantHashes []string, chosenParticipantHash string, committedTime time.Time) []OutcomeRecord {
	records := make([]OutcomeRecord, 0, len(participantHashes))
	for _, hash := range participantHashes {
		records = append(records, OutcomeRecord{
			SessionID:       sessionID,
			ParticipantHash: hash,
			GotPreferred:    hash == chosenParticipantHash,
			CommittedTime:   committedTime,
		})
	}
	return records
}
