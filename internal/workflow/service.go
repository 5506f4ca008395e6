// Package workflow orchestrates scheduling sessions across per-user data
// owners.
//
// The service is stateless between calls: sessions and holds live in
// persistence, each participant's state behind its owner, and the hold TTL
// bounds the damage of any crash mid-flight.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/meeting-coordinator/internal/availability"
	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/logging"
	"github.com/example/meeting-coordinator/internal/metrics"
	"github.com/example/meeting-coordinator/internal/notify"
	"github.com/example/meeting-coordinator/internal/persistence"
	"github.com/example/meeting-coordinator/internal/solver"
)

// DataOwner is the call surface the workflow needs from a participant's
// single-writer owner.
type DataOwner interface {
	ComputeAvailability(ctx context.Context, windowStart, windowEnd time.Time, accountFilter []string) ([]availability.BusyInterval, error)
	ListConstraints(ctx context.Context) ([]solver.Constraint, error)
	ListVipPolicies(ctx context.Context) ([]solver.VipPolicy, error)
	History(ctx context.Context, participantHashes []string) ([]solver.HistoryEntry, error)
	CreateHold(ctx context.Context, h hold.Hold) error
	UpdateHoldStatus(ctx context.Context, holdID string, to hold.Status) (hold.Hold, error)
	SetProviderEvent(ctx context.Context, holdID, eventID string) (hold.Hold, error)
	RevertCommit(ctx context.Context, holdID string) (hold.Hold, error)
	CreateEvent(ctx context.Context, accountID, title string, start, end time.Time) (string, error)
	RecordOutcome(ctx context.Context, record solver.OutcomeRecord) error
}

// OwnerRegistry hands out the owner for a user.
type OwnerRegistry interface {
	Owner(userID string) DataOwner
}

// Config wires the service's collaborators and tuning knobs.
type Config struct {
	Owners        OwnerRegistry
	Sessions      persistence.SessionRepository
	Holds         persistence.HoldRepository
	Sink          notify.Sink
	IDGenerator   func() string
	Now           func() time.Time
	Logger        *slog.Logger
	HoldTTL       time.Duration
	MaxCandidates int
	StepMinutes   int
}

// Service exposes the session API over the scheduling core.
type Service struct {
	owners        OwnerRegistry
	sessions      persistence.SessionRepository
	holds         persistence.HoldRepository
	sink          notify.Sink
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
	holdTTL       time.Duration
	maxCandidates int
	stepMinutes   int
}

const (
	defaultHoldTTL       = 4 * time.Hour
	defaultMaxCandidates = 5
)

// NewService builds a workflow service from the given configuration.
func NewService(cfg Config) *Service {
	idGenerator := cfg.IDGenerator
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	holdTTL := cfg.HoldTTL
	if holdTTL <= 0 {
		holdTTL = defaultHoldTTL
	}
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Service{
		owners:        cfg.Owners,
		sessions:      cfg.Sessions,
		holds:         cfg.Holds,
		sink:          cfg.Sink,
		idGenerator:   idGenerator,
		now:           now,
		logger:        cfg.Logger,
		holdTTL:       holdTTL,
		maxCandidates: maxCandidates,
		stepMinutes:   cfg.StepMinutes,
	}
}

// CreateSession gathers availability from every participant's owner, solves
// for ranked candidates, and reserves one hold per candidate and required
// account. The returned session is in candidates_ready.
func (s *Service) CreateSession(ctx context.Context, params CreateSessionParams) (Session, error) {
	logger := logging.ServiceLogger(ctx, s.logger, "workflow", "create_session", "creator_id", params.CreatorID)

	participants, err := s.validateCreate(params)
	if err != nil {
		return Session{}, err
	}

	// Gather every participant's state through their owner. A failure here
	// is fatal to the session; partial availability is never guessed.
	merged, constraints, policies, err := s.gather(ctx, participants, params.WindowStart, params.WindowEnd)
	if err != nil {
		return Session{}, err
	}

	hashes := make([]string, len(participants))
	for i, userID := range participants {
		hashes[i] = availability.ParticipantHash(userID)
	}

	input := solver.Input{
		WindowStart:        params.WindowStart,
		WindowEnd:          params.WindowEnd,
		DurationMinutes:    params.DurationMinutes,
		BusyIntervals:      merged,
		RequiredAccountIDs: availability.BuildGroupAccountIDs(participants),
		ParticipantHashes:  hashes,
		Constraints:        constraints,
		StepMinutes:        s.stepMinutes,
	}

	if kind := solver.SelectSolver(input); kind == solver.KindExternal {
		// No external solver is integrated; the greedy search is the
		// fallback until one is.
		logger.WarnContext(ctx, "problem routed to external solver; falling back to greedy", "participants", len(hashes), "constraints", len(constraints))
	}

	maxCandidates := params.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = s.maxCandidates
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	raw, err := solver.GreedySolver(input, maxCandidates)
	if err != nil {
		return Session{}, err
	}

	scored, err := s.applyScoring(ctx, participants, hashes, policies, constraints, raw)
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	sessionID := "ses_" + s.idGenerator()
	ttl := params.HoldTTL
	if ttl <= 0 {
		ttl = s.holdTTL
	}

	holds, err := s.createHolds(ctx, sessionID, participants, scored, params.Title, ttl, now)
	if err != nil {
		// Holds already created will self-expire within their owners.
		return Session{}, err
	}

	session := Session{
		SessionID:       sessionID,
		CreatorID:       params.CreatorID,
		Title:           params.Title,
		Participants:    participants,
		Status:          StatusCandidatesReady,
		WindowStart:     params.WindowStart,
		WindowEnd:       params.WindowEnd,
		DurationMinutes: params.DurationMinutes,
		Candidates:      scored,
		Holds:           holds,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.sessions.CreateSession(ctx, toPersistenceSession(session), toPersistenceCandidates(session)); err != nil {
		return Session{}, mapRepoError(err)
	}

	metrics.RecordSessionCreated()
	logger.InfoContext(ctx, "session created",
		"session_id", sessionID,
		"participants", len(participants),
		"candidates", len(scored),
		"holds", len(holds))
	return session, nil
}

// GetSession returns a session with its candidates and holds.
func (s *Service) GetSession(ctx context.Context, sessionID string) (Session, error) {
	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, mapRepoError(err)
	}
	session := fromPersistenceSession(record)

	candidates, err := s.GetCandidates(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	session.Candidates = candidates

	holds, err := s.GetHoldsBySession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	session.Holds = holds

	return session, nil
}

// GetCandidates returns a session's candidates ordered by descending score.
func (s *Service) GetCandidates(ctx context.Context, sessionID string) ([]Candidate, error) {
	records, err := s.sessions.ListCandidates(ctx, sessionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	candidates := make([]Candidate, 0, len(records))
	for _, record := range records {
		candidates = append(candidates, Candidate{
			CandidateID: record.ID,
			Start:       record.Start,
			End:         record.End,
			Score:       record.Score,
			Explanation: record.Explanation,
		})
	}
	return candidates, nil
}

// GetHoldsBySession returns every hold created for a session.
func (s *Service) GetHoldsBySession(ctx context.Context, sessionID string) ([]hold.Hold, error) {
	records, err := s.holds.ListHoldsBySession(ctx, sessionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	holds := make([]hold.Hold, 0, len(records))
	for _, record := range records {
		holds = append(holds, holdFromRecord(record))
	}
	return holds, nil
}

// CommitCandidate finalizes one candidate: its holds become committed and
// real events, the remaining held holds are released, and the session
// reaches committed. Event-creation failure reverts the commit so the
// caller can retry.
func (s *Service) CommitCandidate(ctx context.Context, userID, sessionID, candidateID string) (Session, error) {
	logger := logging.ServiceLogger(ctx, s.logger, "workflow", "commit_candidate", "session_id", sessionID, "candidate_id", candidateID)

	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, mapRepoError(err)
	}
	session := fromPersistenceSession(record)

	if !containsString(session.Participants, userID) {
		return Session{}, ErrUnauthorized
	}
	if session.Status != StatusCandidatesReady {
		return Session{}, &SessionStateError{SessionID: sessionID, Status: session.Status}
	}

	candidates, err := s.GetCandidates(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	var chosen *Candidate
	for i := range candidates {
		if candidates[i].CandidateID == candidateID {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		return Session{}, ErrNotFound
	}

	holdRecords, err := s.holds.ListHoldsBySession(ctx, sessionID)
	if err != nil {
		return Session{}, mapRepoError(err)
	}

	var chosenHolds, otherHolds []persistence.Hold
	for _, hr := range holdRecords {
		if hr.Start.Equal(chosen.Start) && hr.End.Equal(chosen.End) {
			chosenHolds = append(chosenHolds, hr)
		} else {
			otherHolds = append(otherHolds, hr)
		}
	}

	// Commit the chosen holds, then materialize them as real events. If any
	// event creation fails, every hold committed in this pass is reverted;
	// no hold is left committed without a provider event.
	committed := make([]persistence.Hold, 0, len(chosenHolds))
	for _, hr := range chosenHolds {
		dataOwner := s.owners.Owner(hr.OwnerUserID)
		if _, err := dataOwner.UpdateHoldStatus(ctx, hr.ID, hold.StatusCommitted); err != nil {
			s.revertCommitted(ctx, committed, logger)
			return Session{}, err
		}
		committed = append(committed, hr)
	}

	now := s.now()
	for _, hr := range committed {
		dataOwner := s.owners.Owner(hr.OwnerUserID)
		eventID, err := dataOwner.CreateEvent(ctx, hr.AccountID, session.Title, chosen.Start, chosen.End)
		if err != nil {
			s.revertCommitted(ctx, committed, logger)
			return Session{}, &DependencyError{UserID: hr.OwnerUserID, Op: "create event", Err: err}
		}
		if _, err := dataOwner.SetProviderEvent(ctx, hr.ID, eventID); err != nil {
			s.revertCommitted(ctx, committed, logger)
			return Session{}, err
		}
		s.send(ctx, logger, notify.Reservation{
			Kind:      notify.KindCommitted,
			SessionID: sessionID,
			HoldID:    hr.ID,
			AccountID: hr.AccountID,
			Start:     chosen.Start,
			End:       chosen.End,
			EventID:   eventID,
			SentAt:    now,
		})
	}

	// Non-chosen holds are released now rather than left to the TTL, so the
	// other calendars unblock as soon as the decision is made. A failed
	// release is logged; the TTL remains the backstop.
	for _, hr := range otherHolds {
		if hold.Status(hr.Status) != hold.StatusHeld {
			continue
		}
		dataOwner := s.owners.Owner(hr.OwnerUserID)
		if _, err := dataOwner.UpdateHoldStatus(ctx, hr.ID, hold.StatusReleased); err != nil {
			logger.WarnContext(ctx, "failed to release non-chosen hold", "hold_id", hr.ID, "error", err)
			continue
		}
		s.send(ctx, logger, notify.Reservation{
			Kind:      notify.KindReleased,
			SessionID: sessionID,
			HoldID:    hr.ID,
			AccountID: hr.AccountID,
			Start:     hr.Start,
			End:       hr.End,
			SentAt:    now,
		})
	}

	if err := s.sessions.UpdateSessionStatus(ctx, sessionID, string(StatusCommitted), &candidateID, now); err != nil {
		return Session{}, mapRepoError(err)
	}

	s.recordOutcomes(ctx, logger, session, userID, now)

	metrics.RecordSessionFinished(string(StatusCommitted))
	logger.InfoContext(ctx, "session committed", "holds_committed", len(committed))

	return s.GetSession(ctx, sessionID)
}

// CancelSession releases every still-held hold and marks the session
// cancelled.
func (s *Service) CancelSession(ctx context.Context, userID, sessionID string) (Session, error) {
	logger := logging.ServiceLogger(ctx, s.logger, "workflow", "cancel_session", "session_id", sessionID)

	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, mapRepoError(err)
	}
	session := fromPersistenceSession(record)

	if !containsString(session.Participants, userID) {
		return Session{}, ErrUnauthorized
	}
	if session.Status != StatusCandidatesReady {
		return Session{}, &SessionStateError{SessionID: sessionID, Status: session.Status}
	}

	holdRecords, err := s.holds.ListHoldsBySession(ctx, sessionID)
	if err != nil {
		return Session{}, mapRepoError(err)
	}

	now := s.now()
	for _, hr := range holdRecords {
		if hold.Status(hr.Status) != hold.StatusHeld {
			continue
		}
		dataOwner := s.owners.Owner(hr.OwnerUserID)
		if _, err := dataOwner.UpdateHoldStatus(ctx, hr.ID, hold.StatusReleased); err != nil {
			logger.WarnContext(ctx, "failed to release hold during cancel", "hold_id", hr.ID, "error", err)
			continue
		}
		s.send(ctx, logger, notify.Reservation{
			Kind:      notify.KindReleased,
			SessionID: sessionID,
			HoldID:    hr.ID,
			AccountID: hr.AccountID,
			Start:     hr.Start,
			End:       hr.End,
			SentAt:    now,
		})
	}

	if err := s.sessions.UpdateSessionStatus(ctx, sessionID, string(StatusCancelled), nil, now); err != nil {
		return Session{}, mapRepoError(err)
	}

	metrics.RecordSessionFinished(string(StatusCancelled))
	logger.InfoContext(ctx, "session cancelled")

	return s.GetSession(ctx, sessionID)
}

func (s *Service) validateCreate(params CreateSessionParams) ([]string, error) {
	vErr := &ValidationError{}

	if params.CreatorID == "" {
		vErr.Add("creator_id", "creator is required")
	}
	if params.DurationMinutes < solver.MinDurationMinutes || params.DurationMinutes > solver.MaxDurationMinutes {
		vErr.Add("duration_minutes", "duration must be between 15 and 480 minutes")
	}
	if params.WindowStart.IsZero() || params.WindowEnd.IsZero() {
		vErr.Add("window", "window start and end are required")
	} else if !params.WindowStart.Before(params.WindowEnd) {
		vErr.Add("window", "window start must be before window end")
	}
	if params.HoldTTL != 0 {
		// The TTL bounds every hold's lifetime; an unbounded override
		// would leave calendars blocked past any sweep.
		if params.HoldTTL < hold.MinDurationHours*time.Hour || params.HoldTTL > hold.MaxDurationHours*time.Hour {
			vErr.Add("hold_ttl", fmt.Sprintf("hold TTL must be between %d and %d hours", hold.MinDurationHours, hold.MaxDurationHours))
		}
	}

	participants := uniqueStrings(append([]string{params.CreatorID}, params.Participants...))
	if len(params.Participants) > 0 && len(participants) < 2 {
		vErr.Add("participants", "group sessions require at least two distinct participants")
	}

	if vErr.HasErrors() {
		return nil, vErr
	}
	return participants, nil
}

// gather collects availability, constraints, and VIP policies from each
// participant's owner, anonymizing intervals before they cross users.
func (s *Service) gather(ctx context.Context, participants []string, windowStart, windowEnd time.Time) ([]availability.BusyInterval, []solver.Constraint, []solver.VipPolicy, error) {
	users := make([]availability.UserAvailability, 0, len(participants))
	var constraints []solver.Constraint
	var policies []solver.VipPolicy

	for _, userID := range participants {
		dataOwner := s.owners.Owner(userID)

		intervals, err := dataOwner.ComputeAvailability(ctx, windowStart, windowEnd, nil)
		if err != nil {
			return nil, nil, nil, &DependencyError{UserID: userID, Op: "compute availability", Err: err}
		}
		users = append(users, availability.UserAvailability{UserID: userID, Intervals: intervals})

		userConstraints, err := dataOwner.ListConstraints(ctx)
		if err != nil {
			return nil, nil, nil, &DependencyError{UserID: userID, Op: "list constraints", Err: err}
		}
		constraints = append(constraints, userConstraints...)

		userPolicies, err := dataOwner.ListVipPolicies(ctx)
		if err != nil {
			return nil, nil, nil, &DependencyError{UserID: userID, Op: "list vip policies", Err: err}
		}
		policies = append(policies, userPolicies...)
	}

	return availability.MergeBusyIntervals(users), constraints, policies, nil
}

// applyScoring folds fairness and VIP adjustments into the solver's base
// scores and rebuilds each candidate's explanation.
func (s *Service) applyScoring(ctx context.Context, participants, hashes []string, policies []solver.VipPolicy, constraints []solver.Constraint, raw []solver.ScoredCandidate) ([]Candidate, error) {
	history, err := s.owners.Owner(participants[0]).History(ctx, hashes)
	if err != nil {
		return nil, &DependencyError{UserID: participants[0], Op: "list history", Err: err}
	}

	// Per-participant adjustments average into one session-level factor; a
	// balanced group stays neutral.
	fairnessSum := 0.0
	fairnessExplanations := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		score := solver.ComputeFairnessScore(history, hash)
		fairnessSum += score.Adjustment
		if score.Explanation != "" {
			fairnessExplanations = append(fairnessExplanations, score.Explanation)
		}
	}
	fairness := fairnessSum / float64(len(hashes))

	vip := solver.ApplyVipWeight(policies, hashes)

	// Every surviving candidate satisfied the hard constraints, which earns
	// the constraint component of the base score.
	constraintScore := float64(5 * len(constraints))

	candidates := make([]Candidate, 0, len(raw))
	for _, candidate := range raw {
		final := solver.ComputeMultiFactorScore(solver.ScoreFactors{
			TimePreferenceScore: float64(candidate.Score),
			ConstraintScore:     constraintScore,
			FairnessAdjustment:  fairness,
			VipWeight:           vip.Weight,
		})
		fairnessExplanation := ""
		if fairness != 1.0 && len(fairnessExplanations) > 0 {
			fairnessExplanation = strings.Join(fairnessExplanations, "; ")
		}
		explanation := solver.BuildExplanation(solver.ExplanationParts{
			BaseExplanation:     candidate.Explanation,
			FairnessExplanation: fairnessExplanation,
			VipExplanation:      vip.Explanation,
		})
		candidates = append(candidates, Candidate{
			CandidateID: candidate.CandidateID,
			Start:       candidate.Start,
			End:         candidate.End,
			Score:       final,
			Explanation: explanation,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Start.Before(candidates[j].Start)
		}
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}

// createHolds reserves one hold per candidate and participant account and
// emits a tentative-reservation notification for each.
func (s *Service) createHolds(ctx context.Context, sessionID string, participants []string, candidates []Candidate, title string, ttl time.Duration, now time.Time) ([]hold.Hold, error) {
	logger := logging.ServiceLogger(ctx, s.logger, "workflow", "create_holds", "session_id", sessionID)

	holds := make([]hold.Hold, 0, len(candidates)*len(participants))
	for _, candidate := range candidates {
		for _, userID := range participants {
			account := availability.SyntheticAccountID(userID)
			h := hold.New(sessionID, account, candidate.Start, candidate.End, title, ttl, now)

			dataOwner := s.owners.Owner(userID)
			if err := dataOwner.CreateHold(ctx, h); err != nil {
				return nil, &DependencyError{UserID: userID, Op: "create hold", Err: err}
			}
			holds = append(holds, h)

			s.send(ctx, logger, notify.Reservation{
				Kind:      notify.KindTentative,
				SessionID: sessionID,
				HoldID:    h.ID,
				AccountID: account,
				Start:     candidate.Start,
				End:       candidate.End,
				SentAt:    now,
			})
		}
	}
	return holds, nil
}

// revertCommitted applies the compensating action to holds committed in a
// failed commit pass.
func (s *Service) revertCommitted(ctx context.Context, committed []persistence.Hold, logger *slog.Logger) {
	for _, hr := range committed {
		dataOwner := s.owners.Owner(hr.OwnerUserID)
		if _, err := dataOwner.RevertCommit(ctx, hr.ID); err != nil {
			logger.ErrorContext(ctx, "failed to revert committed hold", "hold_id", hr.ID, "error", err)
		}
	}
}

// recordOutcomes feeds the committed session back into each participant's
// fairness history. The committing user is recorded as the participant who
// got their preferred slot.
func (s *Service) recordOutcomes(ctx context.Context, logger *slog.Logger, session Session, committerID string, now time.Time) {
	hashes := make([]string, len(session.Participants))
	for i, userID := range session.Participants {
		hashes[i] = availability.ParticipantHash(userID)
	}
	records := solver.RecordSchedulingOutcome(session.SessionID, hashes, availability.ParticipantHash(committerID), now)
	for i, record := range records {
		dataOwner := s.owners.Owner(session.Participants[i])
		if err := dataOwner.RecordOutcome(ctx, record); err != nil {
			logger.WarnContext(ctx, "failed to record scheduling outcome", "participant", record.ParticipantHash, "error", err)
		}
	}
}

// send delivers a notification best-effort; failures never fail the session
// operation that triggered them.
func (s *Service) send(ctx context.Context, logger *slog.Logger, reservation notify.Reservation) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Send(ctx, reservation); err != nil {
		logger.WarnContext(ctx, "failed to send reservation notification", "kind", string(reservation.Kind), "hold_id", reservation.HoldID, "error", err)
	}
}

func toPersistenceSession(session Session) persistence.Session {
	return persistence.Session{
		ID:                   session.SessionID,
		CreatorID:            session.CreatorID,
		Title:                session.Title,
		Participants:         session.Participants,
		Status:               string(session.Status),
		WindowStart:          session.WindowStart,
		WindowEnd:            session.WindowEnd,
		DurationMinutes:      session.DurationMinutes,
		CommittedCandidateID: session.CommittedCandidateID,
		CreatedAt:            session.CreatedAt,
		UpdatedAt:            session.UpdatedAt,
	}
}

func toPersistenceCandidates(session Session) []persistence.Candidate {
	candidates := make([]persistence.Candidate, 0, len(session.Candidates))
	for _, candidate := range session.Candidates {
		candidates = append(candidates, persistence.Candidate{
			ID:          candidate.CandidateID,
			SessionID:   session.SessionID,
			Start:       candidate.Start,
			End:         candidate.End,
			Score:       candidate.Score,
			Explanation: candidate.Explanation,
		})
	}
	return candidates
}

func fromPersistenceSession(record persistence.Session) Session {
	return Session{
		SessionID:            record.ID,
		CreatorID:            record.CreatorID,
		Title:                record.Title,
		Participants:         record.Participants,
		Status:               SessionStatus(record.Status),
		WindowStart:          record.WindowStart,
		WindowEnd:            record.WindowEnd,
		DurationMinutes:      record.DurationMinutes,
		CommittedCandidateID: record.CommittedCandidateID,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}
}

func holdFromRecord(record persistence.Hold) hold.Hold {
	return hold.Hold{
		ID:              record.ID,
		SessionID:       record.SessionID,
		AccountID:       record.AccountID,
		Title:           record.Title,
		Start:           record.Start,
		End:             record.End,
		ProviderEventID: record.ProviderEventID,
		ExpiresAt:       record.ExpiresAt,
		Status:          hold.Status(record.Status),
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
