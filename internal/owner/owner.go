// Package owner implements the per-user data owner: the single writer for
// one user's events, constraints, VIP policies, and holds.
//
// Every operation on an Owner runs under that owner's mutex, so all
// mutations of one user's state are serialized without any cross-user
// locking. The workflow coordinates owners but never bypasses them.
package owner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/meeting-coordinator/internal/availability"
	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/logging"
	"github.com/example/meeting-coordinator/internal/metrics"
	"github.com/example/meeting-coordinator/internal/persistence"
	"github.com/example/meeting-coordinator/internal/solver"
)

// Owner serializes access to a single user's scheduling state.
type Owner struct {
	userID      string
	deps        Deps
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	// serialize is the single-writer discipline: all operations for this
	// user run one at a time.
	serialize chan struct{}
}

// Deps bundles the repositories an owner persists through.
type Deps struct {
	Events      persistence.EventRepository
	Constraints persistence.ConstraintRepository
	VipPolicies persistence.VipPolicyRepository
	Holds       persistence.HoldRepository
	History     persistence.HistoryRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

func newOwner(userID string, deps Deps) *Owner {
	idGenerator := deps.IDGenerator
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	o := &Owner{
		userID:      userID,
		deps:        deps,
		idGenerator: idGenerator,
		now:         now,
		logger:      deps.Logger,
		serialize:   make(chan struct{}, 1),
	}
	o.serialize <- struct{}{}
	return o
}

// UserID returns the user this owner serves.
func (o *Owner) UserID() string {
	return o.userID
}

// acquire takes the owner's single-writer slot, honoring ctx cancellation.
func (o *Owner) acquire(ctx context.Context) error {
	select {
	case <-o.serialize:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Owner) release() {
	o.serialize <- struct{}{}
}

// ComputeAvailability returns the user's busy intervals intersecting the
// window, optionally restricted to the given accounts, merged into a minimal
// non-overlapping set.
func (o *Owner) ComputeAvailability(ctx context.Context, windowStart, windowEnd time.Time, accountFilter []string) ([]availability.BusyInterval, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	events, err := o.deps.Events.ListEventsOverlapping(ctx, o.userID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("owner %s: compute availability: %w", o.userID, err)
	}

	var intervals []availability.BusyInterval
	for _, event := range events {
		if len(accountFilter) > 0 && !containsString(accountFilter, event.AccountID) {
			continue
		}
		intervals = append(intervals, availability.BusyInterval{
			Start:      event.Start,
			End:        event.End,
			AccountIDs: []string{event.AccountID},
		})
	}
	return availability.MergeOverlapping(intervals), nil
}

// AddConstraint stores a scheduling constraint for this user.
func (o *Owner) AddConstraint(ctx context.Context, constraint solver.Constraint) error {
	if err := o.acquire(ctx); err != nil {
		return err
	}
	defer o.release()

	record := persistence.Constraint{
		ID:          "cst_" + o.idGenerator(),
		UserID:      o.userID,
		Kind:        constraint.Kind,
		StartHour:   constraint.StartHour,
		EndHour:     constraint.EndHour,
		ActiveFrom:  constraint.ActiveFrom,
		ActiveUntil: constraint.ActiveUntil,
		CreatedAt:   o.now(),
	}
	if err := o.deps.Constraints.CreateConstraint(ctx, record); err != nil {
		return fmt.Errorf("owner %s: add constraint: %w", o.userID, err)
	}
	return nil
}

// ListConstraints returns the user's constraints as solver descriptors.
func (o *Owner) ListConstraints(ctx context.Context) ([]solver.Constraint, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	records, err := o.deps.Constraints.ListConstraints(ctx, o.userID)
	if err != nil {
		return nil, fmt.Errorf("owner %s: list constraints: %w", o.userID, err)
	}
	constraints := make([]solver.Constraint, 0, len(records))
	for _, record := range records {
		constraints = append(constraints, solver.Constraint{
			Kind:        record.Kind,
			StartHour:   record.StartHour,
			EndHour:     record.EndHour,
			ActiveFrom:  record.ActiveFrom,
			ActiveUntil: record.ActiveUntil,
		})
	}
	return constraints, nil
}

// CreateVipPolicy stores a VIP priority policy for this user.
func (o *Owner) CreateVipPolicy(ctx context.Context, participantHash, displayName string, priorityWeight float64) error {
	if err := o.acquire(ctx); err != nil {
		return err
	}
	defer o.release()

	record := persistence.VipPolicy{
		ID:              "vip_" + o.idGenerator(),
		UserID:          o.userID,
		ParticipantHash: participantHash,
		DisplayName:     displayName,
		PriorityWeight:  priorityWeight,
		CreatedAt:       o.now(),
	}
	if err := o.deps.VipPolicies.CreateVipPolicy(ctx, record); err != nil {
		return fmt.Errorf("owner %s: create vip policy: %w", o.userID, err)
	}
	return nil
}

// ListVipPolicies returns the user's VIP policies as solver inputs.
func (o *Owner) ListVipPolicies(ctx context.Context) ([]solver.VipPolicy, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	records, err := o.deps.VipPolicies.ListVipPolicies(ctx, o.userID)
	if err != nil {
		return nil, fmt.Errorf("owner %s: list vip policies: %w", o.userID, err)
	}
	policies := make([]solver.VipPolicy, 0, len(records))
	for _, record := range records {
		policies = append(policies, solver.VipPolicy{
			ParticipantHash: record.ParticipantHash,
			DisplayName:     record.DisplayName,
			PriorityWeight:  record.PriorityWeight,
		})
	}
	return policies, nil
}

// CreateEvent writes a calendar event into the user's canonical store and
// returns its identifier. The workflow calls this when materializing a
// committed hold.
func (o *Owner) CreateEvent(ctx context.Context, accountID, title string, start, end time.Time) (string, error) {
	if err := o.acquire(ctx); err != nil {
		return "", err
	}
	defer o.release()

	event := persistence.Event{
		ID:        "evt_" + o.idGenerator(),
		UserID:    o.userID,
		AccountID: accountID,
		Title:     title,
		Start:     start,
		End:       end,
		CreatedAt: o.now(),
	}
	if err := o.deps.Events.CreateEvent(ctx, event); err != nil {
		return "", fmt.Errorf("owner %s: create event: %w", o.userID, err)
	}
	return event.ID, nil
}

// CreateHold stores a held reservation owned by this user.
func (o *Owner) CreateHold(ctx context.Context, h hold.Hold) error {
	if err := o.acquire(ctx); err != nil {
		return err
	}
	defer o.release()

	if err := o.deps.Holds.CreateHold(ctx, toPersistenceHold(h, o.userID)); err != nil {
		return fmt.Errorf("owner %s: create hold: %w", o.userID, err)
	}
	metrics.RecordHoldCreated()
	return nil
}

// GetHold retrieves one of this user's holds.
func (o *Owner) GetHold(ctx context.Context, holdID string) (hold.Hold, error) {
	if err := o.acquire(ctx); err != nil {
		return hold.Hold{}, err
	}
	defer o.release()
	return o.getHoldLocked(ctx, holdID)
}

func (o *Owner) getHoldLocked(ctx context.Context, holdID string) (hold.Hold, error) {
	record, err := o.deps.Holds.GetHold(ctx, holdID)
	if err != nil {
		return hold.Hold{}, fmt.Errorf("owner %s: get hold %s: %w", o.userID, holdID, err)
	}
	if record.OwnerUserID != o.userID {
		return hold.Hold{}, fmt.Errorf("owner %s: get hold %s: %w", o.userID, holdID, persistence.ErrNotFound)
	}
	return fromPersistenceHold(record), nil
}

// UpdateHoldStatus applies a lifecycle transition to one of this user's
// holds and persists the result.
func (o *Owner) UpdateHoldStatus(ctx context.Context, holdID string, to hold.Status) (hold.Hold, error) {
	if err := o.acquire(ctx); err != nil {
		return hold.Hold{}, err
	}
	defer o.release()

	current, err := o.getHoldLocked(ctx, holdID)
	if err != nil {
		return hold.Hold{}, err
	}

	next, err := hold.Transition(current.Status, to)
	if err != nil {
		return hold.Hold{}, err
	}
	current.Status = next
	current.UpdatedAt = o.now()

	if err := o.deps.Holds.UpdateHold(ctx, toPersistenceHold(current, o.userID)); err != nil {
		return hold.Hold{}, fmt.Errorf("owner %s: update hold %s: %w", o.userID, holdID, err)
	}
	metrics.RecordHoldTransition(string(to))
	logging.ServiceLogger(ctx, o.logger, "owner", "update_hold_status", "user_id", o.userID).
		InfoContext(ctx, "hold transitioned", "hold_id", holdID, "to", string(to))
	return current, nil
}

// SetProviderEvent records the provider event created for a committed hold.
func (o *Owner) SetProviderEvent(ctx context.Context, holdID, eventID string) (hold.Hold, error) {
	if err := o.acquire(ctx); err != nil {
		return hold.Hold{}, err
	}
	defer o.release()

	current, err := o.getHoldLocked(ctx, holdID)
	if err != nil {
		return hold.Hold{}, err
	}
	if current.Status != hold.StatusCommitted {
		return hold.Hold{}, fmt.Errorf("owner %s: hold %s is %s; only committed holds carry provider events", o.userID, holdID, current.Status)
	}
	current.ProviderEventID = &eventID
	current.UpdatedAt = o.now()
	if err := o.deps.Holds.UpdateHold(ctx, toPersistenceHold(current, o.userID)); err != nil {
		return hold.Hold{}, fmt.Errorf("owner %s: set provider event on %s: %w", o.userID, holdID, err)
	}
	return current, nil
}

// RevertCommit is the compensating action for a commit whose event creation
// failed: the hold returns to held with its original expiry so the caller
// can retry. It is deliberately outside the public transition table.
func (o *Owner) RevertCommit(ctx context.Context, holdID string) (hold.Hold, error) {
	if err := o.acquire(ctx); err != nil {
		return hold.Hold{}, err
	}
	defer o.release()

	current, err := o.getHoldLocked(ctx, holdID)
	if err != nil {
		return hold.Hold{}, err
	}
	if current.Status != hold.StatusCommitted {
		return hold.Hold{}, fmt.Errorf("owner %s: cannot revert hold %s in status %s", o.userID, holdID, current.Status)
	}
	current.Status = hold.StatusHeld
	current.ProviderEventID = nil
	current.UpdatedAt = o.now()
	if err := o.deps.Holds.UpdateHold(ctx, toPersistenceHold(current, o.userID)); err != nil {
		return hold.Hold{}, fmt.Errorf("owner %s: revert commit on %s: %w", o.userID, holdID, err)
	}
	logging.ServiceLogger(ctx, o.logger, "owner", "revert_commit", "user_id", o.userID).
		WarnContext(ctx, "commit reverted after event creation failure", "hold_id", holdID)
	return current, nil
}

// ExtendHolds pushes the expiry of the given held holds to now + hours.
func (o *Owner) ExtendHolds(ctx context.Context, holdIDs []string, hours int) ([]hold.Hold, error) {
	if err := hold.ValidateDurationHours(hours); err != nil {
		return nil, err
	}
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	now := o.now()
	extended := make([]hold.Hold, 0, len(holdIDs))
	for _, holdID := range holdIDs {
		current, err := o.getHoldLocked(ctx, holdID)
		if err != nil {
			return nil, err
		}
		expiry, err := hold.ComputeExtendedExpiry(current, hours, now)
		if err != nil {
			return nil, err
		}
		current.ExpiresAt = expiry
		current.UpdatedAt = now
		if err := o.deps.Holds.UpdateHold(ctx, toPersistenceHold(current, o.userID)); err != nil {
			return nil, fmt.Errorf("owner %s: extend hold %s: %w", o.userID, holdID, err)
		}
		extended = append(extended, current)
	}
	return extended, nil
}

// DetectHoldConflicts surfaces this user's active holds overlapping the
// prospective window for the given account.
func (o *Owner) DetectHoldConflicts(ctx context.Context, accountID string, newStart, newEnd time.Time) ([]hold.Hold, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	records, err := o.deps.Holds.ListActiveHoldsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("owner %s: list active holds: %w", o.userID, err)
	}

	holds := make([]hold.Hold, 0, len(records))
	candidateTimes := make(map[string]hold.TimeRange, len(records))
	for _, record := range records {
		h := fromPersistenceHold(record)
		holds = append(holds, h)
		candidateTimes[h.ID] = hold.TimeRange{Start: h.Start, End: h.End}
	}
	return hold.DetectConflicts(newStart, newEnd, holds, candidateTimes), nil
}

// RecordOutcome appends a committed session's outcome for one participant.
func (o *Owner) RecordOutcome(ctx context.Context, record solver.OutcomeRecord) error {
	if err := o.acquire(ctx); err != nil {
		return err
	}
	defer o.release()

	if err := o.deps.History.RecordOutcome(ctx, record.ParticipantHash, record.GotPreferred, record.CommittedTime); err != nil {
		return fmt.Errorf("owner %s: record outcome: %w", o.userID, err)
	}
	return nil
}

// History returns fairness aggregates for the given participants.
func (o *Owner) History(ctx context.Context, participantHashes []string) ([]solver.HistoryEntry, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()

	records, err := o.deps.History.ListHistory(ctx, participantHashes)
	if err != nil {
		return nil, fmt.Errorf("owner %s: list history: %w", o.userID, err)
	}
	entries := make([]solver.HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, solver.HistoryEntry{
			ParticipantHash:      record.ParticipantHash,
			SessionsParticipated: record.SessionsParticipated,
			SessionsPreferred:    record.SessionsPreferred,
			LastSessionTs:        record.LastSessionTs,
		})
	}
	return entries, nil
}

func toPersistenceHold(h hold.Hold, ownerUserID string) persistence.Hold {
	return persistence.Hold{
		ID:              h.ID,
		SessionID:       h.SessionID,
		AccountID:       h.AccountID,
		OwnerUserID:     ownerUserID,
		Title:           h.Title,
		Start:           h.Start,
		End:             h.End,
		ProviderEventID: h.ProviderEventID,
		ExpiresAt:       h.ExpiresAt,
		Status:          string(h.Status),
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}

func fromPersistenceHold(record persistence.Hold) hold.Hold {
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

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
