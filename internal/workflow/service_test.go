package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/meeting-coordinator/internal/availability"
	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/notify"
	"github.com/example/meeting-coordinator/internal/persistence"
	"github.com/example/meeting-coordinator/internal/solver"
)

// memoryStore backs the fake owners and repositories with one shared state
// so the service sees a consistent view across collaborators.
type memoryStore struct {
	mu         sync.Mutex
	sessions   map[string]persistence.Session
	candidates map[string][]persistence.Candidate
	holds      map[string]persistence.Hold
	history    map[string]persistence.HistoryEntry

	busy        map[string][]availability.BusyInterval
	constraints map[string][]solver.Constraint
	policies    map[string][]solver.VipPolicy

	eventSeq    int
	failEvents  bool
	ownerErrors map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions:    make(map[string]persistence.Session),
		candidates:  make(map[string][]persistence.Candidate),
		holds:       make(map[string]persistence.Hold),
		history:     make(map[string]persistence.HistoryEntry),
		busy:        make(map[string][]availability.BusyInterval),
		constraints: make(map[string][]solver.Constraint),
		policies:    make(map[string][]solver.VipPolicy),
		ownerErrors: make(map[string]error),
	}
}

type fakeOwner struct {
	userID string
	store  *memoryStore
}

type fakeRegistry struct {
	store *memoryStore
}

func (r *fakeRegistry) Owner(userID string) DataOwner {
	return &fakeOwner{userID: userID, store: r.store}
}

func (o *fakeOwner) ComputeAvailability(_ context.Context, _, _ time.Time, _ []string) ([]availability.BusyInterval, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if err := o.store.ownerErrors[o.userID]; err != nil {
		return nil, err
	}
	return o.store.busy[o.userID], nil
}

func (o *fakeOwner) ListConstraints(context.Context) ([]solver.Constraint, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	return o.store.constraints[o.userID], nil
}

func (o *fakeOwner) ListVipPolicies(context.Context) ([]solver.VipPolicy, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	return o.store.policies[o.userID], nil
}

func (o *fakeOwner) History(_ context.Context, participantHashes []string) ([]solver.HistoryEntry, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	var entries []solver.HistoryEntry
	for _, hash := range participantHashes {
		if record, ok := o.store.history[hash]; ok {
			entries = append(entries, solver.HistoryEntry{
				ParticipantHash:      record.ParticipantHash,
				SessionsParticipated: record.SessionsParticipated,
				SessionsPreferred:    record.SessionsPreferred,
				LastSessionTs:        record.LastSessionTs,
			})
		}
	}
	return entries, nil
}

func (o *fakeOwner) CreateHold(_ context.Context, h hold.Hold) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	o.store.holds[h.ID] = persistence.Hold{
		ID:              h.ID,
		SessionID:       h.SessionID,
		OwnerUserID:     o.userID,
		AccountID:       h.AccountID,
		Title:           h.Title,
		Start:           h.Start,
		End:             h.End,
		ProviderEventID: h.ProviderEventID,
		ExpiresAt:       h.ExpiresAt,
		Status:          string(h.Status),
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
	return nil
}

func (o *fakeOwner) UpdateHoldStatus(_ context.Context, holdID string, to hold.Status) (hold.Hold, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	record, ok := o.store.holds[holdID]
	if !ok {
		return hold.Hold{}, persistence.ErrNotFound
	}
	if !hold.IsValidTransition(hold.Status(record.Status), to) {
		return hold.Hold{}, &hold.InvalidTransitionError{From: hold.Status(record.Status), To: to}
	}
	record.Status = string(to)
	o.store.holds[holdID] = record
	return holdFromRecord(record), nil
}

func (o *fakeOwner) SetProviderEvent(_ context.Context, holdID, eventID string) (hold.Hold, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	record, ok := o.store.holds[holdID]
	if !ok {
		return hold.Hold{}, persistence.ErrNotFound
	}
	record.ProviderEventID = &eventID
	o.store.holds[holdID] = record
	return holdFromRecord(record), nil
}

func (o *fakeOwner) RevertCommit(_ context.Context, holdID string) (hold.Hold, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	record, ok := o.store.holds[holdID]
	if !ok {
		return hold.Hold{}, persistence.ErrNotFound
	}
	record.Status = string(hold.StatusHeld)
	record.ProviderEventID = nil
	o.store.holds[holdID] = record
	return holdFromRecord(record), nil
}

func (o *fakeOwner) CreateEvent(context.Context, string, string, time.Time, time.Time) (string, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if o.store.failEvents {
		return "", errors.New("calendar provider unavailable")
	}
	o.store.eventSeq++
	return fmt.Sprintf("evt_%04d", o.store.eventSeq), nil
}

func (o *fakeOwner) RecordOutcome(_ context.Context, record solver.OutcomeRecord) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	entry := o.store.history[record.ParticipantHash]
	entry.ParticipantHash = record.ParticipantHash
	entry.SessionsParticipated++
	if record.GotPreferred {
		entry.SessionsPreferred++
	}
	entry.LastSessionTs = record.CommittedTime
	o.store.history[record.ParticipantHash] = entry
	return nil
}

type fakeSessionRepo struct {
	store *memoryStore
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session persistence.Session, candidates []persistence.Candidate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[session.ID]; ok {
		return persistence.ErrDuplicate
	}
	r.store.sessions[session.ID] = session
	r.store.candidates[session.ID] = candidates
	return nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, id string) (persistence.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[id]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) UpdateSessionStatus(_ context.Context, id, status string, committedCandidateID *string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[id]
	if !ok {
		return persistence.ErrNotFound
	}
	session.Status = status
	session.CommittedCandidateID = committedCandidateID
	session.UpdatedAt = updatedAt
	r.store.sessions[id] = session
	return nil
}

func (r *fakeSessionRepo) ListCandidates(_ context.Context, sessionID string) ([]persistence.Candidate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.candidates[sessionID], nil
}

func (r *fakeSessionRepo) ListSessionsByStatus(_ context.Context, status string) ([]persistence.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessions []persistence.Session
	for _, session := range r.store.sessions {
		if session.Status == status {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

type fakeHoldRepo struct {
	store *memoryStore
}

func (r *fakeHoldRepo) CreateHold(_ context.Context, h persistence.Hold) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.holds[h.ID] = h
	return nil
}

func (r *fakeHoldRepo) GetHold(_ context.Context, id string) (persistence.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record, ok := r.store.holds[id]
	if !ok {
		return persistence.Hold{}, persistence.ErrNotFound
	}
	return record, nil
}

func (r *fakeHoldRepo) UpdateHold(_ context.Context, h persistence.Hold) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.holds[h.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.holds[h.ID] = h
	return nil
}

func (r *fakeHoldRepo) ListHoldsBySession(_ context.Context, sessionID string) ([]persistence.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var holds []persistence.Hold
	for _, record := range r.store.holds {
		if record.SessionID == sessionID {
			holds = append(holds, record)
		}
	}
	return holds, nil
}

func (r *fakeHoldRepo) ListActiveHoldsByAccount(_ context.Context, accountID string) ([]persistence.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var holds []persistence.Hold
	for _, record := range r.store.holds {
		if record.AccountID != accountID {
			continue
		}
		status := hold.Status(record.Status)
		if status == hold.StatusHeld || status == hold.StatusCommitted {
			holds = append(holds, record)
		}
	}
	return holds, nil
}

func (r *fakeHoldRepo) ListHeldHolds(_ context.Context) ([]persistence.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var holds []persistence.Hold
	for _, record := range r.store.holds {
		if hold.Status(record.Status) == hold.StatusHeld {
			holds = append(holds, record)
		}
	}
	return holds, nil
}

type captureSink struct {
	mu           sync.Mutex
	reservations []notify.Reservation
}

func (c *captureSink) Send(_ context.Context, reservation notify.Reservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reservations = append(c.reservations, reservation)
	return nil
}

func (c *captureSink) byKind(kind notify.Kind) []notify.Reservation {
	c.mu.Lock()
	defer c.mu.Unlock()
	var matched []notify.Reservation
	for _, reservation := range c.reservations {
		if reservation.Kind == kind {
			matched = append(matched, reservation)
		}
	}
	return matched
}

type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

type fixture struct {
	service *Service
	store   *memoryStore
	sink    *captureSink
	clock   *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemoryStore()
	sink := &captureSink{}
	clock := &testClock{at: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)}
	seq := 0
	service := NewService(Config{
		Owners:   &fakeRegistry{store: store},
		Sessions: &fakeSessionRepo{store: store},
		Holds:    &fakeHoldRepo{store: store},
		Sink:     sink,
		IDGenerator: func() string {
			seq++
			return fmt.Sprintf("%08d", seq)
		},
		Now:     clock.Now,
		HoldTTL: 2 * time.Hour,
	})
	return &fixture{service: service, store: store, sink: sink, clock: clock}
}

func workingHoursParams(creator string, participants ...string) CreateSessionParams {
	return CreateSessionParams{
		CreatorID:       creator,
		Title:           "Design review",
		Participants:    participants,
		WindowStart:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		WindowEnd:       time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateSessionParams)
		field  string
	}{
		{"missing creator", func(p *CreateSessionParams) { p.CreatorID = "" }, "creator_id"},
		{"duration too short", func(p *CreateSessionParams) { p.DurationMinutes = 10 }, "duration_minutes"},
		{"duration too long", func(p *CreateSessionParams) { p.DurationMinutes = 481 }, "duration_minutes"},
		{"inverted window", func(p *CreateSessionParams) {
			p.WindowStart, p.WindowEnd = p.WindowEnd, p.WindowStart
		}, "window"},
		{"group of one", func(p *CreateSessionParams) { p.Participants = []string{p.CreatorID} }, "participants"},
		{"hold ttl above bound", func(p *CreateSessionParams) { p.HoldTTL = 1000 * time.Hour }, "hold_ttl"},
		{"hold ttl below bound", func(p *CreateSessionParams) { p.HoldTTL = 30 * time.Minute }, "hold_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := workingHoursParams("alice", "bob")
			tt.mutate(&params)

			_, err := f.service.CreateSession(ctx, params)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tt.field]; !ok {
				t.Fatalf("expected field %q in %v", tt.field, vErr.FieldErrors)
			}
		})
	}

	t.Run("hold ttl at upper bound accepted", func(t *testing.T) {
		params := workingHoursParams("alice", "bob")
		params.HoldTTL = 72 * time.Hour

		session, err := f.service.CreateSession(ctx, params)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		for _, h := range session.Holds {
			if got := h.ExpiresAt.Sub(f.clock.Now()); got != 72*time.Hour {
				t.Fatalf("expected 72h hold lifetime, got %v", got)
			}
		}
	})
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.busy["bob"] = []availability.BusyInterval{{
		Start:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		AccountIDs: []string{"acct_bob_work"},
	}}
	f.store.constraints["alice"] = []solver.Constraint{{
		Kind:      solver.ConstraintKindWorkingHours,
		StartHour: 9,
		EndHour:   17,
	}}

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if session.Status != StatusCandidatesReady {
		t.Fatalf("expected candidates_ready, got %s", session.Status)
	}
	if len(session.Candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	for i := 1; i < len(session.Candidates); i++ {
		if session.Candidates[i].Score > session.Candidates[i-1].Score {
			t.Fatalf("candidates not sorted by score: %d before %d",
				session.Candidates[i-1].Score, session.Candidates[i].Score)
		}
	}

	busyStart := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	busyEnd := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	for _, candidate := range session.Candidates {
		if candidate.Start.Before(busyEnd) && busyStart.Before(candidate.End) {
			t.Fatalf("candidate %v overlaps a busy interval", candidate.Start)
		}
		if candidate.Start.Hour() < 9 || candidate.Start.Hour() >= 17 {
			t.Fatalf("candidate %v outside working hours", candidate.Start)
		}
	}

	wantHolds := len(session.Candidates) * 2
	if len(session.Holds) != wantHolds {
		t.Fatalf("expected %d holds, got %d", wantHolds, len(session.Holds))
	}
	for _, h := range session.Holds {
		if !strings.HasPrefix(h.AccountID, "group_") {
			t.Fatalf("hold account %q leaks a raw identifier", h.AccountID)
		}
		if h.Status != hold.StatusHeld {
			t.Fatalf("expected held, got %s", h.Status)
		}
	}

	if got := len(f.sink.byKind(notify.KindTentative)); got != wantHolds {
		t.Fatalf("expected %d tentative notifications, got %d", wantHolds, got)
	}
}

func TestCreateSessionOwnerFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.ownerErrors["bob"] = errors.New("calendar unreachable")

	_, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if depErr.UserID != "bob" {
		t.Fatalf("expected failure attributed to bob, got %s", depErr.UserID)
	}
	if len(f.store.sessions) != 0 {
		t.Fatal("no session should be persisted on partial availability")
	}
}

func TestCommitCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.constraints["alice"] = []solver.Constraint{{
		Kind:      solver.ConstraintKindWorkingHours,
		StartHour: 9,
		EndHour:   17,
	}}

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	chosen := session.Candidates[0]

	committed, err := f.service.CommitCandidate(ctx, "bob", session.SessionID, chosen.CandidateID)
	if err != nil {
		t.Fatalf("CommitCandidate: %v", err)
	}

	if committed.Status != StatusCommitted {
		t.Fatalf("expected committed, got %s", committed.Status)
	}
	if committed.CommittedCandidateID == nil || *committed.CommittedCandidateID != chosen.CandidateID {
		t.Fatalf("expected committed candidate %s, got %v", chosen.CandidateID, committed.CommittedCandidateID)
	}

	var committedHolds, releasedHolds int
	for _, h := range committed.Holds {
		switch h.Status {
		case hold.StatusCommitted:
			committedHolds++
			if h.ProviderEventID == nil || *h.ProviderEventID == "" {
				t.Fatalf("committed hold %s has no provider event", h.ID)
			}
			if !h.Start.Equal(chosen.Start) {
				t.Fatalf("committed hold at %v, chosen slot %v", h.Start, chosen.Start)
			}
		case hold.StatusReleased:
			releasedHolds++
		default:
			t.Fatalf("unexpected hold status %s after commit", h.Status)
		}
	}
	if committedHolds != 2 {
		t.Fatalf("expected 2 committed holds, got %d", committedHolds)
	}
	if releasedHolds != len(committed.Holds)-2 {
		t.Fatalf("expected remaining holds released, got %d of %d", releasedHolds, len(committed.Holds))
	}

	if got := len(f.sink.byKind(notify.KindCommitted)); got != 2 {
		t.Fatalf("expected 2 committed notifications, got %d", got)
	}

	committerHash := availability.ParticipantHash("bob")
	entry, ok := f.store.history[committerHash]
	if !ok || entry.SessionsPreferred != 1 || entry.SessionsParticipated != 1 {
		t.Fatalf("expected committer history 1/1, got %+v", entry)
	}
	otherHash := availability.ParticipantHash("alice")
	entry, ok = f.store.history[otherHash]
	if !ok || entry.SessionsPreferred != 0 || entry.SessionsParticipated != 1 {
		t.Fatalf("expected non-committer history 0/1, got %+v", entry)
	}
}

func TestCommitCandidateUnauthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	_, err = f.service.CommitCandidate(ctx, "mallory", session.SessionID, session.Candidates[0].CandidateID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCommitCandidateUnknownCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	_, err = f.service.CommitCandidate(ctx, "alice", session.SessionID, "cand_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommitCandidateEventFailureReverts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	f.store.failEvents = true

	_, err = f.service.CommitCandidate(ctx, "alice", session.SessionID, session.Candidates[0].CandidateID)
	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	after, err := f.service.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.Status != StatusCandidatesReady {
		t.Fatalf("expected session still candidates_ready, got %s", after.Status)
	}
	for _, h := range after.Holds {
		if h.Status == hold.StatusCommitted {
			t.Fatalf("hold %s left committed after failed commit", h.ID)
		}
		if h.ProviderEventID != nil {
			t.Fatalf("hold %s kept provider event after revert", h.ID)
		}
	}

	// The commit must be retryable once the provider recovers.
	f.store.failEvents = false
	retried, err := f.service.CommitCandidate(ctx, "alice", session.SessionID, session.Candidates[0].CandidateID)
	if err != nil {
		t.Fatalf("retry CommitCandidate: %v", err)
	}
	if retried.Status != StatusCommitted {
		t.Fatalf("expected committed after retry, got %s", retried.Status)
	}
}

func TestCancelSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	cancelled, err := f.service.CancelSession(ctx, "alice", session.SessionID)
	if err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	for _, h := range cancelled.Holds {
		if h.Status != hold.StatusReleased {
			t.Fatalf("expected released, got %s", h.Status)
		}
	}

	_, err = f.service.CancelSession(ctx, "alice", session.SessionID)
	var stateErr *SessionStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected session state error, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, workingHoursParams("alice", "bob"))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Within the TTL nothing expires.
	expired, err := f.service.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expected no expirations, got %d", expired)
	}

	f.clock.Advance(3 * time.Hour)

	expired, err = f.service.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if expired != len(session.Holds) {
		t.Fatalf("expected %d expirations, got %d", len(session.Holds), expired)
	}

	after, err := f.service.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", after.Status)
	}
	for _, h := range after.Holds {
		if h.Status != hold.StatusExpired {
			t.Fatalf("expected expired hold, got %s", h.Status)
		}
	}

	_, err = f.service.CommitCandidate(ctx, "alice", session.SessionID, session.Candidates[0].CandidateID)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected commit rejection mentioning expiry, got %v", err)
	}
}
