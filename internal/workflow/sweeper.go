package workflow

import (
	"context"
	"time"

	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/logging"
	"github.com/example/meeting-coordinator/internal/metrics"
)

// SweepExpired expires every held hold whose TTL has lapsed and moves
// sessions whose holds have all reached a terminal state to expired. It
// returns the number of holds expired in this pass.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	logger := logging.ServiceLogger(ctx, s.logger, "workflow", "sweep_expired")
	started := s.now()

	records, err := s.holds.ListHeldHolds(ctx)
	if err != nil {
		return 0, mapRepoError(err)
	}

	ownerByHold := make(map[string]string, len(records))
	held := make([]hold.Hold, 0, len(records))
	for _, record := range records {
		ownerByHold[record.ID] = record.OwnerUserID
		held = append(held, holdFromRecord(record))
	}

	expired := 0
	affected := make(map[string]struct{})
	for _, h := range hold.FindExpired(held, started) {
		dataOwner := s.owners.Owner(ownerByHold[h.ID])
		if _, err := dataOwner.UpdateHoldStatus(ctx, h.ID, hold.StatusExpired); err != nil {
			logger.WarnContext(ctx, "failed to expire hold", "hold_id", h.ID, "error", err)
			continue
		}
		expired++
		affected[h.SessionID] = struct{}{}
	}

	for sessionID := range affected {
		if err := s.expireSessionIfDrained(ctx, sessionID); err != nil {
			logger.WarnContext(ctx, "failed to expire session", "session_id", sessionID, "error", err)
		}
	}

	metrics.ObserveSweepDuration(s.now().Sub(started).Seconds())
	if expired > 0 {
		logger.InfoContext(ctx, "sweep expired holds", "holds_expired", expired, "sessions_affected", len(affected))
	}
	return expired, nil
}

// expireSessionIfDrained transitions a candidates_ready session to expired
// once none of its holds remain held. Sessions already terminal are left
// alone.
func (s *Service) expireSessionIfDrained(ctx context.Context, sessionID string) error {
	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return mapRepoError(err)
	}
	if SessionStatus(record.Status) != StatusCandidatesReady {
		return nil
	}

	holdRecords, err := s.holds.ListHoldsBySession(ctx, sessionID)
	if err != nil {
		return mapRepoError(err)
	}
	for _, hr := range holdRecords {
		if hold.Status(hr.Status) == hold.StatusHeld {
			return nil
		}
	}

	if err := s.sessions.UpdateSessionStatus(ctx, sessionID, string(StatusExpired), nil, s.now()); err != nil {
		return mapRepoError(err)
	}
	metrics.RecordSessionFinished(string(StatusExpired))
	return nil
}

// Sweeper periodically runs the hold expiry sweep until its context is
// cancelled.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

// NewSweeper builds a sweeper over the given service. A non-positive
// interval falls back to one minute.
func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{service: service, interval: interval}
}

// Run blocks, sweeping on each tick, until ctx is done.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.service.SweepExpired(ctx); err != nil {
				logger := logging.ServiceLogger(ctx, w.service.logger, "workflow", "sweep_expired")
				logger.ErrorContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}
