package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// HistoryRepository implements persistence.HistoryRepository on SQLite.
type HistoryRepository struct {
	store *Store
}

// NewHistoryRepository wires a history repository to the store.
func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// RecordOutcome appends one session outcome to a participant's aggregate.
func (r *HistoryRepository) RecordOutcome(ctx context.Context, participantHash string, gotPreferred bool, ts time.Time) error {
	preferred := 0
	if gotPreferred {
		preferred = 1
	}
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO scheduling_history (participant_hash, sessions_participated, sessions_preferred, last_session_ts)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(participant_hash) DO UPDATE SET
			sessions_participated = sessions_participated + 1,
			sessions_preferred = sessions_preferred + excluded.sessions_preferred,
			last_session_ts = excluded.last_session_ts`,
		participantHash, preferred, formatTime(ts))
	return mapError(err)
}

// ListHistory returns the aggregates for the given participants. Missing
// participants simply have no entry.
func (r *HistoryRepository) ListHistory(ctx context.Context, participantHashes []string) ([]persistence.HistoryEntry, error) {
	if len(participantHashes) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(participantHashes)), ", ")
	args := make([]any, len(participantHashes))
	for i, hash := range participantHashes {
		args[i] = hash
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT participant_hash, sessions_participated, sessions_preferred, last_session_ts
		FROM scheduling_history WHERE participant_hash IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.HistoryEntry
	for rows.Next() {
		var (
			entry         persistence.HistoryEntry
			lastSessionTs string
		)
		if err := rows.Scan(&entry.ParticipantHash, &entry.SessionsParticipated, &entry.SessionsPreferred, &lastSessionTs); err != nil {
			return nil, mapError(err)
		}
		if entry.LastSessionTs, err = parseTime(lastSessionTs); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}
