package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository on SQLite.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository wires a session repository to the store.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// CreateSession inserts a session with its participants and candidates in
// one transaction.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session, candidates []persistence.Candidate) error {
	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, creator_id, title, status, window_start, window_end, duration_minutes, committed_candidate_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID,
			session.CreatorID,
			session.Title,
			session.Status,
			formatTime(session.WindowStart),
			formatTime(session.WindowEnd),
			session.DurationMinutes,
			nullableString(session.CommittedCandidateID),
			formatTime(session.CreatedAt),
			formatTime(session.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		for i, userID := range session.Participants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO session_participants (session_id, user_id, position) VALUES (?, ?, ?)`,
				session.ID, userID, i,
			); err != nil {
				return mapError(err)
			}
		}

		for _, candidate := range candidates {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO candidates (id, session_id, start_time, end_time, score, explanation)
				VALUES (?, ?, ?, ?, ?, ?)`,
				candidate.ID,
				session.ID,
				formatTime(candidate.Start),
				formatTime(candidate.End),
				candidate.Score,
				candidate.Explanation,
			); err != nil {
				return mapError(err)
			}
		}

		return nil
	})
}

// GetSession retrieves a session with its participants.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.Session, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, creator_id, title, status, window_start, window_end, duration_minutes, committed_candidate_id, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT user_id FROM session_participants WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return persistence.Session{}, mapError(err)
		}
		session.Participants = append(session.Participants, userID)
	}
	if err := rows.Err(); err != nil {
		return persistence.Session{}, mapError(err)
	}

	return session, nil
}

// UpdateSessionStatus transitions the session's status and, on commit,
// records the chosen candidate.
func (r *SessionRepository) UpdateSessionStatus(ctx context.Context, id, status string, committedCandidateID *string, updatedAt time.Time) error {
	result, err := r.store.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, committed_candidate_id = ?, updated_at = ? WHERE id = ?`,
		status, nullableString(committedCandidateID), formatTime(updatedAt), id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListCandidates returns a session's candidates ordered by descending score.
func (r *SessionRepository) ListCandidates(ctx context.Context, sessionID string) ([]persistence.Candidate, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, session_id, start_time, end_time, score, explanation
		FROM candidates WHERE session_id = ? ORDER BY score DESC, start_time ASC`, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var candidates []persistence.Candidate
	for rows.Next() {
		var (
			candidate  persistence.Candidate
			start, end string
		)
		if err := rows.Scan(&candidate.ID, &candidate.SessionID, &start, &end, &candidate.Score, &candidate.Explanation); err != nil {
			return nil, mapError(err)
		}
		if candidate.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if candidate.End, err = parseTime(end); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return candidates, nil
}

// ListSessionsByStatus returns sessions in the given status, oldest first.
func (r *SessionRepository) ListSessionsByStatus(ctx context.Context, status string) ([]persistence.Session, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, creator_id, title, status, window_start, window_end, duration_minutes, committed_candidate_id, created_at, updated_at
		FROM sessions WHERE status = ? ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var (
		session              persistence.Session
		windowStart          string
		windowEnd            string
		committedCandidateID sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&session.ID,
		&session.CreatorID,
		&session.Title,
		&session.Status,
		&windowStart,
		&windowEnd,
		&session.DurationMinutes,
		&committedCandidateID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Session{}, err
	}

	var err error
	if session.WindowStart, err = parseTime(windowStart); err != nil {
		return persistence.Session{}, err
	}
	if session.WindowEnd, err = parseTime(windowEnd); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Session{}, err
	}
	session.CommittedCandidateID = stringFromNullable(committedCandidateID)
	return session, nil
}
