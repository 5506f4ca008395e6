package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// HoldRepository implements persistence.HoldRepository on SQLite.
type HoldRepository struct {
	store *Store
}

// NewHoldRepository wires a hold repository to the store.
func NewHoldRepository(store *Store) *HoldRepository {
	return &HoldRepository{store: store}
}

// CreateHold inserts a new hold.
func (r *HoldRepository) CreateHold(ctx context.Context, hold persistence.Hold) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO holds (id, session_id, account_id, owner_user_id, title, start_time, end_time, provider_event_id, expires_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		hold.ID,
		hold.SessionID,
		hold.AccountID,
		hold.OwnerUserID,
		hold.Title,
		formatTime(hold.Start),
		formatTime(hold.End),
		nullableString(hold.ProviderEventID),
		formatTime(hold.ExpiresAt),
		hold.Status,
		formatTime(hold.CreatedAt),
		formatTime(hold.UpdatedAt),
	)
	return mapError(err)
}

// GetHold retrieves a hold by ID.
func (r *HoldRepository) GetHold(ctx context.Context, id string) (persistence.Hold, error) {
	row := r.store.db.QueryRowContext(ctx, holdSelect+` WHERE id = ?`, id)
	hold, err := scanHold(row)
	if err != nil {
		return persistence.Hold{}, mapError(err)
	}
	return hold, nil
}

// UpdateHold persists a hold's mutable fields.
func (r *HoldRepository) UpdateHold(ctx context.Context, hold persistence.Hold) error {
	result, err := r.store.db.ExecContext(ctx, `
		UPDATE holds SET provider_event_id = ?, expires_at = ?, status = ?, updated_at = ? WHERE id = ?`,
		nullableString(hold.ProviderEventID),
		formatTime(hold.ExpiresAt),
		hold.Status,
		formatTime(hold.UpdatedAt),
		hold.ID,
	)
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

// ListHoldsBySession returns every hold created for a session.
func (r *HoldRepository) ListHoldsBySession(ctx context.Context, sessionID string) ([]persistence.Hold, error) {
	return r.queryHolds(ctx, holdSelect+` WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID)
}

// ListActiveHoldsByAccount returns the held and committed holds blocking an
// account, for conflict checks.
func (r *HoldRepository) ListActiveHoldsByAccount(ctx context.Context, accountID string) ([]persistence.Hold, error) {
	return r.queryHolds(ctx, holdSelect+` WHERE account_id = ? AND status IN ('held', 'committed') ORDER BY start_time ASC`, accountID)
}

// ListHeldHolds returns all held holds, for the expiry sweep.
func (r *HoldRepository) ListHeldHolds(ctx context.Context) ([]persistence.Hold, error) {
	return r.queryHolds(ctx, holdSelect+` WHERE status = 'held' ORDER BY expires_at ASC`)
}

const holdSelect = `
	SELECT id, session_id, account_id, owner_user_id, title, start_time, end_time, provider_event_id, expires_at, status, created_at, updated_at
	FROM holds`

func (r *HoldRepository) queryHolds(ctx context.Context, query string, args ...any) ([]persistence.Hold, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var holds []persistence.Hold
	for rows.Next() {
		hold, err := scanHold(rows)
		if err != nil {
			return nil, mapError(err)
		}
		holds = append(holds, hold)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return holds, nil
}

func scanHold(row rowScanner) (persistence.Hold, error) {
	var (
		hold                 persistence.Hold
		start, end           string
		providerEventID      sql.NullString
		expiresAt            string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&hold.ID,
		&hold.SessionID,
		&hold.AccountID,
		&hold.OwnerUserID,
		&hold.Title,
		&start,
		&end,
		&providerEventID,
		&expiresAt,
		&hold.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Hold{}, err
	}

	var err error
	if hold.Start, err = parseTime(start); err != nil {
		return persistence.Hold{}, err
	}
	if hold.End, err = parseTime(end); err != nil {
		return persistence.Hold{}, err
	}
	if hold.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Hold{}, err
	}
	if hold.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Hold{}, err
	}
	if hold.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Hold{}, err
	}
	hold.ProviderEventID = stringFromNullable(providerEventID)
	return hold, nil
}
