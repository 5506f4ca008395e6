package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// ConstraintRepository implements persistence.ConstraintRepository on SQLite.
type ConstraintRepository struct {
	store *Store
}

// NewConstraintRepository wires a constraint repository to the store.
func NewConstraintRepository(store *Store) *ConstraintRepository {
	return &ConstraintRepository{store: store}
}

// CreateConstraint inserts a scheduling constraint.
func (r *ConstraintRepository) CreateConstraint(ctx context.Context, constraint persistence.Constraint) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO constraints (id, user_id, kind, start_hour, end_hour, active_from, active_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		constraint.ID,
		constraint.UserID,
		constraint.Kind,
		constraint.StartHour,
		constraint.EndHour,
		nullableTime(constraint.ActiveFrom),
		nullableTime(constraint.ActiveUntil),
		formatTime(constraint.CreatedAt),
	)
	return mapError(err)
}

// ListConstraints returns a user's constraints in creation order.
func (r *ConstraintRepository) ListConstraints(ctx context.Context, userID string) ([]persistence.Constraint, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, user_id, kind, start_hour, end_hour, active_from, active_until, created_at
		FROM constraints WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var constraints []persistence.Constraint
	for rows.Next() {
		var (
			constraint              persistence.Constraint
			activeFrom, activeUntil sql.NullString
			createdAt               string
		)
		if err := rows.Scan(
			&constraint.ID,
			&constraint.UserID,
			&constraint.Kind,
			&constraint.StartHour,
			&constraint.EndHour,
			&activeFrom,
			&activeUntil,
			&createdAt,
		); err != nil {
			return nil, mapError(err)
		}
		if constraint.ActiveFrom, err = timeFromNullable(activeFrom); err != nil {
			return nil, err
		}
		if constraint.ActiveUntil, err = timeFromNullable(activeUntil); err != nil {
			return nil, err
		}
		if constraint.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return constraints, nil
}

// VipPolicyRepository implements persistence.VipPolicyRepository on SQLite.
type VipPolicyRepository struct {
	store *Store
}

// NewVipPolicyRepository wires a VIP policy repository to the store.
func NewVipPolicyRepository(store *Store) *VipPolicyRepository {
	return &VipPolicyRepository{store: store}
}

// CreateVipPolicy inserts a VIP priority policy.
func (r *VipPolicyRepository) CreateVipPolicy(ctx context.Context, policy persistence.VipPolicy) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO vip_policies (id, user_id, participant_hash, display_name, priority_weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		policy.ID,
		policy.UserID,
		policy.ParticipantHash,
		policy.DisplayName,
		policy.PriorityWeight,
		formatTime(policy.CreatedAt),
	)
	return mapError(err)
}

// ListVipPolicies returns a user's VIP policies in creation order.
func (r *VipPolicyRepository) ListVipPolicies(ctx context.Context, userID string) ([]persistence.VipPolicy, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, user_id, participant_hash, display_name, priority_weight, created_at
		FROM vip_policies WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var policies []persistence.VipPolicy
	for rows.Next() {
		var (
			policy    persistence.VipPolicy
			createdAt string
		)
		if err := rows.Scan(
			&policy.ID,
			&policy.UserID,
			&policy.ParticipantHash,
			&policy.DisplayName,
			&policy.PriorityWeight,
			&createdAt,
		); err != nil {
			return nil, mapError(err)
		}
		if policy.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return policies, nil
}
