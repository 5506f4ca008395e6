package sqlite

import (
	"context"
	"time"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// EventRepository implements persistence.EventRepository on SQLite.
type EventRepository struct {
	store *Store
}

// NewEventRepository wires an event repository to the store.
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

// CreateEvent inserts a calendar event.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, account_id, title, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.AccountID,
		event.Title,
		formatTime(event.Start),
		formatTime(event.End),
		formatTime(event.CreatedAt),
	)
	return mapError(err)
}

// ListEventsOverlapping returns a user's events intersecting
// [windowStart, windowEnd), ordered by start time.
func (r *EventRepository) ListEventsOverlapping(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]persistence.Event, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, title, start_time, end_time, created_at
		FROM events
		WHERE user_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC`,
		userID, formatTime(windowEnd), formatTime(windowStart))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		var (
			event                 persistence.Event
			start, end, createdAt string
		)
		if err := rows.Scan(&event.ID, &event.UserID, &event.AccountID, &event.Title, &start, &end, &createdAt); err != nil {
			return nil, mapError(err)
		}
		if event.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if event.End, err = parseTime(end); err != nil {
			return nil, err
		}
		if event.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}
