package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/meeting-coordinator/internal/persistence"
	"github.com/example/meeting-coordinator/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Store       *sqlite.Store
	Sessions    persistence.SessionRepository
	Holds       persistence.HoldRepository
	Events      persistence.EventRepository
	Constraints persistence.ConstraintRepository
	VipPolicies persistence.VipPolicyRepository
	History     persistence.HistoryRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a migrated SQLite harness on a temporary file.
// Cleanup is registered with the provided testing.TB; calling Close early is
// also safe.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "coordinator.db")

	store, err := sqlite.Open("file:" + path)
	if err != nil {
		tb.Fatalf("open sqlite store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("migrate sqlite store: %v", err)
	}

	harness := &SQLiteHarness{
		Store:       store,
		Sessions:    sqlite.NewSessionRepository(store),
		Holds:       sqlite.NewHoldRepository(store),
		Events:      sqlite.NewEventRepository(store),
		Constraints: sqlite.NewConstraintRepository(store),
		VipPolicies: sqlite.NewVipPolicyRepository(store),
		History:     sqlite.NewHistoryRepository(store),
	}
	harness.cleanup = func() {
		_ = store.Close()
	}
	tb.Cleanup(harness.Close)

	return harness
}
