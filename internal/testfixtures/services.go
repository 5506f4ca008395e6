package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/meeting-coordinator/internal/owner"
)

// OwnerFactory assists tests with constructing data owners using
// deterministic identifiers and clocks.
type OwnerFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// OwnerFactoryOption configures an OwnerFactory instance.
type OwnerFactoryOption func(*OwnerFactory)

// NewOwnerFactory constructs an OwnerFactory with defaults.
func NewOwnerFactory(opts ...OwnerFactoryOption) *OwnerFactory {
	factory := &OwnerFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) OwnerFactoryOption {
	return func(factory *OwnerFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) OwnerFactoryOption {
	return func(factory *OwnerFactory) {
		factory.IDGenerator = generator
	}
}

// RegistryDeps captures the storage dependencies for an owner registry.
type RegistryDeps struct {
	Harness *SQLiteHarness
	Logger  *slog.Logger
}

// NewRegistry builds an owner registry over the harness repositories using
// the factory's deterministic clock and identifiers.
func (f *OwnerFactory) NewRegistry(deps RegistryDeps) *owner.Registry {
	return owner.NewRegistry(owner.Deps{
		Events:      deps.Harness.Events,
		Constraints: deps.Harness.Constraints,
		VipPolicies: deps.Harness.VipPolicies,
		Holds:       deps.Harness.Holds,
		History:     deps.Harness.History,
		IDGenerator: f.IDGenerator.NextFunc(),
		Now:         f.Clock.NowFunc(),
		Logger:      deps.Logger,
	})
}
