// Package usecase is the application facade: it wires the in-memory
// store, the lifecycle engine and the persistence adapter, and exposes
// the operations the intake and tracking surfaces call.
package usecase

import (
	"context"
	"time"

	"github.com/civic-lab/partes/pkg/config"
	"github.com/civic-lab/partes/pkg/domain/types"
	"github.com/civic-lab/partes/pkg/lifecycle"
	"github.com/civic-lab/partes/pkg/persistence"
	"github.com/civic-lab/partes/pkg/store"
	"github.com/civic-lab/partes/pkg/utils/logging"
)

// UseCase bundles the collaborators behind the application operations
type UseCase struct {
	store   *store.Store
	engine  *lifecycle.Engine
	adapter *persistence.Adapter
	units   map[types.UnitID]string
}

// Option configures a UseCase
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source of the store and the engine,
// mainly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New assembles a UseCase from the configuration and a persistence
// adapter. Mutations hand their snapshots to the adapter; call Load
// before first use to hydrate from the configured source.
func New(cfg *config.AppConfig, adapter *persistence.Adapter, opts ...Option) *UseCase {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	units := cfg.UnitNames()
	return &UseCase{
		store: store.New(
			store.WithClock(o.now),
			store.WithSaver(adapter.Save),
		),
		engine: lifecycle.New(cfg.Thresholds,
			lifecycle.WithClock(o.now),
			lifecycle.WithUnitNames(units),
		),
		adapter: adapter,
		units:   units,
	}
}

// Load hydrates the store from the persistence source. A failed or
// empty source yields an empty collection; the application starts
// either way.
func (uc *UseCase) Load(ctx context.Context) {
	reqs := uc.adapter.Load(ctx)
	uc.store.Hydrate(reqs)
	logging.From(ctx).Info("request collection hydrated", "count", len(reqs))
}

// Flush forces any pending snapshot to durable storage
func (uc *UseCase) Flush(ctx context.Context) error {
	return uc.adapter.Flush(ctx)
}

// Close flushes pending writes and releases the persistence source
func (uc *UseCase) Close(ctx context.Context) error {
	return uc.adapter.Close(ctx)
}
