// Package lifecycle implements the request lifecycle state machine and
// the derived per-stage time tracking. The engine never touches
// storage: transition methods return a model.Changes that the caller
// applies through the store, so the rules are testable in isolation.
package lifecycle

import (
	"time"

	"github.com/civic-lab/partes/pkg/config"
	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
)

// Stage is one phase of a request's journey, for SLA visibility.
// Days is the displayed whole-day duration, Completed tells whether
// the phase has ended, Exceeded whether it ran over its threshold.
type Stage struct {
	Name      string
	Days      int
	Completed bool
	Exceeded  bool
}

// Stage display names. Unit-execution stages are named after the unit.
const (
	stageReception  = "Recepción"
	stageDerivation = "Derivación"
)

// Engine evaluates lifecycle transitions and stage durations
type Engine struct {
	thresholds config.Thresholds
	unitNames  map[types.UnitID]string
	now        func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithUnitNames sets the display-name catalog used for the
// unit-execution stage label
func WithUnitNames(names map[types.UnitID]string) Option {
	return func(e *Engine) {
		e.unitNames = names
	}
}

// New creates an Engine with the given stage thresholds
func New(thresholds config.Thresholds, opts ...Option) *Engine {
	e := &Engine{
		thresholds: thresholds,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RouteToUnit computes the changes for assigning a request to a
// technical unit. The routing and unit-start timestamps and the
// initial executing status are stamped only on first routing; a later
// re-route only moves AssignedUnit.
func (e *Engine) RouteToUnit(r *model.Request, unit types.UnitID) model.Changes {
	now := e.now()

	ch := model.Changes{AssignedUnit: &unit}
	if r.RoutedAt == nil {
		ch.RoutedAt = &now
	}
	if r.UnitStartedAt == nil {
		ch.UnitStartedAt = &now
	}
	if r.UnitStatus == types.UnitStatusNone {
		executing := types.UnitStatusExecuting
		ch.UnitStatus = &executing
	}
	return ch
}

// SetUnitStatus computes the changes for a unit-status update. Every
// update stamps UnitStatusUpdatedAt; the close timestamp is stamped
// only on the first transition to closed and never overwritten.
func (e *Engine) SetUnitStatus(r *model.Request, status types.UnitStatus) model.Changes {
	now := e.now()

	ch := model.Changes{
		UnitStatus:          &status,
		UnitStatusUpdatedAt: &now,
	}
	if status == types.UnitStatusClosed && r.UnitClosedAt == nil {
		ch.UnitClosedAt = &now
	}
	return ch
}

// SetOverallStatus computes the changes for a staff status update.
// All transitions between overall statuses are allowed; this is a
// label, not a workflow gate.
func (e *Engine) SetOverallStatus(status types.OverallStatus) model.Changes {
	return model.Changes{OverallStatus: &status}
}

// ElapsedDays returns the whole days between from and to, floored.
// Callers must not pass from > to.
func ElapsedDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// ElapsedDaysSince returns the whole days from t to now
func (e *Engine) ElapsedDaysSince(t time.Time) int {
	return ElapsedDays(t, e.now())
}

// StageBreakdown derives one to three stages for a request.
//
// Reception runs from creation to routing. When no routing timestamp
// exists but a unit is assigned (legacy data), a synthetic derivation
// time of creation+1 day stands in. When neither exists, reception is
// still open and it is the only stage returned.
//
// Derivation runs from routing to the unit start; a raw duration of 0
// is displayed as 1 day. Unit execution runs from the unit start to
// the close timestamp, or to now while still in progress, and is
// labeled with the unit's display name.
func (e *Engine) StageBreakdown(r *model.Request) []Stage {
	now := e.now()
	created := r.CreatedAt

	routed := r.RoutedAt
	if routed == nil && r.AssignedUnit != "" {
		synthetic := created.Add(24 * time.Hour)
		routed = &synthetic
	}

	if routed == nil {
		days := ElapsedDays(created, now)
		return []Stage{{
			Name:     stageReception,
			Days:     days,
			Exceeded: days > e.thresholds.Reception,
		}}
	}

	stages := []Stage{{
		Name:      stageReception,
		Days:      ElapsedDays(created, *routed),
		Completed: true,
		Exceeded:  ElapsedDays(created, *routed) > e.thresholds.Reception,
	}}

	if r.AssignedUnit == "" {
		return stages
	}

	started := r.UnitStartedAt
	if started == nil {
		started = routed
	}

	derivationDays := ElapsedDays(*routed, *started)
	if derivationDays == 0 {
		derivationDays = 1 // same-day handoff still shows as one day
	}
	stages = append(stages, Stage{
		Name:      stageDerivation,
		Days:      derivationDays,
		Completed: true,
		Exceeded:  derivationDays > e.thresholds.Derivation,
	})

	end := now
	completed := false
	if r.UnitClosedAt != nil {
		end = *r.UnitClosedAt
		completed = true
	}
	executionDays := ElapsedDays(*started, end)
	stages = append(stages, Stage{
		Name:      e.unitName(r.AssignedUnit),
		Days:      executionDays,
		Completed: completed,
		Exceeded:  executionDays > e.thresholds.UnitExecution,
	})

	return stages
}

func (e *Engine) unitName(id types.UnitID) string {
	if name, ok := e.unitNames[id]; ok {
		return name
	}
	return id.String()
}
