// Package workflow orchestrates the multi-step assignment of a dumpster
// to a recycling plant on top of the controller layer.
package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/osanchezp/ecotrack/internal/models"
)

// State identifies a step of the assignment workflow.
type State int

const (
	// StateIdle is the state before Run is invoked.
	StateIdle State = iota
	// StateFetchingPlants loads the candidate plant list.
	StateFetchingPlants
	// StateNoPlantsAvailable is terminal: no candidates exist, nothing
	// else is called.
	StateNoPlantsAvailable
	// StateFetchingCapacities queries per-plant capacity concurrently.
	StateFetchingCapacities
	// StateAwaitingSelection presents the candidates to the caller.
	StateAwaitingSelection
	// StateCancelled is terminal: the caller declined, no side effects.
	StateCancelled
	// StateCommitting performs the single assignment call.
	StateCommitting
	// StateCommitted is terminal: the assignment succeeded.
	StateCommitted
	// StateCommitFailed is terminal: the assignment call failed.
	StateCommitFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetchingPlants:
		return "FetchingPlants"
	case StateNoPlantsAvailable:
		return "NoPlantsAvailable"
	case StateFetchingCapacities:
		return "FetchingCapacities"
	case StateAwaitingSelection:
		return "AwaitingSelection"
	case StateCancelled:
		return "Cancelled"
	case StateCommitting:
		return "Committing"
	case StateCommitted:
		return "Committed"
	case StateCommitFailed:
		return "CommitFailed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller is the slice of the domain controller the workflow consumes.
type Controller interface {
	GetAllRecyclingPlants(ctx context.Context) ([]models.RecyclingPlant, error)
	GetPlantCapacity(ctx context.Context, plantName string, date models.Date) (*int, error)
	AssignDumpsterToPlant(ctx context.Context, dumpsterID int64, plantName string) error
}

// PlantOption is one selectable candidate: a plant name and its capacity
// for today, or nil when the capacity query failed or the plant was
// unknown.
type PlantOption struct {
	Name     string
	Capacity *int
}

// Label renders the option the way the selection dialog shows it.
func (o PlantOption) Label() string {
	if o.Capacity == nil {
		return o.Name + " — ?"
	}
	return fmt.Sprintf("%s — %dL", o.Name, *o.Capacity)
}

// Selector lets the caller pick among the candidates. Returning ok=false
// cancels the workflow with no further network calls.
type Selector interface {
	ChoosePlant(options []PlantOption) (plantName string, ok bool)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(options []PlantOption) (string, bool)

// ChoosePlant implements Selector.
func (f SelectorFunc) ChoosePlant(options []PlantOption) (string, bool) {
	return f(options)
}

// Result is the terminal outcome of one workflow run.
type Result struct {
	// State is the terminal state reached.
	State State
	// Options are the candidates presented, when selection was reached.
	Options []PlantOption
	// Plant is the resolved plant object on StateCommitted, taken from
	// the plant list fetched earlier in the same run, so the caller can
	// update its view without re-fetching.
	Plant *models.RecyclingPlant
	// Err is the underlying failure on StateCommitFailed.
	Err error
}

// Assignment runs the plant-assignment workflow. The value is reusable;
// every Run is an independent state-machine pass.
type Assignment struct {
	controller Controller
	selector   Selector
	clock      clockwork.Clock
	logger     *zap.Logger

	// OnTransition, when set, observes every state change of a run.
	OnTransition func(State)
}

// NewAssignment constructs the workflow. A nil clock defaults to the real
// clock; a nil logger to a no-op one.
func NewAssignment(controller Controller, selector Selector, clock clockwork.Clock, logger *zap.Logger) *Assignment {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assignment{controller: controller, selector: selector, clock: clock, logger: logger}
}

func (a *Assignment) transition(s State) {
	a.logger.Debug("assignment workflow transition", zap.Stringer("state", s))
	if a.OnTransition != nil {
		a.OnTransition(s)
	}
}

// Run assigns one dumpster to a plant chosen by the selector. The error
// is non-nil when the plant list could not be fetched or the commit
// failed; Result.State always names the terminal state reached.
func (a *Assignment) Run(ctx context.Context, dumpsterID int64) (Result, error) {
	a.transition(StateFetchingPlants)
	plants, err := a.controller.GetAllRecyclingPlants(ctx)
	if err != nil {
		return Result{State: StateFetchingPlants, Err: err}, err
	}
	if len(plants) == 0 {
		a.transition(StateNoPlantsAvailable)
		return Result{State: StateNoPlantsAvailable}, nil
	}

	a.transition(StateFetchingCapacities)
	options := a.fetchCapacities(ctx, plants)

	a.transition(StateAwaitingSelection)
	plantName, ok := a.selector.ChoosePlant(options)
	if !ok {
		a.transition(StateCancelled)
		return Result{State: StateCancelled, Options: options}, nil
	}

	a.transition(StateCommitting)
	if err := a.controller.AssignDumpsterToPlant(ctx, dumpsterID, plantName); err != nil {
		a.transition(StateCommitFailed)
		return Result{State: StateCommitFailed, Options: options, Err: err}, err
	}

	a.transition(StateCommitted)
	return Result{
		State:   StateCommitted,
		Options: options,
		Plant:   resolvePlant(plants, plantName),
	}, nil
}

// fetchCapacities queries every candidate's capacity for today. Queries
// run concurrently and all settle before this returns; a per-plant
// failure degrades that entry to an unknown-capacity placeholder instead
// of aborting the batch.
func (a *Assignment) fetchCapacities(ctx context.Context, plants []models.RecyclingPlant) []PlantOption {
	today := models.DateOf(a.clock.Now())
	options := make([]PlantOption, len(plants))

	var wg sync.WaitGroup
	for i, plant := range plants {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			capacity, err := a.controller.GetPlantCapacity(ctx, name, today)
			if err != nil {
				a.logger.Warn("capacity query failed, degrading to unknown",
					zap.String("plant", name), zap.Error(err))
				options[i] = PlantOption{Name: name}
				return
			}
			options[i] = PlantOption{Name: name, Capacity: capacity}
		}(i, plant.Name)
	}
	wg.Wait()

	return options
}

// resolvePlant looks the chosen plant up by name among the plants fetched
// in this run.
func resolvePlant(plants []models.RecyclingPlant, name string) *models.RecyclingPlant {
	for i := range plants {
		if plants[i].Name == name {
			return &plants[i]
		}
	}
	return nil
}
