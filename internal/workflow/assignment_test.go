package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/models"
)

type mockController struct {
	mu sync.Mutex

	PlantsFunc   func(ctx context.Context) ([]models.RecyclingPlant, error)
	CapacityFunc func(ctx context.Context, plantName string, date models.Date) (*int, error)
	AssignFunc   func(ctx context.Context, dumpsterID int64, plantName string) error

	capacityCalls []string
	assignCalls   int
}

func (m *mockController) GetAllRecyclingPlants(ctx context.Context) ([]models.RecyclingPlant, error) {
	return m.PlantsFunc(ctx)
}

func (m *mockController) GetPlantCapacity(ctx context.Context, plantName string, date models.Date) (*int, error) {
	m.mu.Lock()
	m.capacityCalls = append(m.capacityCalls, plantName)
	m.mu.Unlock()
	return m.CapacityFunc(ctx, plantName, date)
}

func (m *mockController) AssignDumpsterToPlant(ctx context.Context, dumpsterID int64, plantName string) error {
	m.mu.Lock()
	m.assignCalls++
	m.mu.Unlock()
	return m.AssignFunc(ctx, dumpsterID, plantName)
}

func plantList(names ...string) []models.RecyclingPlant {
	plants := make([]models.RecyclingPlant, len(names))
	for i, name := range names {
		plants[i] = models.RecyclingPlant{Name: name, MaxCapacity: 1000}
	}
	return plants
}

func intPtr(v int) *int { return &v }

func TestNoPlantsAvailableAborts(t *testing.T) {
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return []models.RecyclingPlant{}, nil
		},
	}
	a := NewAssignment(mock, SelectorFunc(func(options []PlantOption) (string, bool) {
		t.Fatal("selector must not be invoked without candidates")
		return "", false
	}), nil, nil)

	result, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateNoPlantsAvailable, result.State)
	assert.Empty(t, mock.capacityCalls, "no further calls after an empty plant list")
	assert.Zero(t, mock.assignCalls)
}

func TestPlantListFailurePropagates(t *testing.T) {
	cause := apperrors.Transport(503, "unexpected status 503")
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return nil, cause
		},
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) { return "", false }), nil, nil)

	_, err := a.Run(context.Background(), 7)
	assert.ErrorIs(t, err, cause)
}

func TestCapacityFailureDegradesToUnknown(t *testing.T) {
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("A", "B", "C"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			switch plantName {
			case "A":
				return intPtr(100), nil
			case "B":
				return nil, apperrors.Transport(500, "unexpected status 500")
			default:
				return intPtr(300), nil
			}
		},
		AssignFunc: func(ctx context.Context, dumpsterID int64, plantName string) error { return nil },
	}

	var presented []PlantOption
	selector := SelectorFunc(func(options []PlantOption) (string, bool) {
		presented = options
		return "A", true
	})
	a := NewAssignment(mock, selector, clockwork.NewFakeClock(), nil)

	result, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	// All three settled before selection; the failed one is unknown, the
	// others carry real values, in candidate order.
	require.Len(t, presented, 3)
	assert.Equal(t, "A", presented[0].Name)
	require.NotNil(t, presented[0].Capacity)
	assert.Equal(t, 100, *presented[0].Capacity)
	assert.Equal(t, "B", presented[1].Name)
	assert.Nil(t, presented[1].Capacity)
	assert.Equal(t, "C", presented[2].Name)
	require.NotNil(t, presented[2].Capacity)
	assert.Equal(t, 300, *presented[2].Capacity)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, mock.capacityCalls)
}

func TestUnknownPlantCapacityIsPlaceholder(t *testing.T) {
	// A 404 capacity (nil, nil) also renders as unknown.
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("Ghost"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			return nil, nil
		},
	}
	var presented []PlantOption
	a := NewAssignment(mock, SelectorFunc(func(options []PlantOption) (string, bool) {
		presented = options
		return "", false
	}), nil, nil)

	result, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, result.State)
	require.Len(t, presented, 1)
	assert.Nil(t, presented[0].Capacity)
	assert.Equal(t, "Ghost — ?", presented[0].Label())
}

func TestCancellationHasNoSideEffects(t *testing.T) {
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("A", "B"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			return intPtr(10), nil
		},
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) {
		return "", false
	}), nil, nil)

	result, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, result.State)
	assert.Zero(t, mock.assignCalls, "cancellation must not commit")
}

func TestCommitSuccessResolvesPlant(t *testing.T) {
	plants := plantList("A", "B")
	plants[1].Location = "Dock 12"
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plants, nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			return intPtr(10), nil
		},
		AssignFunc: func(ctx context.Context, dumpsterID int64, plantName string) error {
			assert.Equal(t, int64(7), dumpsterID)
			assert.Equal(t, "B", plantName)
			return nil
		},
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) {
		return "B", true
	}), nil, nil)

	result, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	require.NotNil(t, result.Plant, "committed result carries the resolved plant")
	assert.Equal(t, "B", result.Plant.Name)
	assert.Equal(t, "Dock 12", result.Plant.Location)
	assert.Equal(t, 1, mock.assignCalls, "commit happens exactly once")
}

func TestCommitFailureTerminatesWorkflow(t *testing.T) {
	cause := apperrors.Rejected("plant is at capacity")
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("A"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			return intPtr(10), nil
		},
		AssignFunc: func(ctx context.Context, dumpsterID int64, plantName string) error {
			return cause
		},
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) {
		return "A", true
	}), nil, nil)

	result, err := a.Run(context.Background(), 7)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateCommitFailed, result.State)
	assert.ErrorIs(t, result.Err, cause)
	assert.Nil(t, result.Plant)
	assert.Equal(t, 1, mock.assignCalls, "no implicit retry")
}

func TestCapacityPhaseUsesCurrentDate(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 27, 10, 0, 0, 0, time.UTC))
	var seenDate models.Date
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("A"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			seenDate = date
			return intPtr(10), nil
		},
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) {
		return "", false
	}), clock, nil)

	_, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.NewDate(2026, time.August, 27), seenDate)
}

func TestTransitionOrder(t *testing.T) {
	mock := &mockController{
		PlantsFunc: func(ctx context.Context) ([]models.RecyclingPlant, error) {
			return plantList("A"), nil
		},
		CapacityFunc: func(ctx context.Context, plantName string, date models.Date) (*int, error) {
			return intPtr(10), nil
		},
		AssignFunc: func(ctx context.Context, dumpsterID int64, plantName string) error { return nil },
	}
	a := NewAssignment(mock, SelectorFunc(func([]PlantOption) (string, bool) {
		return "A", true
	}), nil, nil)

	var states []State
	a.OnTransition = func(s State) { states = append(states, s) }

	_, err := a.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []State{
		StateFetchingPlants,
		StateFetchingCapacities,
		StateAwaitingSelection,
		StateCommitting,
		StateCommitted,
	}, states)
}

func TestPlantOptionLabel(t *testing.T) {
	assert.Equal(t, "NorthPlant — 5800L", PlantOption{Name: "NorthPlant", Capacity: intPtr(5800)}.Label())
	assert.Equal(t, "Ghost — ?", PlantOption{Name: "Ghost"}.Label())
}
