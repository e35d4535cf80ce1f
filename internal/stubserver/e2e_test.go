package stubserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanchezp/ecotrack/internal/controller"
	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/gateway"
	"github.com/osanchezp/ecotrack/internal/models"
	"github.com/osanchezp/ecotrack/internal/session"
	"github.com/osanchezp/ecotrack/internal/stubserver"
	"github.com/osanchezp/ecotrack/internal/workflow"
)

// harness wires the full client stack against an in-process stub backend.
type harness struct {
	data      *stubserver.Data
	store     *session.Store
	auth      *controller.AuthController
	dumpsters *controller.DumpsterController
	clock     *clockwork.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	data := stubserver.NewData()
	data.AddUser("a@b.com", "x")
	server := httptest.NewServer(stubserver.New(data, nil).Router())
	t.Cleanup(server.Close)

	store := session.NewStore()
	authGateway := gateway.NewAuthGateway(server.URL, nil, nil)
	dumpsterGateway := gateway.NewDumpsterGateway(server.URL, nil, nil)
	plantGateway := gateway.NewPlantGateway(server.URL, nil, nil)

	return &harness{
		data:      data,
		store:     store,
		auth:      controller.NewAuthController(authGateway, store, nil),
		dumpsters: controller.NewDumpsterController(dumpsterGateway, plantGateway, store, nil),
		clock:     clockwork.NewFakeClock(),
	}
}

func TestEndToEndLoginAndList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.auth.Login(ctx, "a@b.com", "x"))
	assert.True(t, h.store.IsAuthenticated())
	assert.Equal(t, "a@b.com", h.store.UserEmail())
	token := h.store.Token()
	assert.NotEmpty(t, token)

	h.data.AddDumpster(models.Dumpster{Location: "Main St", PostalCode: 28001, Capacity: 500, CurrentFill: 100, FillLevelTag: "GREEN"})

	dumpsters, err := h.dumpsters.GetAllDumpsters(ctx)
	require.NoError(t, err)
	require.Len(t, dumpsters, 1)
	assert.Equal(t, "Main St", dumpsters[0].Location)
	assert.Equal(t, models.FillLow, dumpsters[0].FillLevel())
	assert.InDelta(t, 20.0, dumpsters[0].FillPercentage(), 0.001)
}

func TestEndToEndStaleSessionIsNotCleared(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.auth.Login(ctx, "a@b.com", "x"))
	token := h.store.Token()

	// Simulate backend-side revocation: the next call runs into a 401.
	require.NoError(t, h.auth.Logout(ctx))
	h.store.SetSession(token, "a@b.com")

	_, err := h.dumpsters.GetAllDumpsters(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthentication, apperrors.KindOf(err))

	// The controller surfaces the failure but leaves the session alone.
	assert.True(t, h.store.IsAuthenticated())
	assert.Equal(t, token, h.store.Token())
}

func TestEndToEndCreateRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.auth.Login(ctx, "a@b.com", "x"))

	created, err := h.dumpsters.CreateDumpster(ctx, "Main St", 28001, 500, 100)
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, "Main St", created.Location)
	assert.Equal(t, 28001, created.PostalCode)
	assert.Equal(t, 500, created.Capacity)
	assert.Equal(t, 100, created.CurrentFill)

	require.NoError(t, h.dumpsters.UpdateDumpsterFill(ctx, *created.ID, 350))
	dumpsters, err := h.dumpsters.GetAllDumpsters(ctx)
	require.NoError(t, err)
	require.Len(t, dumpsters, 1)
	assert.Equal(t, 350, dumpsters[0].CurrentFill)
}

func TestEndToEndAssignmentWorkflow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.auth.Login(ctx, "a@b.com", "x"))

	created, err := h.dumpsters.CreateDumpster(ctx, "Main St", 28001, 500, 100)
	require.NoError(t, err)

	h.data.AddPlant(models.RecyclingPlant{Name: "NorthPlant", Location: "Industrial Park 3", MaxCapacity: 10000})
	h.data.AddPlant(models.RecyclingPlant{Name: "RiversidePlant", Location: "Dock 12", MaxCapacity: 6000})
	today := models.DateOf(h.clock.Now())
	h.data.SetCapacity("NorthPlant", today, 5800)
	// RiversidePlant has no capacity entry: its query 404s and degrades
	// to an unknown placeholder instead of blocking selection.

	var presented []workflow.PlantOption
	selector := workflow.SelectorFunc(func(options []workflow.PlantOption) (string, bool) {
		presented = options
		return "NorthPlant", true
	})
	assign := workflow.NewAssignment(h.dumpsters, selector, h.clock, nil)

	result, err := assign.Run(ctx, *created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateCommitted, result.State)

	require.Len(t, presented, 2)
	require.NotNil(t, presented[0].Capacity)
	assert.Equal(t, 5800, *presented[0].Capacity)
	assert.Nil(t, presented[1].Capacity)

	require.NotNil(t, result.Plant)
	assert.Equal(t, "NorthPlant", result.Plant.Name)
	assert.Equal(t, "Industrial Park 3", result.Plant.Location)

	// The backend recorded the assignment.
	dumpsters, err := h.dumpsters.GetAllDumpsters(ctx)
	require.NoError(t, err)
	require.Len(t, dumpsters, 1)
	require.NotNil(t, dumpsters[0].AssignedPlant)
	assert.Equal(t, "NorthPlant", dumpsters[0].AssignedPlant.Name)
}

func TestEndToEndLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.auth.Login(ctx, "a@b.com", "x"))

	require.NoError(t, h.auth.Logout(ctx))
	assert.False(t, h.store.IsAuthenticated())

	_, err := h.dumpsters.GetAllDumpsters(ctx)
	assert.Equal(t, apperrors.KindNoSession, apperrors.KindOf(err))
}
