package controller

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/models"
	"github.com/osanchezp/ecotrack/internal/session"
)

// Postal code bounds accepted by the backend.
const (
	MinPostalCode = 1000
	MaxPostalCode = 99999
)

// DumpsterAPI is the slice of the dumpster gateway the controller consumes.
type DumpsterAPI interface {
	List(ctx context.Context, token string) ([]models.Dumpster, error)
	UpdateFill(ctx context.Context, token string, dumpsterID int64, currentFill int) error
	Create(ctx context.Context, token string, d models.Dumpster) (*models.Dumpster, error)
	Usage(ctx context.Context, token string, dumpsterID int64, start, end models.Date) ([]models.UsageRecord, error)
	ByPostalCode(ctx context.Context, token string, date models.Date, postalCode int) ([]models.Dumpster, error)
}

// PlantAPI is the slice of the plant gateway the controller consumes.
type PlantAPI interface {
	List(ctx context.Context, token string) ([]models.RecyclingPlant, error)
	Capacity(ctx context.Context, token, plantName string, date models.Date) (*int, error)
	AssignDumpsters(ctx context.Context, token, plantName string, dumpsterIDs []int64) error
}

// DumpsterController validates inputs before any network call and
// dispatches with the session token read exactly once per operation. It
// never clears the session itself; a stale session surfaces as an
// authentication error for the login flow to handle.
type DumpsterController struct {
	dumpsters DumpsterAPI
	plants    PlantAPI
	store     *session.Store
	logger    *zap.Logger
}

// NewDumpsterController constructs a DumpsterController. A nil logger is
// replaced by a no-op one.
func NewDumpsterController(dumpsters DumpsterAPI, plants PlantAPI, store *session.Store, logger *zap.Logger) *DumpsterController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DumpsterController{dumpsters: dumpsters, plants: plants, store: store, logger: logger}
}

// token reads the session token once for the whole operation. An absent
// token fails immediately without touching the network.
func (c *DumpsterController) token() (string, error) {
	token, _ := c.store.Snapshot()
	if token == "" {
		return "", apperrors.NoSession()
	}
	return token, nil
}

// wrap converts a gateway failure into a user-facing error, preserving
// the original cause. Authentication failures get the re-authenticate
// message regardless of the operation.
func (c *DumpsterController) wrap(err error, message string) error {
	if apperrors.IsKind(err, apperrors.KindAuthentication) {
		message = "session invalid, please re-authenticate"
	}
	c.logger.Warn(message, zap.Error(err))
	return apperrors.Wrap(err, message)
}

// GetAllDumpsters fetches every dumpster visible to the session.
func (c *DumpsterController) GetAllDumpsters(ctx context.Context) ([]models.Dumpster, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	dumpsters, err := c.dumpsters.List(ctx, token)
	if err != nil {
		return nil, c.wrap(err, "could not load dumpsters")
	}
	return dumpsters, nil
}

// CreateDumpster validates the fields and registers a new dumpster. The
// returned object carries the server-assigned identifier.
func (c *DumpsterController) CreateDumpster(ctx context.Context, location string, postalCode, capacity, currentFill int) (*models.Dumpster, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperrors.Validation("location must not be empty")
	}
	if postalCode < MinPostalCode || postalCode > MaxPostalCode {
		return nil, apperrors.Validation(fmt.Sprintf("postal code must be between %d and %d", MinPostalCode, MaxPostalCode))
	}
	if capacity <= 0 {
		return nil, apperrors.Validation("capacity must be greater than 0")
	}
	if currentFill < 0 || currentFill > capacity {
		return nil, apperrors.Validation(fmt.Sprintf("current fill must be between 0 and %d", capacity))
	}

	token, err := c.token()
	if err != nil {
		return nil, err
	}
	created, err := c.dumpsters.Create(ctx, token, models.Dumpster{
		Location:    location,
		PostalCode:  postalCode,
		Capacity:    capacity,
		CurrentFill: currentFill,
	})
	if err != nil {
		return nil, c.wrap(err, "could not create the dumpster")
	}
	return created, nil
}

// UpdateDumpsterFill replaces a dumpster's current fill volume.
func (c *DumpsterController) UpdateDumpsterFill(ctx context.Context, dumpsterID int64, currentFill int) error {
	if currentFill < 0 {
		return apperrors.Validation("current fill must not be negative")
	}
	token, err := c.token()
	if err != nil {
		return err
	}
	if err := c.dumpsters.UpdateFill(ctx, token, dumpsterID, currentFill); err != nil {
		return c.wrap(err, "could not update the dumpster")
	}
	return nil
}

// GetDumpsterUsage fetches the usage history of a dumpster over a date
// range.
func (c *DumpsterController) GetDumpsterUsage(ctx context.Context, dumpsterID int64, start, end models.Date) ([]models.UsageRecord, error) {
	if start.After(end) {
		return nil, apperrors.Validation("start date must not be after end date")
	}
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	records, err := c.dumpsters.Usage(ctx, token, dumpsterID, start, end)
	if err != nil {
		return nil, c.wrap(err, "could not load the usage history")
	}
	return records, nil
}

// SearchDumpstersByPostalCodeAndDate fetches the dumpsters of a postal
// code with their status as of the given date.
func (c *DumpsterController) SearchDumpstersByPostalCodeAndDate(ctx context.Context, postalCode int, date models.Date) ([]models.Dumpster, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	dumpsters, err := c.dumpsters.ByPostalCode(ctx, token, date, postalCode)
	if err != nil {
		return nil, c.wrap(err, "search failed")
	}
	return dumpsters, nil
}

// GetAllRecyclingPlants fetches every recycling plant.
func (c *DumpsterController) GetAllRecyclingPlants(ctx context.Context) ([]models.RecyclingPlant, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	plants, err := c.plants.List(ctx, token)
	if err != nil {
		return nil, c.wrap(err, "could not load recycling plants")
	}
	return plants, nil
}

// GetPlantCapacity fetches a plant's available capacity for a date. A nil
// value means the backend does not know the plant.
func (c *DumpsterController) GetPlantCapacity(ctx context.Context, plantName string, date models.Date) (*int, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	capacity, err := c.plants.Capacity(ctx, token, plantName, date)
	if err != nil {
		return nil, c.wrap(err, "could not load the plant capacity")
	}
	return capacity, nil
}

// AssignDumpsterToPlant assigns a single dumpster to a named plant.
func (c *DumpsterController) AssignDumpsterToPlant(ctx context.Context, dumpsterID int64, plantName string) error {
	if strings.TrimSpace(plantName) == "" {
		return apperrors.Validation("plant name must not be empty")
	}
	token, err := c.token()
	if err != nil {
		return err
	}
	if err := c.plants.AssignDumpsters(ctx, token, plantName, []int64{dumpsterID}); err != nil {
		return c.wrap(err, "could not assign the plant")
	}
	return nil
}
