package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/models"
)

// PlantGateway exposes the recycling-plant endpoints of the backend.
type PlantGateway struct {
	transport
}

// NewPlantGateway constructs a PlantGateway for the given base URL.
func NewPlantGateway(baseURL string, client *http.Client, logger *zap.Logger) *PlantGateway {
	return &PlantGateway{transport: newTransport(baseURL, client, logger)}
}

// List fetches all recycling plants.
func (g *PlantGateway) List(ctx context.Context, token string) ([]models.RecyclingPlant, error) {
	status, body, err := g.do(ctx, http.MethodGet, "/recyclingPlants", nil, token, nil)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	return decodeList[models.RecyclingPlant](status, body)
}

// Capacity fetches a plant's available capacity for a date. A 404 means
// the plant is unknown to the backend and yields a nil value, not an
// error.
func (g *PlantGateway) Capacity(ctx context.Context, token, plantName string, date models.Date) (*int, error) {
	path := "/recyclingPlants/" + url.PathEscape(plantName) + "/capacity"
	query := url.Values{"date": {date.String()}}
	status, body, err := g.do(ctx, http.MethodGet, path, query, token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	var capacity int
	if err := json.Unmarshal(body, &capacity); err != nil {
		return nil, apperrors.TransportCause("decode capacity", err)
	}
	return &capacity, nil
}

// AssignDumpsters assigns the given dumpsters to a named plant.
func (g *PlantGateway) AssignDumpsters(ctx context.Context, token, plantName string, dumpsterIDs []int64) error {
	payload := models.AssignRequest{PlantName: plantName, DumpsterIDs: dumpsterIDs}
	status, body, err := g.do(ctx, http.MethodPost, "/recyclingPlants/assignDumpster", nil, token, payload)
	if err != nil {
		return err
	}
	return mapStatus(status, body)
}
