package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/models"
)

// DumpsterGateway exposes the container endpoints of the backend.
type DumpsterGateway struct {
	transport
}

// NewDumpsterGateway constructs a DumpsterGateway for the given base URL.
func NewDumpsterGateway(baseURL string, client *http.Client, logger *zap.Logger) *DumpsterGateway {
	return &DumpsterGateway{transport: newTransport(baseURL, client, logger)}
}

// List fetches all dumpsters visible to the session.
func (g *DumpsterGateway) List(ctx context.Context, token string) ([]models.Dumpster, error) {
	status, body, err := g.do(ctx, http.MethodGet, "/dumpsters", nil, token, nil)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	return decodeList[models.Dumpster](status, body)
}

// UpdateFill replaces a dumpster's current fill volume. The request body
// is the bare integer, per the backend contract.
func (g *DumpsterGateway) UpdateFill(ctx context.Context, token string, dumpsterID int64, currentFill int) error {
	path := fmt.Sprintf("/dumpsters/%d/dump_info", dumpsterID)
	status, body, err := g.do(ctx, http.MethodPut, path, nil, token, currentFill)
	if err != nil {
		return err
	}
	return mapStatus(status, body)
}

// Create registers a new dumpster. The server assigns the identifier and
// returns the full created object.
func (g *DumpsterGateway) Create(ctx context.Context, token string, d models.Dumpster) (*models.Dumpster, error) {
	status, body, err := g.do(ctx, http.MethodPost, "/dumpsters", nil, token, d)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	var created models.Dumpster
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, apperrors.TransportCause("decode created dumpster", err)
	}
	return &created, nil
}

// Usage fetches a dumpster's usage records over a date range, inclusive.
func (g *DumpsterGateway) Usage(ctx context.Context, token string, dumpsterID int64, start, end models.Date) ([]models.UsageRecord, error) {
	path := fmt.Sprintf("/dumpsters/%d/usage", dumpsterID)
	query := url.Values{
		"start_date": {start.String()},
		"end_date":   {end.String()},
	}
	status, body, err := g.do(ctx, http.MethodGet, path, query, token, nil)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	return decodeList[models.UsageRecord](status, body)
}

// ByPostalCode fetches the dumpsters of a postal code with their status as
// of the given date.
func (g *DumpsterGateway) ByPostalCode(ctx context.Context, token string, date models.Date, postalCode int) ([]models.Dumpster, error) {
	query := url.Values{
		"date":        {date.String()},
		"postal_code": {strconv.Itoa(postalCode)},
	}
	status, body, err := g.do(ctx, http.MethodGet, "/dumpsters/status/postal_code", query, token, nil)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status, body); err != nil {
		return nil, err
	}
	return decodeList[models.Dumpster](status, body)
}
