// Package handler provides HTTP handlers for the AikaPulse API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aikapulse/aikapulse/internal/api/models"
	"github.com/aikapulse/aikapulse/internal/api/response"
	"github.com/aikapulse/aikapulse/internal/geo"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// SnapshotBuilder assembles a situation snapshot for a location.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, loc snapshot.Location) (*snapshot.Snapshot, error)
}

// LocationResolver turns a free-text place query into coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) (snapshot.Location, error)
}

// SnapshotHandler serves assembled situation snapshots.
type SnapshotHandler struct {
	builder  SnapshotBuilder
	resolver LocationResolver
	// defaultLoc is served when the request names no location.
	defaultLoc snapshot.Location
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(builder SnapshotBuilder, resolver LocationResolver, defaultLoc snapshot.Location) *SnapshotHandler {
	return &SnapshotHandler{
		builder:    builder,
		resolver:   resolver,
		defaultLoc: defaultLoc,
	}
}

// GetSnapshot handles GET /v1/snapshot.
//
// The location comes from lat/lon query parameters, from a free-text
// city parameter, or from the configured default, in that order.
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	loc, fieldErrs, err := h.resolveLocation(r)
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid location parameters", fieldErrs)
		return
	}
	if err != nil {
		if errors.Is(err, geo.ErrNotFound) {
			response.NotFound(w, r, "no location matched the query")
			return
		}
		response.ServiceUnavailable(w, r, "location lookup failed")
		return
	}

	snap, err := h.builder.BuildSnapshot(r.Context(), loc)
	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrInvalidCoordinates):
			response.BadRequest(w, r, "coordinates out of range", nil)
		case errors.Is(err, snapshot.ErrAllDomainsUnavailable):
			response.ServiceUnavailable(w, r, "every data source is currently unavailable")
		default:
			response.InternalError(w, r, "snapshot assembly failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, snap)
}

// resolveLocation picks the request's location source. Parameter errors and
// lookup errors are reported separately so they map to different statuses.
func (h *SnapshotHandler) resolveLocation(r *http.Request) (snapshot.Location, []models.FieldError, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")

	if latStr != "" || lonStr != "" {
		var fieldErrs []models.FieldError
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "lat", Message: "must be a number"})
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "lon", Message: "must be a number"})
		}
		if len(fieldErrs) > 0 {
			return snapshot.Location{}, fieldErrs, nil
		}

		loc := snapshot.Location{Latitude: lat, Longitude: lon}
		if err := loc.Validate(); err != nil {
			return snapshot.Location{}, []models.FieldError{
				{Field: "lat", Message: "coordinates out of range"},
			}, nil
		}
		return loc, nil, nil
	}

	if city := q.Get("city"); city != "" {
		loc, err := h.resolver.Resolve(r.Context(), city)
		return loc, nil, err
	}

	return h.defaultLoc, nil, nil
}
