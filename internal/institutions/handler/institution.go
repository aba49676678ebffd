package handler

import (
	"net/http"

	"lineup/internal/institutions/service"
	apperrors "lineup/pkg/errors"
	httputil "lineup/pkg/http"
	"lineup/pkg/logger"
	"lineup/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InstitutionHandler struct {
	service service.DiscoveryService
	log     *logger.Logger
}

func NewInstitutionHandler(service service.DiscoveryService, log *logger.Logger) *InstitutionHandler {
	return &InstitutionHandler{
		service: service,
		log:     log,
	}
}

// InstitutionDetail bundles an institution with its bookable services for the
// detail endpoint.
type InstitutionDetail struct {
	Institution *model.Institution `json:"institution"`
	Services    []*model.Service   `json:"services"`
}

func (h *InstitutionHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, hasLat, err := httputil.ExtractFloat(r, "lat")
	if err != nil {
		h.writeError(w, "Search", apperrors.InvalidInput("invalid lat parameter"))
		return
	}
	lon, hasLon, err := httputil.ExtractFloat(r, "lon")
	if err != nil {
		h.writeError(w, "Search", apperrors.InvalidInput("invalid lon parameter"))
		return
	}
	if hasLat != hasLon {
		h.writeError(w, "Search", apperrors.InvalidInput("lat and lon must be provided together"))
		return
	}

	params := service.SearchParams{
		Type: r.URL.Query().Get("institution_type"),
		City: r.URL.Query().Get("city"),
	}
	if hasLat {
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			h.writeError(w, "Search", apperrors.InvalidInput("lat/lon out of range"))
			return
		}
		params.Origin = &service.Origin{Lat: lat, Lon: lon}
	}

	radius, hasRadius, err := httputil.ExtractFloat(r, "radius_km")
	if err != nil {
		h.writeError(w, "Search", apperrors.InvalidInput("invalid radius_km parameter"))
		return
	}
	if hasRadius {
		if radius <= 0 {
			h.writeError(w, "Search", apperrors.InvalidInput("radius_km must be positive"))
			return
		}
		params.RadiusKm = &radius
	}

	results, err := h.service.Search(r.Context(), params)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InstitutionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	institution, services, err := h.service.GetWithServices(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, InstitutionDetail{
		Institution: institution,
		Services:    services,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InstitutionHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *InstitutionHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/institutions", h.Search)
	router.GET("/api/v1/institutions/id/:id", h.GetByID)
}
