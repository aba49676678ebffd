package handler

import (
	"encoding/json"
	"net/http"

	"lineup/internal/location"
	apperrors "lineup/pkg/errors"
	httputil "lineup/pkg/http"
	"lineup/pkg/logger"
	"lineup/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// LocationHandler relays client-reported device positions into the caller's
// own location slot and exposes that slot's state. Every request is keyed by
// user_id so one user's position is never visible to, or usable by, another.
type LocationHandler struct {
	registry *location.Registry
	log      *logger.Logger
}

func NewLocationHandler(registry *location.Registry, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		registry: registry,
		log:      log,
	}
}

type ReportRequest struct {
	UserID         string  `json:"user_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_m,omitempty"`
}

type StateResponse struct {
	Status    string              `json:"status"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Location  *model.UserLocation `json:"location,omitempty"`
}

func (h *LocationHandler) Report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Report", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if req.UserID == "" {
		h.writeError(w, "Report", apperrors.Unauthorized("user_id is required"))
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		h.writeError(w, "Report", apperrors.InvalidInput("latitude/longitude out of range"))
		return
	}

	slot := h.registry.Slot(req.UserID)
	slot.Sensor.Report(req.Latitude, req.Longitude, req.AccuracyMeters)
	if err := slot.Provider.Acquire(r.Context()); err != nil {
		h.writeError(w, "Report", apperrors.LocationUnavailable(err.Error()))
		return
	}

	h.writeState(w, "Report", slot.Provider)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, "Get", apperrors.Unauthorized("user_id is required"))
		return
	}

	h.writeState(w, "Get", h.registry.Slot(userID).Provider)
}

func (h *LocationHandler) writeState(w http.ResponseWriter, handlerName string, provider *location.Provider) {
	status, errKind := provider.State()
	resp := StateResponse{
		Status:   string(status),
		Location: provider.Current(),
	}
	if status == location.StatusError {
		resp.ErrorKind = string(errKind)
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", handlerName, "operation", "WriteSuccess", "error", err)
	}
}

func (h *LocationHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *LocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/location", h.Report)
	router.GET("/api/v1/location", h.Get)
}
