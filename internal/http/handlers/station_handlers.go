package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"chargeshare/internal/http/middleware"
	"chargeshare/internal/models"
	"chargeshare/internal/service"
)

// StationHandlers serves the station lifecycle under /stations.
type StationHandlers struct {
	stations StationService
	validate *validator.Validate
}

// NewStationHandlers builds the handler group.
func NewStationHandlers(stations StationService) *StationHandlers {
	return &StationHandlers{stations: stations, validate: validator.New()}
}

type stationRequest struct {
	ID             int64   `json:"id"`
	Location       string  `json:"location" validate:"required"`
	Latitude       float64 `json:"latitude" validate:"latitude"`
	Longitude      float64 `json:"longitude" validate:"longitude"`
	Power          float64 `json:"power" validate:"required,gt=0"`
	ConnectorType  string  `json:"connectorType" validate:"required"`
	CurrentType    string  `json:"currentType" validate:"required"`
	AdditionalInfo string  `json:"additionalInfo"`
	Visible        *bool   `json:"visible"`
}

func (req *stationRequest) toInput() service.StationInput {
	return service.StationInput{
		Location:       req.Location,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		PowerKW:        req.Power,
		ConnectorType:  req.ConnectorType,
		CurrentType:    req.CurrentType,
		AdditionalInfo: req.AdditionalInfo,
		Visible:        req.Visible,
	}
}

// List handles GET /stations: every listed station with owner and
// reviewer names expanded. No auth required.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stations")
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, stations)
}

// Create handles POST /stations; the caller becomes the owner.
func (h *StationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "location, coordinates, positive power, connectorType and currentType are required")
		return
	}

	station, err := h.stations.Create(r.Context(), ownerID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create station")
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Update handles PUT /stations; the body carries the station id and the
// full set of owner-editable fields.
func (h *StationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "station id is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "location, coordinates, positive power, connectorType and currentType are required")
		return
	}

	station, err := h.stations.Update(r.Context(), ownerID, req.ID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "station not found")
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update station")
		}
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Delete handles DELETE /stations?id=N.
func (h *StationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	if err := h.stations.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, "station not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "station deleted"})
}
