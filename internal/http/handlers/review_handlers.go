package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"chargeshare/internal/http/middleware"
	"chargeshare/internal/service"
)

// ReviewHandlers serves POST /stations/{id}/reviews.
type ReviewHandlers struct {
	reviews ReviewService
}

// NewReviewHandlers builds the handler group.
func NewReviewHandlers(reviews ReviewService) *ReviewHandlers {
	return &ReviewHandlers{reviews: reviews}
}

// Append adds a review to a station the caller does not own and returns
// the station with its recomputed rating.
func (h *ReviewHandlers) Append(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stationID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station, err := h.reviews.Append(r.Context(), userID, stationID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "station not found")
		case errors.Is(err, service.ErrOwnStation):
			writeError(w, http.StatusBadRequest, "cannot review your own station")
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to append review")
		}
		return
	}
	writeJSON(w, http.StatusCreated, station)
}
