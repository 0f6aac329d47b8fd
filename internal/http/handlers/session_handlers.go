package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chargeshare/internal/http/middleware"
	"chargeshare/internal/models"
	"chargeshare/internal/service"
)

// SessionHandlers serves the charging session state machine under
// /charging-sessions.
type SessionHandlers struct {
	charging ChargingService
}

// NewSessionHandlers builds the handler group.
func NewSessionHandlers(charging ChargingService) *SessionHandlers {
	return &SessionHandlers{charging: charging}
}

// Start handles POST /charging-sessions.
func (h *SessionHandlers) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		StationID int64 `json:"stationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, "stationId is required")
		return
	}

	session, err := h.charging.Start(r.Context(), userID, req.StationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "station not found")
		case errors.Is(err, service.ErrInsufficientMinutes):
			writeError(w, http.StatusBadRequest, "insufficient minutes")
		case errors.Is(err, service.ErrOwnStation):
			writeError(w, http.StatusBadRequest, "cannot charge on your own station")
		case errors.Is(err, service.ErrStationUnavailable):
			writeError(w, http.StatusBadRequest, "station is not available")
		default:
			writeError(w, http.StatusInternalServerError, "failed to start charging session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "charging session started",
		"session": session,
	})
}

// Stop handles PATCH /charging-sessions: ends the caller's session on
// the given station and debits the reported minutes.
func (h *SessionHandlers) Stop(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		StationID int64 `json:"stationId"`
		Minutes   int   `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, "stationId is required")
		return
	}
	if req.Minutes < 0 {
		writeError(w, http.StatusBadRequest, "minutes must not be negative")
		return
	}

	session, remaining, err := h.charging.Stop(r.Context(), userID, req.StationID, req.Minutes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "no active charging session on this station")
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "minutes must not be negative")
		default:
			writeError(w, http.StatusInternalServerError, "failed to stop charging session")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "charging session stopped",
		"session":          session,
		"remainingMinutes": remaining,
	})
}

// Active handles GET /admin/charging-sessions: every currently running
// session, for the admin panel.
func (h *SessionHandlers) Active(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.charging.ActiveSessions(r.Context(), 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	if sessions == nil {
		sessions = []models.ChargingSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Me handles GET /charging-sessions/me: the caller's session history.
func (h *SessionHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.charging.SessionsForUser(r.Context(), userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	if sessions == nil {
		sessions = []models.ChargingSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
