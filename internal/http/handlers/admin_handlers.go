package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"chargeshare/internal/service"
)

// AdminHandlers serves the /admin panel endpoints. All but Login sit
// behind the admin token middleware.
type AdminHandlers struct {
	admin AdminService
}

// NewAdminHandlers builds the handler group.
func NewAdminHandlers(admin AdminService) *AdminHandlers {
	return &AdminHandlers{admin: admin}
}

// Login handles POST /admin/login with the static panel credentials.
func (h *AdminHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Data handles GET /admin/data: all users and all stations.
func (h *AdminHandlers) Data(w http.ResponseWriter, r *http.Request) {
	dump, err := h.admin.Data(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":    toUserPayloads(dump.Users),
		"stations": dump.Stations,
	})
}

// Users handles GET /admin/users.
func (h *AdminHandlers) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, toUserPayloads(users))
}

// UpdateUser handles PATCH /admin/users/{id}. Minutes is absolute;
// email and password bypass the profile validation path.
func (h *AdminHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		Minutes   *int    `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), id, service.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Minutes:   req.Minutes,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}

// DeleteUser handles DELETE /admin/users/{id}; the user's stations and
// sessions are removed with them.
func (h *AdminHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
