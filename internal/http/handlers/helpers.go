package handlers

import (
	"encoding/json"
	"net/http"

	"chargeshare/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// userPayload is the sanitized user projection; the stored hash never
// reaches a response body.
type userPayload struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Minutes   int    `json:"minutes"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Minutes:   u.Minutes,
	}
}

func toUserPayloads(users []models.User) []userPayload {
	payloads := make([]userPayload, 0, len(users))
	for i := range users {
		payloads = append(payloads, toUserPayload(&users[i]))
	}
	return payloads
}
