package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q, ok := parsePage(w, r)
	if !ok {
		return
	}

	users, total, err := h.service.ListUsers(r.Context(), q.Page, q.Limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UsersResponse{Users: users, Page: q.Page, Limit: q.Limit, Total: total})
}

// GET /users/{userID}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid user_id parameter")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GET /users/{userID}/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid user_id parameter")
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PreferencesResponse{UserID: userID, Preferences: *prefs})
}

// PUT /users/{userID}/preferences
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid user_id parameter")
		return
	}

	var req PreferencesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "Request body must be JSON with likes and dislikes")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, domain.Preferences{
		Likes:    req.Likes,
		Dislikes: req.Dislikes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PreferencesResponse{UserID: userID, Preferences: *prefs})
}

// GET /users/{userID}/allergies
func (h *Handler) GetAllergies(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid user_id parameter")
		return
	}

	allergies, err := h.service.GetAllergies(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if allergies == nil {
		allergies = []string{}
	}
	writeJSON(w, http.StatusOK, AllergiesResponse{UserID: userID, Allergies: allergies})
}
