package handler

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// GET /users/{userID}/recommendations
func (h *Handler) GetUserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid user_id parameter")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if r.URL.Query().Has("limit") && limit == 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "limit must be greater than or equal to 1")
		return
	}
	if err := h.checkLimit(limit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", fieldMessage(err, "limit"))
		return
	}

	result, err := h.service.RecommendForUser(r.Context(), userID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newRecommendationResponse(userID, result))
}

// POST /recommendations
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "Request body must be a JSON profile with integer weights")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}
	if err := h.checkLimit(req.Limit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", fieldMessage(err, "limit"))
		return
	}

	result, err := h.service.RecommendForProfile(r.Context(), req.Profile, req.Exclude, req.Limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newRecommendationResponse(0, result))
}

func newRecommendationResponse(userID int64, result *domain.RecommendationResult) RecommendationResponse {
	recs := result.Recommendations
	if recs == nil {
		recs = []domain.RankedMeal{}
	}
	return RecommendationResponse{
		UserID:          userID,
		Recommendations: recs,
		Metadata: domain.RecommendationMeta{
			CacheHit:     result.CacheHit,
			GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
			TotalCount:   len(recs),
			IndexVersion: result.IndexVersion,
		},
	}
}
