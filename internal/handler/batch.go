package handler

import (
	"net/http"
)

// GET /recommendations/batch
func (h *Handler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	q, ok := parsePage(w, r)
	if !ok {
		return
	}

	result, err := h.service.RecommendBatch(r.Context(), q.Page, q.Limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parsePage reads page and limit query parameters, writing a 400 on failure.
func parsePage(w http.ResponseWriter, r *http.Request) (pageQuery, bool) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return pageQuery{}, false
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return pageQuery{}, false
	}

	q := pageQuery{Page: page, Limit: limit}
	if err := validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return pageQuery{}, false
	}
	return q, true
}
