package handler

import "net/http"

// POST /admin/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Reload(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info().Int64("version", stats.Version).Int("meals", stats.Meals).Msg("index reloaded on request")
	writeJSON(w, http.StatusOK, stats)
}

// POST /admin/repopulate
func (h *Handler) Repopulate(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Repopulate(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info().Int64("version", stats.Version).Int("meals", stats.Meals).Msg("corpus repopulated")
	writeJSON(w, http.StatusOK, stats)
}

// POST /admin/clear
func (h *Handler) ClearCorpus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ClearCorpus(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Warn().Int64("version", stats.Version).Msg("corpus cleared")
	writeJSON(w, http.StatusOK, stats)
}

// GET /admin/index
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.IndexStats()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.service.Health(r.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
