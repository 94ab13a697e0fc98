package handlers

import (
	"net/http"
	"strconv"
)

// GetRecentPredictions handles GET /api/v1/predictions/recent
// @Summary Recent Predictions
// @Description Newest predictions with their settlement state, for operators
// @Tags Predictions
// @Produce json
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} models.Prediction
// @Failure 500 {object} map[string]string
// @Router /predictions/recent [get]
func (h *Handler) GetRecentPredictions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	preds, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to list recent predictions", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "query failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, preds)
}
