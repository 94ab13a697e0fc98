package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/tipsradar/settle-api/internal/models"
)

// RunSettlement handles GET /api/v1/settle/run
// @Summary Run Settlement Sweep
// @Description Scheduler-invoked: matches and settles pending predictions
// @Tags Settlement
// @Produce json
// @Security SweepToken
// @Success 200 {object} models.SettleResponse
// @Failure 401 {object} models.SettleResponse "Invalid sweep token"
// @Failure 500 {object} models.SettleResponse
// @Router /settle/run [get]
func (h *Handler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	if !h.sweepTokenValid(r) {
		h.jsonResponse(w, http.StatusUnauthorized, models.SettleResponse{Error: "missing or invalid sweep token"})
		return
	}

	// The scheduler expects a bounded sweep: anything unfinished stays
	// pending and is retried next invocation.
	ctx := r.Context()
	if h.sweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.sweepTimeout)
		defer cancel()
	}

	summary, err := h.settlement.Sweep(ctx)
	if err != nil {
		h.logger.Errorw("Sweep failed", "error", err)
		h.jsonResponse(w, http.StatusInternalServerError, models.SettleResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.jsonResponse(w, http.StatusOK, models.SettleResponse{
		Success:   true,
		Processed: summary.Processed,
		Matched:   summary.Matched,
		Settled:   summary.Settled,
		Ambiguous: summary.Ambiguous,
		Duration:  summary.DurationS,
	})
}

func (h *Handler) sweepTokenValid(r *http.Request) bool {
	if h.sweepToken == "" {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token == h.sweepToken
}
