package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/tipsradar/settle-api/internal/models"
)

// IngestPredictions handles POST /api/v1/ingest/predictions
// @Summary Ingest Predictions
// @Description Accepts structured or legacy prediction payloads, single object or array
// @Tags Ingestion
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body models.StructuredPrediction true "Prediction"
// @Success 200 {object} models.IngestResponse
// @Failure 400 {object} models.IngestResponse "Bad Request"
// @Failure 401 {object} models.IngestResponse "Missing or invalid API key"
// @Router /ingest/predictions [post]
func (h *Handler) IngestPredictions(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.jsonResponse(w, http.StatusRequestEntityTooLarge, models.IngestResponse{Error: "request body too large"})
		return
	}
	defer r.Body.Close()

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "empty body"})
		return
	}

	items := splitPayload(body)
	if items == nil {
		h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "invalid JSON"})
		return
	}

	legacy := isLegacyPayload(items)

	// Legacy senders predate key auth and are exempt; everything else
	// must present the configured key.
	if !legacy && !h.ingestKeyValid(r) {
		h.jsonResponse(w, http.StatusUnauthorized, models.IngestResponse{Error: "missing or invalid API key"})
		return
	}

	ctx := r.Context()
	count := 0
	if legacy {
		var payload []models.LegacyPrediction
		for _, raw := range items {
			var item models.LegacyPrediction
			if err := json.Unmarshal(raw, &item); err != nil {
				h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "invalid legacy payload"})
				return
			}
			if err := h.ValidateStruct(&item); err != nil {
				h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "validation failed: " + err.Error()})
				return
			}
			payload = append(payload, item)
		}
		count, err = h.ingest.IngestLegacy(ctx, payload)
	} else {
		var payload []models.StructuredPrediction
		for _, raw := range items {
			var item models.StructuredPrediction
			if err := json.Unmarshal(raw, &item); err != nil {
				h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "invalid prediction payload"})
				return
			}
			if err := h.ValidateStruct(&item); err != nil {
				h.jsonResponse(w, http.StatusBadRequest, models.IngestResponse{Error: "validation failed: " + err.Error()})
				return
			}
			payload = append(payload, item)
		}
		count, err = h.ingest.IngestStructured(ctx, payload)
	}

	if err != nil {
		h.logger.Errorw("Ingestion failed", "error", err, "legacy", legacy)
		h.jsonResponse(w, http.StatusInternalServerError, models.IngestResponse{Error: "ingestion failed"})
		return
	}

	h.logger.Infow("Predictions ingested", "count", count, "legacy", legacy)
	h.jsonResponse(w, http.StatusOK, models.IngestResponse{Success: true, Count: count})
}

// splitPayload turns a single JSON object or a JSON array into raw
// per-item messages. Returns nil on malformed JSON.
func splitPayload(body []byte) []json.RawMessage {
	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
		return items
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return []json.RawMessage{json.RawMessage(body)}
}

// isLegacyPayload sniffs the first item for the legacy shape's opaque
// "prediction" text field.
func isLegacyPayload(items []json.RawMessage) bool {
	if len(items) == 0 {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return false
	}
	_, ok := probe["prediction"]
	return ok
}

func (h *Handler) ingestKeyValid(r *http.Request) bool {
	if h.ingestAPIKey == "" {
		return true
	}
	key := r.Header.Get("X-API-Key")
	if key == "" {
		key = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	return key == h.ingestAPIKey
}
