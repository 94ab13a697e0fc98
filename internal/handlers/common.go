package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tipsradar/settle-api/internal/models"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check all dependencies
	checks := map[string]bool{
		"postgres":   h.pg.Ping(ctx) == nil,
		"clickhouse": h.ch.Ping(ctx) == nil,
		"redis":      h.redis.Ping(ctx).Err() == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": h.pool.QueueDepth(),
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// ValidateStruct runs struct-tag validation on a decoded payload.
func (h *Handler) ValidateStruct(v interface{}) error {
	return h.validator.Struct(v)
}

// captureWriter records status and body for the request mirror.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// RequestMirror copies every call on the wrapped routes (method, endpoint,
// headers, body, status, response, caller IP) into the audit pipeline.
// Mirroring never blocks or fails the request itself.
func (h *Handler) RequestMirror(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		cw := &captureWriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)

		if !h.pool.Enqueue(&models.AuditEvent{
			Timestamp:    time.Now(),
			Kind:         models.AuditRequest,
			Method:       r.Method,
			Endpoint:     r.URL.Path,
			Headers:      flattenHeaders(r.Header),
			Body:         string(body),
			StatusCode:   cw.status,
			ResponseBody: cw.buf.String(),
			CallerIP:     clientIP(r),
		}) {
			h.logger.Warnw("Audit queue full, request mirror dropped", "endpoint", r.URL.Path)
		}
	})
}

func flattenHeaders(header http.Header) string {
	var sb strings.Builder
	for k, vals := range header {
		// Never mirror credentials into the audit stream.
		if k == "Authorization" || k == "X-Api-Key" {
			sb.WriteString(k + ": [redacted]\n")
			continue
		}
		sb.WriteString(k + ": " + strings.Join(vals, ",") + "\n")
	}
	return sb.String()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
