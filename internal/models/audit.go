package models

import "time"

// AuditKind discriminates audit stream rows.
type AuditKind string

const (
	AuditRequest    AuditKind = "request"
	AuditSettlement AuditKind = "settlement"
)

// AuditEvent is one append-only audit row. Request mirrors capture every
// ingest/settle HTTP call; settlement events capture each terminal decision.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      AuditKind `json:"kind"`

	// Request mirror fields
	Method       string `json:"method,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	Headers      string `json:"headers,omitempty"`
	Body         string `json:"body,omitempty"`
	StatusCode   int    `json:"statusCode,omitempty"`
	ResponseBody string `json:"responseBody,omitempty"`
	CallerIP     string `json:"callerIp,omitempty"`

	// Settlement fields
	PredictionID string `json:"predictionId,omitempty"`
	FixtureID    int64  `json:"fixtureId,omitempty"`
	Result       string `json:"result,omitempty"`
	ResultLog    string `json:"resultLog,omitempty"`
	FinalScore   string `json:"finalScore,omitempty"`
}
