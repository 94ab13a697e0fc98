package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tipsradar/settle-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PredictionStore persists predictions and their settlement state.
type PredictionStore interface {
	// UpsertPredictions inserts predictions, silently skipping rows whose
	// external id is already stored. Returns the number actually inserted.
	UpsertPredictions(ctx context.Context, preds []models.Prediction) (int, error)

	// ListPending returns unsettled predictions received at or after since.
	ListPending(ctx context.Context, since time.Time) ([]models.Prediction, error)

	// ListRecent returns the newest predictions regardless of state.
	ListRecent(ctx context.Context, limit int) ([]models.Prediction, error)

	// Settle applies a terminal result. The update is conditional on the
	// row still being pending; applied is false when another sweep got
	// there first.
	Settle(ctx context.Context, s models.Settlement) (applied bool, err error)
}

// FixtureProvider is the external sports-data API, consumed read-only.
type FixtureProvider interface {
	LiveFixtures(ctx context.Context) ([]models.Fixture, error)
	FixturesByDate(ctx context.Context, date string) ([]models.Fixture, error)
}

// AuditSink receives append-only audit events. Enqueue must never block
// the caller; a false return means the event was dropped.
type AuditSink interface {
	Enqueue(ev *models.AuditEvent) bool
}

// IngestService normalizes inbound payloads into stored predictions.
type IngestService interface {
	IngestStructured(ctx context.Context, items []models.StructuredPrediction) (int, error)
	IngestLegacy(ctx context.Context, items []models.LegacyPrediction) (int, error)
}

// SettlementService runs one settlement sweep over pending predictions.
type SettlementService interface {
	Sweep(ctx context.Context) (*models.SweepSummary, error)
}
