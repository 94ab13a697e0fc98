package handlers

import (
	"context"
	"time"

	"github.com/tipsradar/settle-api/internal/models"
)

// MockIngestService
type MockIngestService struct {
	IngestStructuredFunc func(ctx context.Context, items []models.StructuredPrediction) (int, error)
	IngestLegacyFunc     func(ctx context.Context, items []models.LegacyPrediction) (int, error)

	Structured []models.StructuredPrediction
	Legacy     []models.LegacyPrediction
}

func (m *MockIngestService) IngestStructured(ctx context.Context, items []models.StructuredPrediction) (int, error) {
	m.Structured = append(m.Structured, items...)
	if m.IngestStructuredFunc != nil {
		return m.IngestStructuredFunc(ctx, items)
	}
	return len(items), nil
}

func (m *MockIngestService) IngestLegacy(ctx context.Context, items []models.LegacyPrediction) (int, error) {
	m.Legacy = append(m.Legacy, items...)
	if m.IngestLegacyFunc != nil {
		return m.IngestLegacyFunc(ctx, items)
	}
	return len(items), nil
}

// MockSettlementService
type MockSettlementService struct {
	SweepFunc func(ctx context.Context) (*models.SweepSummary, error)
}

func (m *MockSettlementService) Sweep(ctx context.Context) (*models.SweepSummary, error) {
	if m.SweepFunc != nil {
		return m.SweepFunc(ctx)
	}
	return &models.SweepSummary{}, nil
}

// MockAuditQueue
type MockAuditQueue struct {
	EnqueueFunc func(ev *models.AuditEvent) bool
	Events      []*models.AuditEvent
}

func (m *MockAuditQueue) Enqueue(ev *models.AuditEvent) bool {
	m.Events = append(m.Events, ev)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ev)
	}
	return true
}

func (m *MockAuditQueue) QueueDepth() int { return len(m.Events) }

// MockPredictionStore covers only what the handlers touch.
type MockPredictionStore struct {
	ListRecentFunc func(ctx context.Context, limit int) ([]models.Prediction, error)
}

func (m *MockPredictionStore) UpsertPredictions(ctx context.Context, preds []models.Prediction) (int, error) {
	return len(preds), nil
}

func (m *MockPredictionStore) ListPending(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	return nil, nil
}

func (m *MockPredictionStore) ListRecent(ctx context.Context, limit int) ([]models.Prediction, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockPredictionStore) Settle(ctx context.Context, s models.Settlement) (bool, error) {
	return true, nil
}
