package logic

import (
	"context"
	"time"

	"github.com/tipsradar/settle-api/internal/models"
)

// MockPredictionStore
type MockPredictionStore struct {
	UpsertPredictionsFunc func(ctx context.Context, preds []models.Prediction) (int, error)
	ListPendingFunc       func(ctx context.Context, since time.Time) ([]models.Prediction, error)
	ListRecentFunc        func(ctx context.Context, limit int) ([]models.Prediction, error)
	SettleFunc            func(ctx context.Context, s models.Settlement) (bool, error)

	Upserted []models.Prediction
	Settled  []models.Settlement
}

func (m *MockPredictionStore) UpsertPredictions(ctx context.Context, preds []models.Prediction) (int, error) {
	m.Upserted = append(m.Upserted, preds...)
	if m.UpsertPredictionsFunc != nil {
		return m.UpsertPredictionsFunc(ctx, preds)
	}
	return len(preds), nil
}

func (m *MockPredictionStore) ListPending(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, since)
	}
	return nil, nil
}

func (m *MockPredictionStore) ListRecent(ctx context.Context, limit int) ([]models.Prediction, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockPredictionStore) Settle(ctx context.Context, s models.Settlement) (bool, error) {
	m.Settled = append(m.Settled, s)
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, s)
	}
	return true, nil
}

// MockFixtureProvider
type MockFixtureProvider struct {
	LiveFixturesFunc   func(ctx context.Context) ([]models.Fixture, error)
	FixturesByDateFunc func(ctx context.Context, date string) ([]models.Fixture, error)
}

func (m *MockFixtureProvider) LiveFixtures(ctx context.Context) ([]models.Fixture, error) {
	if m.LiveFixturesFunc != nil {
		return m.LiveFixturesFunc(ctx)
	}
	return nil, nil
}

func (m *MockFixtureProvider) FixturesByDate(ctx context.Context, date string) ([]models.Fixture, error) {
	if m.FixturesByDateFunc != nil {
		return m.FixturesByDateFunc(ctx, date)
	}
	return nil, nil
}

// MockAuditSink
type MockAuditSink struct {
	Events []*models.AuditEvent
}

func (m *MockAuditSink) Enqueue(ev *models.AuditEvent) bool {
	m.Events = append(m.Events, ev)
	return true
}
