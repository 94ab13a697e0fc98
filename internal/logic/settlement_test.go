package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/models"
)

func newTestSweep(store *MockPredictionStore, provider *MockFixtureProvider, audit *MockAuditSink) *settlementService {
	s := &settlementService{
		store:    store,
		provider: provider,
		logger:   zap.NewNop().Sugar(),
		window:   48 * time.Hour,
		cacheTTL: 2 * time.Minute,
		now:      func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) },
	}
	// Assign conditionally: a nil *MockAuditSink stored in the interface
	// field would make s.audit != nil and panic inside Enqueue.
	if audit != nil {
		s.audit = audit
	}
	return s
}

func pendingPrediction(id, home, away, label string) models.Prediction {
	return models.Prediction{
		ID:           id,
		HomeTeamName: home,
		AwayTeamName: away,
		MarketLabel:  label,
		Result:       models.ResultPending,
	}
}

func TestSweep_SettlesFinishedOver(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			want := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
			if !since.Equal(want) {
				t.Errorf("since = %v, want %v", since, want)
			}
			return []models.Prediction{pendingPrediction("p1", "Porto", "Benfica", "2.5 ÜST")}, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date == "2026-08-31" {
				return []models.Fixture{{
					ID: 42, HomeTeamName: "FC Porto", AwayTeamName: "SL Benfica",
					Status: "FT", HomeGoals: 3, AwayGoals: 1, HalfTimeHome: 1, HalfTimeAway: 0,
				}}, nil
			}
			return nil, nil
		},
	}
	audit := &MockAuditSink{}

	summary, err := newTestSweep(store, provider, audit).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 1 || summary.Matched != 1 || summary.Settled != 1 || summary.Ambiguous != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	if len(store.Settled) != 1 {
		t.Fatalf("got %d settlements, want 1", len(store.Settled))
	}
	st := store.Settled[0]
	if st.PredictionID != "p1" || st.Result != models.ResultWon || st.FinalScore != "3-1" {
		t.Errorf("settlement = %+v", st)
	}

	if len(audit.Events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(audit.Events))
	}
	ev := audit.Events[0]
	if ev.Kind != models.AuditSettlement || ev.PredictionID != "p1" || ev.FixtureID != 42 {
		t.Errorf("audit event = %+v", ev)
	}
}

func TestSweep_EmptyPendingSkipsProvider(t *testing.T) {
	called := false
	store := &MockPredictionStore{}
	provider := &MockFixtureProvider{
		LiveFixturesFunc: func(ctx context.Context) ([]models.Fixture, error) {
			called = true
			return nil, nil
		},
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			called = true
			return nil, nil
		},
	}

	summary, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 0 {
		t.Errorf("processed = %d, want 0", summary.Processed)
	}
	if called {
		t.Error("provider must not be hit when nothing is pending")
	}
}

func TestSweep_ProviderFailureAborts(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			return []models.Prediction{pendingPrediction("p1", "Porto", "Benfica", "2.5 ÜST")}, nil
		},
	}
	provider := &MockFixtureProvider{
		LiveFixturesFunc: func(ctx context.Context) ([]models.Fixture, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	_, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(store.Settled) != 0 {
		t.Errorf("no settlements expected on abort, got %d", len(store.Settled))
	}
}

func TestSweep_AmbiguousSkipped(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			return []models.Prediction{pendingPrediction("p1", "Real Madrid", "Barcelona", "MS 1")}, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date != "2026-08-31" {
				return nil, nil
			}
			return []models.Fixture{
				{ID: 1, HomeTeamName: "Real Madrid", AwayTeamName: "Barcelona", Status: "FT", HomeGoals: 2},
				{ID: 2, HomeTeamName: "Real Madrid B", AwayTeamName: "Barcelona B", Status: "FT", HomeGoals: 1},
			}, nil
		},
	}

	summary, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Ambiguous != 1 || summary.Settled != 0 {
		t.Errorf("summary = %+v, want 1 ambiguous, 0 settled", summary)
	}
	if len(store.Settled) != 0 {
		t.Errorf("ambiguous prediction must not be settled")
	}
}

func TestSweep_AlreadySettledNotDoubleCounted(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			return []models.Prediction{pendingPrediction("p1", "Porto", "Benfica", "2.5 ÜST")}, nil
		},
		SettleFunc: func(ctx context.Context, s models.Settlement) (bool, error) {
			// Concurrent sweep raced us to the row.
			return false, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date != "2026-08-31" {
				return nil, nil
			}
			return []models.Fixture{{
				ID: 42, HomeTeamName: "Porto", AwayTeamName: "Benfica",
				Status: "FT", HomeGoals: 3, AwayGoals: 1,
			}}, nil
		},
	}
	audit := &MockAuditSink{}

	summary, err := newTestSweep(store, provider, audit).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Settled != 0 {
		t.Errorf("settled = %d, want 0 when the conditional write applies nothing", summary.Settled)
	}
	if len(audit.Events) != 0 {
		t.Errorf("no audit event expected for an unapplied settlement")
	}
}

func TestSweep_UnrecognizedMarketLeftPending(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			return []models.Prediction{pendingPrediction("p1", "Porto", "Benfica", "Handikap 1 (-1)")}, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date != "2026-08-31" {
				return nil, nil
			}
			return []models.Fixture{{
				ID: 42, HomeTeamName: "Porto", AwayTeamName: "Benfica",
				Status: "FT", HomeGoals: 3, AwayGoals: 1,
			}}, nil
		},
	}

	summary, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 1 || summary.Settled != 0 {
		t.Errorf("summary = %+v, want processed 1, settled 0", summary)
	}
	if len(store.Settled) != 0 {
		t.Error("unrecognized market must stay pending")
	}
}

func TestSweep_MarketFallbackToRawText(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			p := pendingPrediction("p1", "Porto", "Benfica", "")
			p.RawText = "[Porto - Benfica] (0-0)\nKG VAR"
			return []models.Prediction{p}, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date != "2026-08-31" {
				return nil, nil
			}
			return []models.Fixture{{
				ID: 42, HomeTeamName: "Porto", AwayTeamName: "Benfica",
				Status: "FT", HomeGoals: 2, AwayGoals: 1,
			}}, nil
		},
	}

	summary, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Settled != 1 {
		t.Fatalf("settled = %d, want 1", summary.Settled)
	}
	if store.Settled[0].Result != models.ResultWon {
		t.Errorf("result = %s, want won", store.Settled[0].Result)
	}
}

func TestSweep_SettleErrorIsolated(t *testing.T) {
	store := &MockPredictionStore{
		ListPendingFunc: func(ctx context.Context, since time.Time) ([]models.Prediction, error) {
			return []models.Prediction{
				pendingPrediction("p1", "Porto", "Benfica", "2.5 ÜST"),
				pendingPrediction("p2", "Arsenal", "Chelsea", "MS 1"),
			}, nil
		},
		SettleFunc: func(ctx context.Context, s models.Settlement) (bool, error) {
			if s.PredictionID == "p1" {
				return false, errors.New("connection reset")
			}
			return true, nil
		},
	}
	provider := &MockFixtureProvider{
		FixturesByDateFunc: func(ctx context.Context, date string) ([]models.Fixture, error) {
			if date != "2026-08-31" {
				return nil, nil
			}
			return []models.Fixture{
				{ID: 1, HomeTeamName: "Porto", AwayTeamName: "Benfica", Status: "FT", HomeGoals: 3, AwayGoals: 1},
				{ID: 2, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", Status: "FT", HomeGoals: 1, AwayGoals: 0},
			}, nil
		},
	}

	summary, err := newTestSweep(store, provider, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("one bad row must not abort the sweep: %v", err)
	}
	if summary.Processed != 2 || summary.Settled != 1 {
		t.Errorf("summary = %+v, want processed 2, settled 1", summary)
	}
}
