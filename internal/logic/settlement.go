package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tipsradar/settle-api/internal/models"
)

// Prometheus metrics
var (
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_sweeps_total",
		Help: "Total number of settlement sweeps executed",
	})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settle_sweep_duration_seconds",
		Help:    "Duration of settlement sweeps",
		Buckets: prometheus.DefBuckets,
	})

	predictionsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settle_predictions_settled_total",
		Help: "Predictions settled, by terminal result",
	}, []string{"result"})

	predictionsAmbiguous = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_predictions_ambiguous_total",
		Help: "Predictions skipped because several fixtures matched",
	})

	providerFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_provider_fetch_failures_total",
		Help: "Sweeps aborted because the fixture provider could not be read",
	})
)

// SettlementConfig wires the settlement orchestrator.
type SettlementConfig struct {
	Store           PredictionStore
	Provider        FixtureProvider
	Redis           *redis.Client
	Audit           AuditSink
	Logger          *zap.SugaredLogger
	RecencyWindow   time.Duration
	FixtureCacheTTL time.Duration
}

type settlementService struct {
	store    PredictionStore
	provider FixtureProvider
	redis    *redis.Client
	audit    AuditSink
	logger   *zap.SugaredLogger
	window   time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

// NewSettlementService builds the sweep orchestrator. The service holds no
// sweep-to-sweep state: every invocation recomputes from the store and the
// provider, so a timed-out or crashed sweep costs nothing but a retry.
func NewSettlementService(cfg SettlementConfig) SettlementService {
	window := cfg.RecencyWindow
	if window <= 0 {
		window = 48 * time.Hour
	}
	cacheTTL := cfg.FixtureCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &settlementService{
		store:    cfg.Store,
		provider: cfg.Provider,
		redis:    cfg.Redis,
		audit:    cfg.Audit,
		logger:   cfg.Logger,
		window:   window,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Sweep loads pending predictions inside the recency window, matches each
// against the live + recently finished fixture pool and applies terminal
// results. A provider failure aborts the whole sweep with no partial
// writes; a single bad prediction is logged and skipped.
func (s *settlementService) Sweep(ctx context.Context) (*models.SweepSummary, error) {
	start := s.now()
	sweepsTotal.Inc()

	since := start.Add(-s.window)
	pending, err := s.store.ListPending(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load pending predictions: %w", err)
	}

	summary := &models.SweepSummary{}
	if len(pending) == 0 {
		summary.Duration = s.now().Sub(start)
		summary.DurationS = summary.Duration.String()
		return summary, nil
	}

	candidates, err := s.loadFixturePool(ctx, start)
	if err != nil {
		providerFetchFailures.Inc()
		return nil, fmt.Errorf("load fixture pool: %w", err)
	}

	s.logger.Infow("Sweep started",
		"pending", len(pending),
		"fixtures", len(candidates),
	)

	for i := range pending {
		p := &pending[i]
		summary.Processed++

		settled, matched, ambiguous := s.processOne(ctx, p, candidates)
		if matched {
			summary.Matched++
		}
		if ambiguous {
			summary.Ambiguous++
			predictionsAmbiguous.Inc()
		}
		if settled {
			summary.Settled++
		}
	}

	summary.Duration = s.now().Sub(start)
	summary.DurationS = summary.Duration.String()
	sweepDuration.Observe(summary.Duration.Seconds())

	s.recordLastSweep(ctx, summary)
	s.logger.Infow("Sweep finished",
		"processed", summary.Processed,
		"settled", summary.Settled,
		"ambiguous", summary.Ambiguous,
		"duration", summary.Duration,
	)
	return summary, nil
}

// processOne matches and evaluates a single prediction. Panics and
// per-prediction errors are contained here so one bad row cannot abort
// the batch.
func (s *settlementService) processOne(ctx context.Context, p *models.Prediction, candidates []models.Fixture) (settled, matched, ambiguous bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("Prediction evaluation panic", "prediction", p.ID, "error", r)
			settled, matched, ambiguous = false, false, false
		}
	}()

	desc, ok := ParseMarket(p.MarketLabel)
	if !ok {
		// Parser fallback: some sources put the market token only in the
		// free-text signal.
		if desc, _, ok = FindMarket(p.RawText); !ok {
			s.logger.Debugw("Unrecognized market", "prediction", p.ID, "label", p.MarketLabel)
			return false, false, false
		}
	}

	fx, amb := MatchFixture(p, candidates)
	if amb {
		s.logger.Warnw("Ambiguous fixture match, skipping",
			"prediction", p.ID, "home", p.HomeTeamName, "away", p.AwayTeamName)
		return false, false, true
	}
	if fx == nil {
		return false, false, false
	}

	result, rationale := Evaluate(desc, fx)
	if !result.IsTerminal() {
		return false, true, false
	}

	st := models.Settlement{
		PredictionID: p.ID,
		Result:       result,
		ResultLog:    rationale,
		FinalScore:   models.FormatScore(fx.HomeGoals, fx.AwayGoals),
		SettledAt:    s.now(),
	}
	applied, err := s.store.Settle(ctx, st)
	if err != nil {
		s.logger.Errorw("Settlement write failed", "prediction", p.ID, "error", err)
		return false, true, false
	}
	if !applied {
		// Another sweep settled it between our read and write.
		return false, true, false
	}

	predictionsSettled.WithLabelValues(string(result)).Inc()
	if s.audit != nil {
		s.audit.Enqueue(&models.AuditEvent{
			Timestamp:    st.SettledAt,
			Kind:         models.AuditSettlement,
			PredictionID: p.ID,
			FixtureID:    fx.ID,
			Result:       string(result),
			ResultLog:    rationale,
			FinalScore:   st.FinalScore,
		})
	}

	s.logger.Infow("Prediction settled",
		"prediction", p.ID,
		"market", desc.String(),
		"result", result,
		"score", st.FinalScore,
	)
	return true, true, false
}

// loadFixturePool fetches live fixtures plus the finished pools for today
// and yesterday. Yesterday is included to tolerate timezone skew between
// the bot sources and the provider. The three provider calls run
// concurrently; any failure aborts the sweep.
func (s *settlementService) loadFixturePool(ctx context.Context, now time.Time) ([]models.Fixture, error) {
	today := now.UTC().Format("2006-01-02")
	yesterday := now.UTC().AddDate(0, 0, -1).Format("2006-01-02")

	var live, todayFx, yesterdayFx []models.Fixture

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		live, err = s.provider.LiveFixtures(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		todayFx, err = s.fixturesByDateCached(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		yesterdayFx, err = s.fixturesByDateCached(gctx, yesterday)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Live fixtures first: they carry the freshest scores, and the matcher
	// prefers nothing beyond candidate order for equal-quality data.
	pool := make([]models.Fixture, 0, len(live)+len(todayFx)+len(yesterdayFx))
	pool = append(pool, live...)
	pool = append(pool, todayFx...)
	pool = append(pool, yesterdayFx...)
	return pool, nil
}

// fixturesByDateCached wraps the provider's by-date lookup with a short
// Redis cache so back-to-back sweeps do not hammer the provider quota.
func (s *settlementService) fixturesByDateCached(ctx context.Context, date string) ([]models.Fixture, error) {
	key := "fixtures:date:" + date

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var cached []models.Fixture
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	fixtures, err := s.provider.FixturesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(fixtures); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("Fixture cache write failed", "key", key, "error", err)
			}
		}
	}
	return fixtures, nil
}

func (s *settlementService) recordLastSweep(ctx context.Context, summary *models.SweepSummary) {
	if s.redis == nil {
		return
	}
	err := s.redis.HSet(ctx, "settle:last_sweep",
		"at", s.now().UTC().Format(time.RFC3339),
		"processed", summary.Processed,
		"settled", summary.Settled,
		"ambiguous", summary.Ambiguous,
		"duration", summary.Duration.String(),
	).Err()
	if err != nil {
		s.logger.Warnw("Failed to record sweep summary", "error", err)
	}
}
