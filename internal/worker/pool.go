// Package worker implements the buffered audit pipeline. It decouples
// request handling and settlement sweeps from ClickHouse writes:
// - Backpressure handling via bounded queue
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/models"
)

// Prometheus metrics
var (
	auditEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_audit_events_enqueued_total",
		Help: "Total number of audit events accepted into the queue",
	})

	auditWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_audit_events_written_total",
		Help: "Total number of audit events written to ClickHouse",
	})

	auditFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_audit_events_failed_total",
		Help: "Total number of audit events that failed to write",
	})

	auditDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_audit_events_dropped_total",
		Help: "Total number of audit events dropped (queue full or stopped)",
	})

	auditQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "settle_audit_queue_depth",
		Help: "Current depth of the audit queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settle_audit_batch_insert_duration_seconds",
		Help:    "Duration of audit batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job is one queued audit event with its serialized form.
type Job struct {
	Event   *models.AuditEvent
	RawJSON string
}

// PoolConfig configures the audit pipeline.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Redis         *redis.Client
	Logger        *zap.Logger
}

// Pool manages the audit pipeline workers.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new audit pipeline.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 5000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Audit pipeline started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the pipeline, flushing queued events.
func (p *Pool) Stop() {
	p.logger.Info("Stopping audit pipeline...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Audit pipeline stopped")
}

// Enqueue adds an audit event without blocking. Returns false when the
// queue is full or the pipeline has stopped; audit loss is tolerated,
// settlement state never depends on it.
func (p *Pool) Enqueue(ev *models.AuditEvent) bool {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	rawJSON, _ := json.Marshal(ev)
	job := Job{Event: ev, RawJSON: string(rawJSON)}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue audit event (pipeline stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		auditEnqueued.Inc()
		return true
	default:
		auditDropped.Inc()
		return false
	}
}

// QueueDepth returns the current queue size.
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		if err := p.writeBatch(batch); err != nil {
			p.logger.Errorw("Audit batch write failed", "worker", id, "batchSize", len(batch), "error", err)
			auditFailed.Add(float64(len(batch)))
		} else {
			auditWritten.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())
		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// writeBatch sends a batch to ClickHouse, then updates Redis counters.
func (p *Pool) writeBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO tips_audit.audit_events (
			timestamp, kind, method, endpoint, headers, body, status_code,
			response_body, caller_ip, prediction_id, fixture_id, result,
			result_log, final_score, raw_json
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		ev := job.Event
		err := chBatch.Append(
			ev.Timestamp,
			string(ev.Kind),
			ev.Method,
			ev.Endpoint,
			ev.Headers,
			ev.Body,
			int32(ev.StatusCode),
			ev.ResponseBody,
			ev.CallerIP,
			ev.PredictionID,
			ev.FixtureID,
			ev.Result,
			ev.ResultLog,
			ev.FinalScore,
			job.RawJSON,
		)
		if err != nil {
			p.logger.Warnw("Failed to append audit event to batch", "error", err, "kind", ev.Kind)
			continue
		}
	}

	if err := chBatch.Send(); err != nil {
		return err
	}

	p.updateCounters(ctx, batch)
	return nil
}

// updateCounters mirrors cheap operational counters into Redis so the
// dashboards can read them without touching ClickHouse.
func (p *Pool) updateCounters(ctx context.Context, batch []Job) {
	if p.config.Redis == nil {
		return
	}

	pipe := p.config.Redis.Pipeline()
	for _, job := range batch {
		switch job.Event.Kind {
		case models.AuditRequest:
			pipe.Incr(ctx, "audit:requests:total")
		case models.AuditSettlement:
			pipe.Incr(ctx, "audit:settlements:total")
			if job.Event.Result != "" {
				pipe.Incr(ctx, "audit:settlements:"+job.Event.Result)
			}
		}
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		p.logger.Warnw("Redis counter pipeline failed", "error", err)
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			auditQueueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
