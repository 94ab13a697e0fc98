package handlers

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/logic"
	"github.com/tipsradar/settle-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// AuditQueue defines the interface for the audit pipeline.
type AuditQueue interface {
	Enqueue(ev *models.AuditEvent) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool AuditQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Ingest     logic.IngestService
	Settlement logic.SettlementService
	Store      logic.PredictionStore
	// Auth
	IngestAPIKey string
	SweepToken   string
	// Settlement
	SweepTimeout time.Duration
}

type Handler struct {
	pool       AuditQueue
	pg         *pgxpool.Pool
	ch         driver.Conn
	redis      *redis.Client
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	ingest     logic.IngestService
	settlement logic.SettlementService
	store      logic.PredictionStore

	ingestAPIKey string
	sweepToken   string
	sweepTimeout time.Duration
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:         cfg.WorkerPool,
		pg:           cfg.Postgres,
		ch:           cfg.ClickHouse,
		redis:        cfg.Redis,
		logger:       cfg.Logger.Sugar(),
		validator:    validator.New(),
		ingest:       cfg.Ingest,
		settlement:   cfg.Settlement,
		store:        cfg.Store,
		ingestAPIKey: cfg.IngestAPIKey,
		sweepToken:   cfg.SweepToken,
		sweepTimeout: cfg.SweepTimeout,
	}
}
