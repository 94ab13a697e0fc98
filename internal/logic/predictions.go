package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/models"
)

type predictionStore struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

// NewPredictionStore returns the Postgres-backed prediction store.
func NewPredictionStore(pg PgPool, logger *zap.SugaredLogger) PredictionStore {
	return &predictionStore{pg: pg, logger: logger}
}

const predictionColumns = `
	id, external_id, source, home_team, away_team, league, market_label,
	raw_text, minute, received_at, result, result_log, settled_at, final_score`

func (s *predictionStore) UpsertPredictions(ctx context.Context, preds []models.Prediction) (int, error) {
	inserted := 0
	for _, p := range preds {
		tag, err := s.pg.Exec(ctx, `
			INSERT INTO predictions (
				id, external_id, source, home_team, away_team, league,
				market_label, raw_text, minute, received_at, result
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (external_id) WHERE external_id <> '' DO NOTHING
		`, p.ID, p.ExternalID, p.Source, p.HomeTeamName, p.AwayTeamName,
			p.LeagueName, p.MarketLabel, p.RawText, p.Minute, p.ReceivedAt,
			models.ResultPending)
		if err != nil {
			return inserted, fmt.Errorf("insert prediction %s: %w", p.ID, err)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			s.logger.Debugw("Duplicate prediction skipped", "externalId", p.ExternalID)
		}
	}
	return inserted, nil
}

func (s *predictionStore) ListPending(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT`+predictionColumns+`
		FROM predictions
		WHERE (result = 'pending' OR result IS NULL OR result = '')
		  AND received_at >= $1
		ORDER BY received_at
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query pending predictions: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

func (s *predictionStore) ListRecent(ctx context.Context, limit int) ([]models.Prediction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pg.Query(ctx, `
		SELECT`+predictionColumns+`
		FROM predictions
		ORDER BY received_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent predictions: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

func (s *predictionStore) Settle(ctx context.Context, st models.Settlement) (bool, error) {
	tag, err := s.pg.Exec(ctx, `
		UPDATE predictions
		SET result = $1, result_log = $2, final_score = $3, settled_at = $4
		WHERE id = $5
		  AND (result = 'pending' OR result IS NULL OR result = '')
	`, st.Result, st.ResultLog, st.FinalScore, st.SettledAt, st.PredictionID)
	if err != nil {
		return false, fmt.Errorf("settle prediction %s: %w", st.PredictionID, err)
	}
	return tag.RowsAffected() > 0, nil
}

type predictionRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPredictions(rows predictionRows) ([]models.Prediction, error) {
	var out []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var externalID, source, league, rawText, result, resultLog, finalScore *string
		var minute *int
		var settledAt *time.Time
		err := rows.Scan(
			&p.ID, &externalID, &source, &p.HomeTeamName, &p.AwayTeamName,
			&league, &p.MarketLabel, &rawText, &minute, &p.ReceivedAt,
			&result, &resultLog, &settledAt, &finalScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.ExternalID = deref(externalID)
		p.Source = deref(source)
		p.LeagueName = deref(league)
		p.RawText = deref(rawText)
		p.ResultLog = deref(resultLog)
		p.FinalScore = deref(finalScore)
		if minute != nil {
			p.Minute = *minute
		}
		p.SettledAt = settledAt
		p.Result = models.PredictionResult(deref(result))
		if p.Result == "" {
			p.Result = models.ResultPending
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
