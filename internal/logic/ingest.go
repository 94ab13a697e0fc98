package logic

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/models"
)

type ingestService struct {
	store  PredictionStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewIngestService returns the ingestion normalizer backed by the given store.
func NewIngestService(store PredictionStore, logger *zap.SugaredLogger) IngestService {
	return &ingestService{store: store, logger: logger, now: time.Now}
}

func (s *ingestService) IngestStructured(ctx context.Context, items []models.StructuredPrediction) (int, error) {
	preds := make([]models.Prediction, 0, len(items))
	for _, item := range items {
		preds = append(preds, models.Prediction{
			ID:           uuid.New().String(),
			ExternalID:   item.ExternalID,
			Source:       item.Source,
			HomeTeamName: strings.TrimSpace(item.HomeTeamName),
			AwayTeamName: strings.TrimSpace(item.AwayTeamName),
			LeagueName:   strings.TrimSpace(item.LeagueName),
			MarketLabel:  strings.TrimSpace(item.MarketLabel),
			RawText:      item.RawText,
			Minute:       item.Minute,
			ReceivedAt:   s.now(),
			Result:       models.ResultPending,
		})
	}
	return s.store.UpsertPredictions(ctx, preds)
}

func (s *ingestService) IngestLegacy(ctx context.Context, items []models.LegacyPrediction) (int, error) {
	var preds []models.Prediction
	for _, item := range items {
		signals := ExtractSignals(item.Prediction)
		if len(signals) == 0 {
			s.logger.Warnw("Legacy payload yielded no signals", "id", item.ID, "preview", preview(item.Prediction, 120))
			continue
		}

		receivedAt := parseLegacyDate(item.Date, s.now())
		for i, sig := range signals {
			p := models.Prediction{
				ID:           uuid.New().String(),
				ExternalID:   legacyExternalID(item.ID.String(), i),
				Source:       "legacy",
				HomeTeamName: sig.Home,
				AwayTeamName: sig.Away,
				LeagueName:   sig.League,
				MarketLabel:  sig.MarketLabel,
				RawText:      item.Prediction,
				Minute:       sig.Minute,
				ReceivedAt:   receivedAt,
				Result:       models.ResultPending,
			}
			preds = append(preds, p)
		}
	}
	return s.store.UpsertPredictions(ctx, preds)
}

// Signal is one prediction extracted from a legacy free-text blob.
type Signal struct {
	Home        string
	Away        string
	League      string
	MarketLabel string
	Minute      int
}

var (
	// Team pairs are bracket- or asterisk-delimited, optionally followed
	// by the score at signal time: "[Porto - Benfica] (1-0)".
	teamPairRe = regexp.MustCompile(`[\[*]\s*([^\[\]*]+?)\s+[-–]\s+([^\[\]*]+?)\s*[\]*]\s*(?:\(\s*\d+\s*-\s*\d+\s*\))?`)

	// League/country rides on a marker-glyph line: "🏆 Süper Lig".
	leagueLineRe = regexp.MustCompile(`(?m)^\s*(?:🏆|🌍|⭐)\s*(.+?)\s*$`)

	minuteRe = regexp.MustCompile(`(\d{1,3})\s*['′]`)
)

// ExtractSignals pulls zero or more structured signals out of a legacy
// free-text prediction blob. A blob can announce several matches; each
// team pair found becomes one signal sharing the blob's league, market
// and minute.
func ExtractSignals(text string) []Signal {
	pairs := teamPairRe.FindAllStringSubmatch(text, -1)
	if len(pairs) == 0 {
		return nil
	}

	var league string
	if m := leagueLineRe.FindStringSubmatch(text); m != nil {
		league = strings.TrimSpace(m[1])
	}

	var marketLabel string
	if _, label, ok := FindMarket(text); ok {
		marketLabel = label
	}

	minute := 0
	if m := minuteRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 130 {
			minute = n
		}
	}

	signals := make([]Signal, 0, len(pairs))
	for _, m := range pairs {
		signals = append(signals, Signal{
			Home:        strings.TrimSpace(m[1]),
			Away:        strings.TrimSpace(m[2]),
			League:      league,
			MarketLabel: marketLabel,
			Minute:      minute,
		})
	}
	return signals
}

// legacyExternalID keeps re-sent legacy payloads idempotent while still
// distinguishing multiple signals inside one payload.
func legacyExternalID(id string, index int) string {
	if id == "" {
		return ""
	}
	if index == 0 {
		return id
	}
	return fmt.Sprintf("%s-%d", id, index+1)
}

var legacyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

func parseLegacyDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
