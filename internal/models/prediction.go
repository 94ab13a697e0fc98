package models

import "time"

// PredictionResult is the settlement state of a prediction.
// It moves from pending to exactly one terminal value and never back.
type PredictionResult string

const (
	ResultPending PredictionResult = "pending"
	ResultWon     PredictionResult = "won"
	ResultLost    PredictionResult = "lost"
	ResultVoid    PredictionResult = "void"
)

// IsTerminal reports whether the result settles the prediction.
func (r PredictionResult) IsTerminal() bool {
	return r == ResultWon || r == ResultLost || r == ResultVoid
}

// Prediction is one betting signal received from a bot source.
type Prediction struct {
	ID           string           `json:"id"`
	ExternalID   string           `json:"externalId,omitempty"`
	Source       string           `json:"source,omitempty"`
	HomeTeamName string           `json:"homeTeamName"`
	AwayTeamName string           `json:"awayTeamName"`
	LeagueName   string           `json:"leagueName,omitempty"`
	MarketLabel  string           `json:"marketLabel"`
	RawText      string           `json:"rawText,omitempty"`
	Minute       int              `json:"minute,omitempty"`
	ReceivedAt   time.Time        `json:"receivedAt"`
	Result       PredictionResult `json:"result"`
	ResultLog    string           `json:"resultLog,omitempty"`
	SettledAt    *time.Time       `json:"settledAt,omitempty"`
	FinalScore   string           `json:"finalScore,omitempty"`
}

// Settlement is the staged terminal update for one prediction.
type Settlement struct {
	PredictionID string
	Result       PredictionResult
	ResultLog    string
	FinalScore   string
	SettledAt    time.Time
}

// SweepSummary reports one settlement sweep.
type SweepSummary struct {
	Processed int           `json:"processed"`
	Matched   int           `json:"matched"`
	Settled   int           `json:"settled"`
	Ambiguous int           `json:"ambiguous"`
	Duration  time.Duration `json:"-"`
	DurationS string        `json:"duration"`
}
