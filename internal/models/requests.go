package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID accepts either a JSON number or a string for source-assigned ids.
// Legacy bot senders serialize numeric ids inconsistently between the two.
type FlexID string

// UnmarshalJSON implements string-or-number coercion.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// StructuredPrediction is the modern ingest payload shape: one already
// structured prediction per object.
type StructuredPrediction struct {
	ExternalID   string `json:"externalId"`
	Source       string `json:"source"`
	HomeTeamName string `json:"homeTeamName" validate:"required,min=2"`
	AwayTeamName string `json:"awayTeamName" validate:"required,min=2"`
	LeagueName   string `json:"leagueName"`
	MarketLabel  string `json:"marketLabel" validate:"required"`
	RawText      string `json:"rawText"`
	Minute       int    `json:"minute"`
}

// LegacyPrediction is the backward-compatible shape still sent by the old
// bot relay: a numeric id, a date string and one opaque free-text blob that
// encodes teams, league, market and minute.
type LegacyPrediction struct {
	ID         FlexID `json:"id"`
	Date       string `json:"date"`
	Prediction string `json:"prediction" validate:"required"`
}

// IngestResponse is returned by the ingest endpoint.
type IngestResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// SettleResponse is returned by the settlement trigger endpoint.
type SettleResponse struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Matched   int    `json:"matched"`
	Settled   int    `json:"settled"`
	Ambiguous int    `json:"ambiguous"`
	Duration  string `json:"duration"`
	Error     string `json:"error,omitempty"`
}

// ParseScore splits an "H-A" score snapshot. Returns ok=false for
// anything that is not two dash-separated integers.
func ParseScore(s string) (home, away int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	a, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return h, a, true
}

// FormatScore renders the canonical "H-A" snapshot.
func FormatScore(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}
