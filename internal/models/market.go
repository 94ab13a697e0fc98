package models

import "fmt"

// MarketScope selects which part of the match a market is wagered on.
type MarketScope string

const (
	ScopeFullTime  MarketScope = "full_time"
	ScopeFirstHalf MarketScope = "first_half"
)

// MarketDirection is the wagered condition within a scope.
type MarketDirection string

const (
	DirOver         MarketDirection = "over"
	DirUnder        MarketDirection = "under"
	DirHomeWin      MarketDirection = "home_win"
	DirDraw         MarketDirection = "draw"
	DirAwayWin      MarketDirection = "away_win"
	DirBothScored   MarketDirection = "both_scored"
	DirNoBothScored MarketDirection = "no_both_scored"
)

// MarketDescriptor is the canonical form of a parsed market label.
// Threshold is only meaningful for over/under directions.
type MarketDescriptor struct {
	Scope     MarketScope     `json:"scope"`
	Direction MarketDirection `json:"direction"`
	Threshold float64         `json:"threshold,omitempty"`
}

// HasThreshold reports whether the descriptor carries a goal line.
func (d MarketDescriptor) HasThreshold() bool {
	return d.Direction == DirOver || d.Direction == DirUnder
}

func (d MarketDescriptor) String() string {
	if d.HasThreshold() {
		return fmt.Sprintf("%s/%s %.1f", d.Scope, d.Direction, d.Threshold)
	}
	return fmt.Sprintf("%s/%s", d.Scope, d.Direction)
}
