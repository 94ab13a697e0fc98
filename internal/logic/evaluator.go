package logic

import (
	"fmt"

	"github.com/tipsradar/settle-api/internal/models"
)

// Evaluate decides a prediction's outcome from the fixture's current or
// final score state. It is a pure function: it never mutates its inputs
// and all persistence is the caller's concern.
//
// Early decisions: a market settles before full time whenever its outcome
// is already mathematically locked. A live total that has crossed its
// line can never un-cross it; a first-half line is frozen the moment the
// half ends; "both teams to score" is irreversible once both have scored.
// Match-result markets (MS 1/X/2) have no early form: a leading side can
// still concede.
//
// Every terminal branch returns a rationale embedding the triggering
// scores and status for the audit log.
func Evaluate(desc models.MarketDescriptor, fx *models.Fixture) (models.PredictionResult, string) {
	status := fx.Status
	if status.IsVoid() {
		return models.ResultVoid, fmt.Sprintf("match %s at status %s, bet voided", voidReason(status), status)
	}

	goals := fx.HomeGoals + fx.AwayGoals
	htGoals := fx.HalfTimeHome + fx.HalfTimeAway

	switch {
	case desc.Scope == models.ScopeFirstHalf && desc.Direction == models.DirOver:
		return evalFirstHalfOver(desc.Threshold, goals, htGoals, fx)
	case desc.Scope == models.ScopeFirstHalf && desc.Direction == models.DirUnder:
		return evalFirstHalfUnder(desc.Threshold, goals, htGoals, fx)
	case desc.Direction == models.DirOver:
		return evalFullTimeOver(desc.Threshold, goals, fx)
	case desc.Direction == models.DirUnder:
		return evalFullTimeUnder(desc.Threshold, goals, fx)
	case desc.Direction == models.DirHomeWin, desc.Direction == models.DirDraw, desc.Direction == models.DirAwayWin:
		return evalMatchResult(desc.Direction, fx)
	case desc.Direction == models.DirBothScored:
		return evalBothScored(fx)
	case desc.Direction == models.DirNoBothScored:
		return evalNoBothScored(fx)
	}
	return models.ResultPending, ""
}

func evalFullTimeOver(n float64, goals int, fx *models.Fixture) (models.PredictionResult, string) {
	if fx.Status.IsLive() && float64(goals) > n {
		return models.ResultWon, fmt.Sprintf("over %.1f already hit: %d goals (%d-%d) at %s", n, goals, fx.HomeGoals, fx.AwayGoals, fx.Status)
	}
	if fx.Status.IsFinished() {
		if float64(goals) > n {
			return models.ResultWon, fmt.Sprintf("over %.1f won: final %d-%d, %d goals", n, fx.HomeGoals, fx.AwayGoals, goals)
		}
		return models.ResultLost, fmt.Sprintf("over %.1f lost: final %d-%d, %d goals", n, fx.HomeGoals, fx.AwayGoals, goals)
	}
	return models.ResultPending, ""
}

func evalFullTimeUnder(n float64, goals int, fx *models.Fixture) (models.PredictionResult, string) {
	if fx.Status.IsLive() && float64(goals) > n {
		return models.ResultLost, fmt.Sprintf("under %.1f already breached: %d goals (%d-%d) at %s", n, goals, fx.HomeGoals, fx.AwayGoals, fx.Status)
	}
	if fx.Status.IsFinished() {
		if float64(goals) < n {
			return models.ResultWon, fmt.Sprintf("under %.1f won: final %d-%d, %d goals", n, fx.HomeGoals, fx.AwayGoals, goals)
		}
		return models.ResultLost, fmt.Sprintf("under %.1f lost: final %d-%d, %d goals", n, fx.HomeGoals, fx.AwayGoals, goals)
	}
	return models.ResultPending, ""
}

func evalFirstHalfOver(n float64, goals, htGoals int, fx *models.Fixture) (models.PredictionResult, string) {
	if fx.Status.IsFirstHalf() && float64(goals) > n {
		return models.ResultWon, fmt.Sprintf("first-half over %.1f already hit: %d goals (%d-%d) in 1H", n, goals, fx.HomeGoals, fx.AwayGoals)
	}
	if fx.Status.IsSecondHalfOrLater() {
		if float64(htGoals) > n {
			return models.ResultWon, fmt.Sprintf("first-half over %.1f won: HT %d-%d, %d goals", n, fx.HalfTimeHome, fx.HalfTimeAway, htGoals)
		}
		return models.ResultLost, fmt.Sprintf("first-half over %.1f lost: HT %d-%d, %d goals", n, fx.HalfTimeHome, fx.HalfTimeAway, htGoals)
	}
	return models.ResultPending, ""
}

func evalFirstHalfUnder(n float64, goals, htGoals int, fx *models.Fixture) (models.PredictionResult, string) {
	if fx.Status.IsFirstHalf() && float64(goals) > n {
		return models.ResultLost, fmt.Sprintf("first-half under %.1f already breached: %d goals (%d-%d) in 1H", n, goals, fx.HomeGoals, fx.AwayGoals)
	}
	if fx.Status.IsSecondHalfOrLater() {
		if float64(htGoals) < n {
			return models.ResultWon, fmt.Sprintf("first-half under %.1f won: HT %d-%d, %d goals", n, fx.HalfTimeHome, fx.HalfTimeAway, htGoals)
		}
		return models.ResultLost, fmt.Sprintf("first-half under %.1f lost: HT %d-%d, %d goals", n, fx.HalfTimeHome, fx.HalfTimeAway, htGoals)
	}
	return models.ResultPending, ""
}

func evalMatchResult(dir models.MarketDirection, fx *models.Fixture) (models.PredictionResult, string) {
	if !fx.Status.IsFinished() {
		return models.ResultPending, ""
	}

	var won bool
	var pick string
	switch dir {
	case models.DirHomeWin:
		won, pick = fx.HomeGoals > fx.AwayGoals, "home win"
	case models.DirDraw:
		won, pick = fx.HomeGoals == fx.AwayGoals, "draw"
	case models.DirAwayWin:
		won, pick = fx.AwayGoals > fx.HomeGoals, "away win"
	}
	if won {
		return models.ResultWon, fmt.Sprintf("%s won: final %d-%d", pick, fx.HomeGoals, fx.AwayGoals)
	}
	return models.ResultLost, fmt.Sprintf("%s lost: final %d-%d", pick, fx.HomeGoals, fx.AwayGoals)
}

func evalBothScored(fx *models.Fixture) (models.PredictionResult, string) {
	if fx.HomeGoals >= 1 && fx.AwayGoals >= 1 {
		return models.ResultWon, fmt.Sprintf("both teams scored: %d-%d at %s", fx.HomeGoals, fx.AwayGoals, fx.Status)
	}
	if fx.Status.IsFinished() {
		return models.ResultLost, fmt.Sprintf("both teams to score lost: final %d-%d", fx.HomeGoals, fx.AwayGoals)
	}
	return models.ResultPending, ""
}

func evalNoBothScored(fx *models.Fixture) (models.PredictionResult, string) {
	if fx.HomeGoals >= 1 && fx.AwayGoals >= 1 {
		return models.ResultLost, fmt.Sprintf("both teams scored: %d-%d at %s", fx.HomeGoals, fx.AwayGoals, fx.Status)
	}
	if fx.Status.IsFinished() {
		return models.ResultWon, fmt.Sprintf("clean sheet held: final %d-%d", fx.HomeGoals, fx.AwayGoals)
	}
	return models.ResultPending, ""
}

func voidReason(s models.FixtureStatus) string {
	switch s {
	case models.StatusPostponed:
		return "postponed"
	case models.StatusCancelled:
		return "cancelled"
	case models.StatusAbandoned:
		return "abandoned"
	case models.StatusAwarded:
		return "awarded"
	case models.StatusWalkover:
		return "decided by walkover"
	}
	return "not playable"
}
