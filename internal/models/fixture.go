package models

// FixtureStatus is the provider's short status code for a match.
type FixtureStatus string

const (
	StatusNotStarted FixtureStatus = "NS"
	StatusFirstHalf  FixtureStatus = "1H"
	StatusHalfTime   FixtureStatus = "HT"
	StatusSecondHalf FixtureStatus = "2H"
	StatusExtraTime  FixtureStatus = "ET"
	StatusPenalties  FixtureStatus = "P"
	StatusFullTime   FixtureStatus = "FT"
	StatusAfterExtra FixtureStatus = "AET"
	StatusAfterPens  FixtureStatus = "PEN"
	StatusPostponed  FixtureStatus = "PST"
	StatusCancelled  FixtureStatus = "CANC"
	StatusAbandoned  FixtureStatus = "ABD"
	StatusAwarded    FixtureStatus = "AWD"
	StatusWalkover   FixtureStatus = "WO"
)

// Fixture is one real-world match as reported by the data provider.
// The engine never mutates fixtures; they are read-only input.
type Fixture struct {
	ID             int64         `json:"id"`
	HomeTeamName   string        `json:"homeTeamName"`
	AwayTeamName   string        `json:"awayTeamName"`
	LeagueName     string        `json:"leagueName"`
	Status         FixtureStatus `json:"status"`
	HomeGoals      int           `json:"homeGoals"`
	AwayGoals      int           `json:"awayGoals"`
	HalfTimeHome   int           `json:"halfTimeHomeGoals"`
	HalfTimeAway   int           `json:"halfTimeAwayGoals"`
	ElapsedMinutes int           `json:"elapsed,omitempty"`
}

// IsFirstHalf reports whether the match is currently in the first half.
func (s FixtureStatus) IsFirstHalf() bool {
	return s == StatusFirstHalf
}

// IsHalfTime reports whether the match is at the half-time break.
func (s FixtureStatus) IsHalfTime() bool {
	return s == StatusHalfTime
}

// IsSecondHalfOrLater reports whether the first-half score is frozen:
// half-time break onward, including extra time, penalties and any
// finished state.
func (s FixtureStatus) IsSecondHalfOrLater() bool {
	switch s {
	case StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties:
		return true
	}
	return s.IsFinished()
}

// IsFinished reports whether the match has a final score. Matches decided
// after extra time or penalty shootouts count as finished.
func (s FixtureStatus) IsFinished() bool {
	switch s {
	case StatusFullTime, StatusAfterExtra, StatusAfterPens:
		return true
	}
	return false
}

// IsLive reports whether the match is currently being played.
func (s FixtureStatus) IsLive() bool {
	switch s {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties:
		return true
	}
	return false
}

// IsVoid reports whether the match will never produce a settleable score.
func (s FixtureStatus) IsVoid() bool {
	switch s {
	case StatusPostponed, StatusCancelled, StatusAbandoned, StatusAwarded, StatusWalkover:
		return true
	}
	return false
}
