package logic

import (
	"strings"

	"github.com/tipsradar/settle-api/internal/models"
)

// minNameLength guards against spurious substring hits on very short
// normalized names ("fc", "ab").
const minNameLength = 3

// MatchFixture searches the candidate pool for the fixture a prediction
// refers to. Both sides must match by exact equality or substring
// containment of the normalized names. When more than one candidate
// survives, the league name is used to disambiguate; a residual tie is
// reported as ambiguous and no fixture is returned rather than guessing.
func MatchFixture(p *models.Prediction, candidates []models.Fixture) (fixture *models.Fixture, ambiguous bool) {
	home := NormalizeTeamName(p.HomeTeamName)
	away := NormalizeTeamName(p.AwayTeamName)
	if len(home) < minNameLength || len(away) < minNameLength {
		return nil, false
	}

	var matched []*models.Fixture
	for i := range candidates {
		c := &candidates[i]
		if sidesMatch(home, NormalizeTeamName(c.HomeTeamName)) &&
			sidesMatch(away, NormalizeTeamName(c.AwayTeamName)) {
			matched = append(matched, c)
		}
	}

	switch len(matched) {
	case 0:
		return nil, false
	case 1:
		return matched[0], false
	}

	// Same club can appear twice on one day (reserves, youth sides,
	// different competitions). Keep only candidates whose league agrees
	// with the prediction's, if the prediction names one.
	if byLeague := filterByLeague(p.LeagueName, matched); len(byLeague) == 1 {
		return byLeague[0], false
	}
	return nil, true
}

func sidesMatch(a, b string) bool {
	if len(a) < minNameLength || len(b) < minNameLength {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func filterByLeague(league string, matched []*models.Fixture) []*models.Fixture {
	want := NormalizeTeamName(league)
	if len(want) < minNameLength {
		return matched
	}

	var out []*models.Fixture
	for _, f := range matched {
		got := NormalizeTeamName(f.LeagueName)
		if len(got) >= minNameLength && (strings.Contains(got, want) || strings.Contains(want, got)) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return matched
	}
	return out
}
