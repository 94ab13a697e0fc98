package logic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tipsradar/settle-api/internal/models"
)

// The market grammar is an ordered rule table: the first pattern that
// matches the label wins. New markets are added as new rows, not as new
// branches. Labels come from Turkish-language bot signals, e.g.
// "2.5 ÜST", "IY 0.5 ALT", "MS 1", "KG VAR".

type marketRule struct {
	pattern *regexp.Regexp
	build   func(m []string) (models.MarketDescriptor, bool)

	// plainTotal marks the bare "<N> ÜST/ALT" rules, which only apply when
	// no first-half token appears anywhere in the text.
	plainTotal bool
}

// threshold matches "2.5", "2,5" or "3".
const threshold = `(\d+(?:[.,]\d+)?)`

// halfToken matches the first-half prefix with either the ASCII or the
// Turkish dotted capital I.
const halfToken = `[Iİ]Y`

var marketRules = []marketRule{
	{
		pattern: regexp.MustCompile(`(?i)` + halfToken + `\s*` + threshold + `\s*ÜST`),
		build:   overUnder(models.ScopeFirstHalf, models.DirOver),
	},
	{
		pattern: regexp.MustCompile(`(?i)` + halfToken + `\s*` + threshold + `\s*ALT`),
		build:   overUnder(models.ScopeFirstHalf, models.DirUnder),
	},
	{
		// Late-match live alert form: "+1 Gol (2.5 ÜST)".
		pattern: regexp.MustCompile(`(?i)\+1\s*GOL\s*\(\s*` + threshold + `\s*ÜST\s*\)`),
		build:   overUnder(models.ScopeFullTime, models.DirOver),
	},
	{
		pattern:    regexp.MustCompile(`(?i)` + threshold + `\s*ÜST`),
		build:      overUnder(models.ScopeFullTime, models.DirOver),
		plainTotal: true,
	},
	{
		pattern:    regexp.MustCompile(`(?i)` + threshold + `\s*ALT`),
		build:      overUnder(models.ScopeFullTime, models.DirUnder),
		plainTotal: true,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bMS\s*1\b`),
		build:   plain(models.ScopeFullTime, models.DirHomeWin),
	},
	{
		pattern: regexp.MustCompile(`(?i)\bMS\s*X\b`),
		build:   plain(models.ScopeFullTime, models.DirDraw),
	},
	{
		pattern: regexp.MustCompile(`(?i)\bMS\s*2\b`),
		build:   plain(models.ScopeFullTime, models.DirAwayWin),
	},
	{
		pattern: regexp.MustCompile(`(?i)\bKG\s*VAR\b`),
		build:   plain(models.ScopeFullTime, models.DirBothScored),
	},
	{
		pattern: regexp.MustCompile(`(?i)\bKG\s*YOK\b`),
		build:   plain(models.ScopeFullTime, models.DirNoBothScored),
	},
}

var halfTokenRe = regexp.MustCompile(`(?i)` + halfToken + `\s*\d`)

func overUnder(scope models.MarketScope, dir models.MarketDirection) func([]string) (models.MarketDescriptor, bool) {
	return func(m []string) (models.MarketDescriptor, bool) {
		n, err := parseThreshold(m[1])
		if err != nil {
			return models.MarketDescriptor{}, false
		}
		return models.MarketDescriptor{Scope: scope, Direction: dir, Threshold: n}, true
	}
}

func plain(scope models.MarketScope, dir models.MarketDirection) func([]string) (models.MarketDescriptor, bool) {
	return func(m []string) (models.MarketDescriptor, bool) {
		return models.MarketDescriptor{Scope: scope, Direction: dir}, true
	}
}

func parseThreshold(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ParseMarket translates a free-text market label into its canonical
// descriptor. ok is false when no rule recognizes the label; such
// predictions stay pending until they age out of the recency window.
func ParseMarket(label string) (models.MarketDescriptor, bool) {
	desc, _, ok := FindMarket(label)
	return desc, ok
}

// FindMarket is ParseMarket plus the matched label text, for callers that
// extract a market token out of a larger free-text blob.
func FindMarket(text string) (models.MarketDescriptor, string, bool) {
	hasHalfPrefix := halfTokenRe.MatchString(text)

	for _, rule := range marketRules {
		if rule.plainTotal && hasHalfPrefix {
			continue
		}
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if desc, ok := rule.build(m); ok {
			return desc, strings.TrimSpace(m[0]), true
		}
	}
	return models.MarketDescriptor{}, "", false
}
