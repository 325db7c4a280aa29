package catalog

import (
	"strings"

	"github.com/harpoon/collector/internal/model"
)

// excludedKeywords disqualifies sports and entertainment markets, which
// dominate the tagged listing but have no analytical value here. Matching is
// substring-based over the case-folded corpus; a false positive on a word
// embedded in an unrelated phrase is an accepted trade-off.
var excludedKeywords = []string{
	"nfl",
	"nba",
	"mlb",
	"nhl",
	"ncaa",
	"football",
	"basketball",
	"baseball",
	"hockey",
	"soccer",
	"tennis",
	"golf",
	"cricket",
	"rugby",
	"boxing",
	"ufc",
	"mma",
	"esports",
	"nascar",
	"formula 1",
	"grand prix",
	"super bowl",
	"world cup",
	"premier league",
	"champions league",
	"olympics",
	"wrestlemania",
	"grammy",
	"oscars",
	"eurovision",
}

// searchCorpus concatenates the case-folded text searched for exclusion
// keywords: question, description, parent event title, and group label.
func searchCorpus(m model.Market) string {
	parts := []string{m.Question, m.Description, m.EventTitle, m.GroupTitle}
	return strings.ToLower(strings.Join(parts, " "))
}

// qualifies reports whether a candidate market is worth tracking: volume at
// or above the threshold and no exclusion keyword in its searchable text.
func qualifies(m model.Market, minVolume float64) bool {
	if m.Volume24h < minVolume {
		return false
	}

	corpus := searchCorpus(m)
	for _, kw := range excludedKeywords {
		if strings.Contains(corpus, kw) {
			return false
		}
	}

	return true
}
