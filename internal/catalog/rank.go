// Package catalog implements the query resolution logic of the game
// catalog: the top-N ranking, the diacritic-insensitive name search and
// the facet value discovery backing the filter UI.
package catalog

import (
	"sort"

	"mygamelist/backend/internal/models"
)

// OversampleFactor is the multiplier applied to the requested result size
// when fetching the candidate window ordered by ratings_count. The two-phase
// query is an approximation of top-N-by-rating, not an exact one: a game
// with a high rating but very few votes can fall outside the window and be
// excluded. The factor is a tunable with no derived correctness guarantee.
const OversampleFactor = 2

// DefaultTopLimit is the result size of the top-games query when the
// client does not ask for one.
const DefaultTopLimit = 10

// Filter restricts the candidate window of the top-games query. Platform
// and Tag match by exact name; MinRating and ReleasedAfter are inclusive
// lower bounds. ReleasedAfter is an ISO date (YYYY-MM-DD), which compares
// correctly as a plain string.
type Filter struct {
	Platform      string
	Tag           string
	MinRating     float64
	ReleasedAfter string
}

// RankByRating re-sorts a candidate window (already ordered by
// ratings_count descending) by rating descending and truncates it to
// limit. The sort is stable, so ties keep the ratings_count order of the
// window.
func RankByRating(candidates []models.Game, limit int) []models.Game {
	ranked := make([]models.Game, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Matches reports whether a game satisfies every bound of the filter.
// The Mongo query applies the same conditions server-side; this form is
// used by in-process candidate selection.
func (f Filter) Matches(g *models.Game) bool {
	if f.Platform != "" && !hasPlatform(g, f.Platform) {
		return false
	}
	if f.Tag != "" && !hasTag(g, f.Tag) {
		return false
	}
	if f.MinRating > 0 && g.Rating < f.MinRating {
		return false
	}
	if f.ReleasedAfter != "" && g.Released < f.ReleasedAfter {
		return false
	}
	return true
}

func hasPlatform(g *models.Game, name string) bool {
	for _, p := range g.Platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}

func hasTag(g *models.Game, name string) bool {
	for _, t := range g.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
