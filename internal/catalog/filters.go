package catalog

import (
	"sort"

	"mygamelist/backend/internal/models"
)

// FilterOptions lists, per facet, the discrete values usable as filters
// over the catalog, plus one aggregate of the per-shelf counters across
// all entries. The JSON keys match what the filter UI consumes.
type FilterOptions struct {
	Platforms         []string             `json:"platforms"`
	Tags              []string             `json:"tags"`
	Stores            []string             `json:"stores"`
	ESRBRatings       []string             `json:"esrbRatings"`
	ReleaseYears      []int                `json:"releaseYears"`
	UserRatings       []float64            `json:"userRatings"`
	MetacriticRatings []int                `json:"metacriticRatings"`
	PlaytimeRanges    []int                `json:"playtimeRanges"`
	AddedByStatus     models.AddedByStatus `json:"addedByStatus"`
}

// CollectFilterOptions computes the distinct value set of every facet.
// Numeric facets and release years are sorted ascending; name facets keep
// first-seen collection order, which is stable across calls for a stable
// catalog.
func CollectFilterOptions(games []models.Game) FilterOptions {
	platforms := newStringSet()
	tags := newStringSet()
	stores := newStringSet()
	esrb := newStringSet()
	years := map[int]bool{}
	ratings := map[float64]bool{}
	metacritics := map[int]bool{}
	playtimes := map[int]bool{}

	var added models.AddedByStatus

	for i := range games {
		g := &games[i]
		for _, p := range g.Platforms {
			platforms.add(p.Name)
		}
		for _, t := range g.Tags {
			tags.add(t.Name)
		}
		for _, s := range g.Stores {
			stores.add(s.Name)
		}
		if g.ESRBRating != nil {
			esrb.add(g.ESRBRating.Name)
		}
		if year := g.ReleaseYear(); year != 0 {
			years[year] = true
		}
		ratings[g.Rating] = true
		metacritics[g.Metacritic] = true
		playtimes[g.Playtime] = true

		added.Yet += g.AddedByStatus.Yet
		added.Owned += g.AddedByStatus.Owned
		added.Beaten += g.AddedByStatus.Beaten
		added.ToPlay += g.AddedByStatus.ToPlay
		added.Dropped += g.AddedByStatus.Dropped
		added.Playing += g.AddedByStatus.Playing
	}

	return FilterOptions{
		Platforms:         platforms.values,
		Tags:              tags.values,
		Stores:            stores.values,
		ESRBRatings:       esrb.values,
		ReleaseYears:      sortedInts(years),
		UserRatings:       sortedFloats(ratings),
		MetacriticRatings: sortedInts(metacritics),
		PlaytimeRanges:    sortedInts(playtimes),
		AddedByStatus:     added,
	}
}

// stringSet deduplicates while preserving insertion order.
type stringSet struct {
	seen   map[string]bool
	values []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: map[string]bool{}, values: []string{}}
}

func (s *stringSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedFloats(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
