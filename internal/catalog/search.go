package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mygamelist/backend/internal/models"
)

// SearchCap bounds the result set of a name search. An empty query returns
// the whole catalog capped at this size.
const SearchCap = 100

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize case-folds a name and strips diacritics, so that "Pokémon"
// and "pokemon" compare equal.
func Normalize(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}

// SearchByName returns the games whose name contains the query as an
// infix, ignoring case and diacritics on both sides. An empty query
// matches everything. The result is capped at SearchCap entries.
func SearchByName(games []models.Game, query string) []models.Game {
	needle := Normalize(query)

	matched := []models.Game{}
	for _, g := range games {
		if needle == "" || strings.Contains(Normalize(g.Name), needle) {
			matched = append(matched, g)
			if len(matched) == SearchCap {
				break
			}
		}
	}
	return matched
}
