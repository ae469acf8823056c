package airports

import (
	"strings"
	"unicode"

	anyascii "github.com/anyascii/go"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var caseFolder = cases.Fold()

// Normalize folds s into the form used for search comparisons: accents are
// stripped, remaining non-ASCII letters are transliterated and case is folded.
// The same function must be applied to both the query and the candidates.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	folded := caseFolder.String(anyascii.Transliterate(stripped))
	return strings.TrimSpace(folded)
}

// Filter returns the airports whose name, city, country or IATA code contain
// query after normalization. A query that is blank once normalized (spaces or
// bare combining marks) returns airports unchanged. The relative order of the
// input is preserved.
func Filter(airports []Airport, query string) []Airport {
	needle := Normalize(query)
	if needle == "" {
		return airports
	}

	result := make([]Airport, 0)
	for _, airport := range airports {
		if matches(airport, needle) {
			result = append(result, airport)
		}
	}
	return result
}

func matches(airport Airport, needle string) bool {
	for _, field := range []string{airport.Name, airport.City, airport.Country, airport.IATACode} {
		if strings.Contains(Normalize(field), needle) {
			return true
		}
	}
	return false
}

// FindByIATA returns the first airport whose IATA code equals code, ignoring case.
func FindByIATA(airports []Airport, code string) (Airport, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Airport{}, false
	}
	for _, airport := range airports {
		if strings.EqualFold(airport.IATACode, code) {
			return airport, true
		}
	}
	return Airport{}, false
}
