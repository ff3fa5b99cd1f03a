package watchlist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/luda9/cinevault-backend/models"
)

// Sortable fields for the enriched list. An unknown field falls back to
// SortByDateAdded; the default direction is descending.
const (
	SortByDateAdded  = "dateAdded"
	SortByTitle      = "title"
	SortByYear       = "year"
	SortByIMDBRating = "imdbRating"
	SortByMyRating   = "myRating"

	OrderAscending  = "asc"
	OrderDescending = "desc"
)

// sortEntries orders the list in place. The sort is stable; entries with
// an absent sort key go last regardless of direction.
func sortEntries(entries []models.EnrichedEntry, field, order string) {
	switch field {
	case SortByTitle, SortByYear, SortByIMDBRating, SortByMyRating:
	default:
		field = SortByDateAdded
	}
	descending := order != OrderAscending

	sort.SliceStable(entries, func(i, j int) bool {
		cmp, iOK, jOK := compareByField(&entries[i], &entries[j], field)
		if !iOK || !jOK {
			// Absent keys sort last; between two absents keep input order.
			return iOK && !jOK
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareByField compares two entries on the given field, reporting
// whether each side has a usable key. cmp follows strings.Compare
// conventions.
func compareByField(a, b *models.EnrichedEntry, field string) (cmp int, aOK, bOK bool) {
	switch field {
	case SortByTitle:
		av, aOK := titleKey(a)
		bv, bOK := titleKey(b)
		return strings.Compare(av, bv), aOK, bOK
	case SortByYear:
		av, aOK := yearKey(a)
		bv, bOK := yearKey(b)
		return compareFloat(float64(av), float64(bv)), aOK, bOK
	case SortByIMDBRating:
		av, aOK := imdbRatingKey(a)
		bv, bOK := imdbRatingKey(b)
		return compareFloat(av, bv), aOK, bOK
	case SortByMyRating:
		av, aOK := myRatingKey(a)
		bv, bOK := myRatingKey(b)
		return compareFloat(float64(av), float64(bv)), aOK, bOK
	default: // dateAdded, always present
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1, true, true
		case a.CreatedAt.After(b.CreatedAt):
			return 1, true, true
		default:
			return 0, true, true
		}
	}
}

func titleKey(e *models.EnrichedEntry) (string, bool) {
	if e.Movie == nil || e.Movie.Title == "" {
		return "", false
	}
	return strings.ToLower(e.Movie.Title), true
}

func yearKey(e *models.EnrichedEntry) (int, bool) {
	if e.Movie == nil {
		return 0, false
	}
	return parseLeadingYear(e.Movie.Year)
}

func imdbRatingKey(e *models.EnrichedEntry) (float64, bool) {
	if e.Movie == nil {
		return 0, false
	}
	return parseFloatField(e.Movie.IMDBRating)
}

func myRatingKey(e *models.EnrichedEntry) (int, bool) {
	if e.Rating == nil {
		return 0, false
	}
	return *e.Rating, true
}

// parseLeadingYear parses the first 4-digit run of a provider year field
// ("2010", "2010–2012").
func parseLeadingYear(s string) (int, bool) {
	for i := 0; i+4 <= len(s); i++ {
		if isDigit(s[i]) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) {
			year, err := strconv.Atoi(s[i : i+4])
			if err != nil {
				return 0, false
			}
			return year, true
		}
	}
	return 0, false
}

func parseFloatField(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
