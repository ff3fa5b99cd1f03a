package comparison

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/luda9/cinevault-backend/models"
)

// buildResult computes the aggregate statistics over a fetched movie set.
// Records with an unparseable value for a given metric are excluded from
// that metric, never counted as zero; a metric nobody contributes to is
// reported as absent.
func buildResult(movies []models.Movie) *models.ComparisonResult {
	result := &models.ComparisonResult{Movies: movies}
	result.Ratings = ratingStats(movies)
	result.Years = yearStats(movies)
	result.RuntimeAverage = runtimeAverage(movies)
	result.BoxOfficeTotal = boxOfficeTotal(movies)
	return result
}

func ratingStats(movies []models.Movie) *models.RatingStats {
	var sum float64
	var count int
	var highest, lowest *models.Movie

	for i := range movies {
		rating, ok := parseRating(movies[i].IMDBRating)
		if !ok {
			continue
		}
		sum += rating
		count++

		// Strict comparisons keep the first occurrence on ties.
		if highest == nil || rating > mustRating(highest) {
			highest = &movies[i]
		}
		if lowest == nil || rating < mustRating(lowest) {
			lowest = &movies[i]
		}
	}

	if count == 0 {
		return nil
	}
	return &models.RatingStats{
		Average: round(sum/float64(count), 2),
		Range:   round(mustRating(highest)-mustRating(lowest), 1),
		Highest: highest,
		Lowest:  lowest,
	}
}

func yearStats(movies []models.Movie) *models.YearStats {
	oldest, newest := 0, 0
	for _, m := range movies {
		year, ok := parseYear(m.Year)
		if !ok {
			continue
		}
		if oldest == 0 || year < oldest {
			oldest = year
		}
		if year > newest {
			newest = year
		}
	}

	if oldest == 0 {
		return nil
	}
	span := newest - oldest
	unit := "years"
	if span == 1 {
		unit = "year"
	}
	return &models.YearStats{
		Oldest: oldest,
		Newest: newest,
		Span:   fmt.Sprintf("%d %s", span, unit),
	}
}

func runtimeAverage(movies []models.Movie) string {
	var sum, count int
	for _, m := range movies {
		minutes, ok := parseRuntime(m.Runtime)
		if !ok {
			continue
		}
		sum += minutes
		count++
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%d min", int(math.Round(float64(sum)/float64(count))))
}

func boxOfficeTotal(movies []models.Movie) string {
	var total int64
	var count int
	for _, m := range movies {
		amount, ok := parseMoney(m.BoxOffice)
		if !ok {
			continue
		}
		total += amount
		count++
	}
	if count == 0 {
		return ""
	}
	return "$" + groupDigits(total)
}

func mustRating(m *models.Movie) float64 {
	rating, _ := parseRating(m.IMDBRating)
	return rating
}

// parseRating parses an IMDb rating like "8.8"; "N/A" and empty are absent.
func parseRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, false
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return rating, true
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// parseYear extracts the first 4-digit run, which also handles series
// ranges like "2010–2012".
func parseYear(s string) (int, bool) {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// parseRuntime parses a minute count like "142 min".
func parseRuntime(s string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

var moneyCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// parseMoney parses a monetary field like "$292,576,195" by stripping the
// currency symbol and separators.
func parseMoney(s string) (int64, bool) {
	s = moneyCleaner.Replace(strings.TrimSpace(s))
	if s == "" || s == "N/A" {
		return 0, false
	}
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// groupDigits renders n with thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// round rounds half away from zero to the given number of decimal places.
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
