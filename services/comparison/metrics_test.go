package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luda9/cinevault-backend/models"
)

func movie(id, rating, year, runtime string) models.Movie {
	return models.Movie{IMDBID: id, IMDBRating: rating, Year: year, Runtime: runtime}
}

func TestRatingAverage(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "7.5", "1999", "100 min"),
		movie("tt0000002", "8.0", "2008", "90 min"),
		movie("tt0000003", "9.0", "2010", "110 min"),
	})

	require.NotNil(t, result.Ratings)
	assert.Equal(t, 8.17, result.Ratings.Average)
	assert.Equal(t, 1.5, result.Ratings.Range)
	assert.Equal(t, "tt0000003", result.Ratings.Highest.IMDBID)
	assert.Equal(t, "tt0000001", result.Ratings.Lowest.IMDBID)
}

// The aggregate is order-independent apart from tie handling.
func TestRatingAverageOrderIndependent(t *testing.T) {
	a := buildResult([]models.Movie{
		movie("tt0000001", "7.5", "", ""),
		movie("tt0000002", "8.0", "", ""),
		movie("tt0000003", "9.0", "", ""),
	})
	b := buildResult([]models.Movie{
		movie("tt0000003", "9.0", "", ""),
		movie("tt0000001", "7.5", "", ""),
		movie("tt0000002", "8.0", "", ""),
	})
	assert.Equal(t, a.Ratings.Average, b.Ratings.Average)
	assert.Equal(t, a.Ratings.Range, b.Ratings.Range)
}

func TestRatingTieFirstOccurrenceWins(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "8.0", "", ""),
		movie("tt0000002", "8.0", "", ""),
	})
	require.NotNil(t, result.Ratings)
	assert.Equal(t, "tt0000001", result.Ratings.Highest.IMDBID)
	assert.Equal(t, "tt0000001", result.Ratings.Lowest.IMDBID)
}

func TestRatingSkipsUnparseable(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "8.0", "", ""),
		movie("tt0000002", "N/A", "", ""),
		movie("tt0000003", "6.0", "", ""),
	})
	require.NotNil(t, result.Ratings)
	assert.Equal(t, 7.0, result.Ratings.Average)
}

func TestRatingsAbsentWhenNothingParses(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "N/A", "", ""),
		movie("tt0000002", "", "", ""),
	})
	assert.Nil(t, result.Ratings)
}

func TestYearSpan(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "", "2008", ""),
		movie("tt0000002", "", "1999", ""),
		movie("tt0000003", "", "2010", ""),
	})

	require.NotNil(t, result.Years)
	assert.Equal(t, 1999, result.Years.Oldest)
	assert.Equal(t, 2010, result.Years.Newest)
	assert.Equal(t, "11 years", result.Years.Span)
}

func TestYearSpanSingular(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "", "1999", ""),
		movie("tt0000002", "", "2000", ""),
	})
	require.NotNil(t, result.Years)
	assert.Equal(t, "1 year", result.Years.Span)
}

func TestYearHandlesSeriesRange(t *testing.T) {
	result := buildResult([]models.Movie{
		{IMDBID: "tt0000001", Year: "2010–2012"},
		{IMDBID: "tt0000002", Year: "2005"},
	})
	require.NotNil(t, result.Years)
	assert.Equal(t, 2005, result.Years.Oldest)
	assert.Equal(t, 2010, result.Years.Newest)
}

func TestRuntimeAverageExcludesUnparseable(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "", "", "142 min"),
		movie("tt0000002", "", "", "N/A"),
		movie("tt0000003", "", "", "116 min"),
	})
	// mean of {142, 116}, N/A excluded rather than counted as zero
	assert.Equal(t, "129 min", result.RuntimeAverage)
}

func TestRuntimeAverageAbsentWhenNothingParses(t *testing.T) {
	result := buildResult([]models.Movie{
		movie("tt0000001", "", "", "N/A"),
		movie("tt0000002", "", "", ""),
	})
	assert.Empty(t, result.RuntimeAverage)
}

func TestBoxOfficeTotal(t *testing.T) {
	result := buildResult([]models.Movie{
		{IMDBID: "tt0000001", BoxOffice: "$292,576,195"},
		{IMDBID: "tt0000002", BoxOffice: "N/A"},
		{IMDBID: "tt0000003", BoxOffice: "$7,423,805"},
	})
	assert.Equal(t, "$300,000,000", result.BoxOfficeTotal)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"$292,576,195", 292576195, true},
		{"$100", 100, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"unknown", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseMoney(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
