package validate

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/luda9/cinevault-backend/models"
)

const (
	// MinCompareIDs and MaxCompareIDs bound the size of a comparison request.
	MinCompareIDs = 2
	MaxCompareIDs = 5

	// MinRating and MaxRating bound a personal rating.
	MinRating = 1
	MaxRating = 10
)

// imdbIDPattern is the provider's identifier grammar: the "tt" prefix
// followed by 7 or 8 decimal digits.
var imdbIDPattern = regexp.MustCompile(`^tt\d{7,8}$`)

// IsWellFormedID reports whether id matches the IMDb identifier grammar.
func IsWellFormedID(id string) bool {
	return imdbIDPattern.MatchString(id)
}

// IsValidRating reports whether r is absent or within [MinRating, MaxRating].
func IsValidRating(r *int) bool {
	return r == nil || (*r >= MinRating && *r <= MaxRating)
}

// ComparisonIDs validates the raw "ids" value of a comparison request and
// returns the decoded list. Checks run in a fixed order and the first
// failure wins: missing, wrong type, too few, too many, duplicates,
// malformed. The order is observable in error responses.
func ComparisonIDs(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &models.ValidationError{
			Code:    models.CodeMissingField,
			Message: "ids is required",
		}
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, &models.ValidationError{
			Code:    models.CodeTypeError,
			Message: "ids must be an array of strings",
		}
	}

	if len(ids) < MinCompareIDs {
		return nil, &models.ValidationError{
			Code:    models.CodeTooFewIDs,
			Message: fmt.Sprintf("at least %d ids are required", MinCompareIDs),
		}
	}
	if len(ids) > MaxCompareIDs {
		return nil, &models.ValidationError{
			Code:    models.CodeTooManyIDs,
			Message: fmt.Sprintf("at most %d ids are allowed", MaxCompareIDs),
		}
	}

	seen := make(map[string]bool, len(ids))
	var duplicates []string
	for _, id := range ids {
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true
	}
	if len(duplicates) > 0 {
		return nil, &models.ValidationError{
			Code:    models.CodeDuplicateIDs,
			Message: "ids must be distinct",
			IDs:     duplicates,
		}
	}

	var malformed []string
	for _, id := range ids {
		if !IsWellFormedID(id) {
			malformed = append(malformed, id)
		}
	}
	if len(malformed) > 0 {
		return nil, &models.ValidationError{
			Code:    models.CodeMalformedID,
			Message: "ids must match the IMDb identifier format",
			IDs:     malformed,
		}
	}

	return ids, nil
}

// BulkAdd validates every watchlist candidate and collects ALL failures
// into an indexed list. The whole batch is rejected if any item fails.
func BulkAdd(items []models.WatchlistCandidate) error {
	if len(items) == 0 {
		return &models.ValidationError{
			Code:    models.CodeMissingField,
			Message: "at least one item is required",
		}
	}

	var failed []models.ItemError
	for i, item := range items {
		switch {
		case item.IMDBID == "":
			failed = append(failed, models.ItemError{
				Index:   i,
				Code:    models.CodeMissingField,
				Message: "id is required",
			})
		case !IsWellFormedID(item.IMDBID):
			failed = append(failed, models.ItemError{
				Index:   i,
				Code:    models.CodeMalformedID,
				Message: fmt.Sprintf("%q does not match the IMDb identifier format", item.IMDBID),
			})
		}

		if !IsValidRating(item.Rating) {
			failed = append(failed, models.ItemError{
				Index:   i,
				Code:    models.CodeInvalidRating,
				Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
			})
		}
	}

	if len(failed) > 0 {
		return &models.BulkValidationError{Items: failed}
	}
	return nil
}
