package validate_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/luda9/cinevault-backend/models"
	"github.com/luda9/cinevault-backend/utils/validate"
)

func TestIsWellFormedID(t *testing.T) {
	valid := []string{"tt0133093", "tt0111161", "tt10872600"}
	for _, id := range valid {
		if !validate.IsWellFormedID(id) {
			t.Errorf("expected %q to be well-formed", id)
		}
	}

	invalid := []string{"", "0133093", "tt", "tt013", "nm0000093", "tt013309x", "tt013309300", "TT0133093"}
	for _, id := range invalid {
		if validate.IsWellFormedID(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestIsValidRating(t *testing.T) {
	if !validate.IsValidRating(nil) {
		t.Fatalf("absent rating should be valid")
	}
	for _, v := range []int{1, 5, 10} {
		v := v
		if !validate.IsValidRating(&v) {
			t.Errorf("rating %d should be valid", v)
		}
	}
	for _, v := range []int{0, -3, 11} {
		v := v
		if validate.IsValidRating(&v) {
			t.Errorf("rating %d should be invalid", v)
		}
	}
}

func comparisonCode(t *testing.T, raw string) models.ValidationCode {
	t.Helper()
	_, err := validate.ComparisonIDs(json.RawMessage(raw))
	if err == nil {
		t.Fatalf("expected validation error for %s", raw)
	}
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *models.ValidationError, got %T", err)
	}
	return validationErr.Code
}

func TestComparisonIDsAcceptsTwoToFive(t *testing.T) {
	for _, raw := range []string{
		`["tt0000001","tt0000002"]`,
		`["tt0000001","tt0000002","tt0000003","tt0000004","tt0000005"]`,
	} {
		ids, err := validate.ComparisonIDs(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("expected %s to validate, got %v", raw, err)
		}
		if len(ids) < 2 || len(ids) > 5 {
			t.Fatalf("unexpected id count %d", len(ids))
		}
	}
}

func TestComparisonIDsErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.ValidationCode
	}{
		{"missing", ``, models.CodeMissingField},
		{"null", `null`, models.CodeMissingField},
		{"not an array", `"tt0000001"`, models.CodeTypeError},
		{"array of numbers", `[1,2]`, models.CodeTypeError},
		{"one id", `["tt0000001"]`, models.CodeTooFewIDs},
		{"six ids", `["tt0000001","tt0000002","tt0000003","tt0000004","tt0000005","tt0000006"]`, models.CodeTooManyIDs},
		{"duplicates", `["tt0000001","tt0000001"]`, models.CodeDuplicateIDs},
		{"malformed", `["tt0000001","bogus"]`, models.CodeMalformedID},
	}

	for _, tc := range tests {
		if got := comparisonCode(t, tc.raw); got != tc.want {
			t.Errorf("%s: expected code %s, got %s", tc.name, tc.want, got)
		}
	}
}

// The check order is part of the contract: a short list of duplicates must
// report too_few_ids, and duplicate detection runs before the grammar check.
func TestComparisonIDsCheckOrder(t *testing.T) {
	if got := comparisonCode(t, `["bogus"]`); got != models.CodeTooFewIDs {
		t.Errorf("size check should run before grammar check, got %s", got)
	}
	if got := comparisonCode(t, `["bogus","bogus"]`); got != models.CodeDuplicateIDs {
		t.Errorf("duplicate check should run before grammar check, got %s", got)
	}
}

func TestComparisonIDsReportsAllOffenders(t *testing.T) {
	_, err := validate.ComparisonIDs(json.RawMessage(`["bad1","tt0000001","bad2"]`))
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *models.ValidationError, got %v", err)
	}
	if len(validationErr.IDs) != 2 {
		t.Fatalf("expected both malformed ids reported, got %v", validationErr.IDs)
	}
}

func TestBulkAddCollectsAllErrors(t *testing.T) {
	bad := 42
	items := []models.WatchlistCandidate{
		{IMDBID: "tt0000001"},
		{IMDBID: ""},
		{IMDBID: "bogus"},
		{IMDBID: "tt0000002", Rating: &bad},
	}

	err := validate.BulkAdd(items)
	var bulkErr *models.BulkValidationError
	if !errors.As(err, &bulkErr) {
		t.Fatalf("expected *models.BulkValidationError, got %v", err)
	}
	if len(bulkErr.Items) != 3 {
		t.Fatalf("expected 3 item errors, got %d: %v", len(bulkErr.Items), bulkErr.Items)
	}

	wantIndexes := []int{1, 2, 3}
	wantCodes := []models.ValidationCode{models.CodeMissingField, models.CodeMalformedID, models.CodeInvalidRating}
	for i, item := range bulkErr.Items {
		if item.Index != wantIndexes[i] || item.Code != wantCodes[i] {
			t.Errorf("item %d: got index=%d code=%s, want index=%d code=%s",
				i, item.Index, item.Code, wantIndexes[i], wantCodes[i])
		}
	}
}

func TestBulkAddAcceptsValidBatch(t *testing.T) {
	seven := 7
	watched := true
	items := []models.WatchlistCandidate{
		{IMDBID: "tt0000001", Rating: &seven, Watched: &watched},
		{IMDBID: "tt0000002"},
	}
	if err := validate.BulkAdd(items); err != nil {
		t.Fatalf("expected batch to validate, got %v", err)
	}
}

func TestBulkAddRejectsEmptyBatch(t *testing.T) {
	err := validate.BulkAdd(nil)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *models.ValidationError, got %v", err)
	}
	if validationErr.Code != models.CodeMissingField {
		t.Fatalf("expected missing_field, got %s", validationErr.Code)
	}
}
