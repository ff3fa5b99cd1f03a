package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrImmutableField  = errors.New("imdb id is immutable")
	ErrExternalService = errors.New("external metadata service error")
)

// ValidationCode identifies a validation failure kind in API responses.
type ValidationCode string

const (
	CodeMissingField  ValidationCode = "missing_field"
	CodeTypeError     ValidationCode = "type_error"
	CodeTooFewIDs     ValidationCode = "too_few_ids"
	CodeTooManyIDs    ValidationCode = "too_many_ids"
	CodeDuplicateIDs  ValidationCode = "duplicate_ids"
	CodeMalformedID   ValidationCode = "malformed_id"
	CodeInvalidRating ValidationCode = "invalid_rating"
)

// ValidationError reports a single request-level validation failure.
type ValidationError struct {
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
	IDs     []string       `json:"ids,omitempty"` // offending ids, when applicable
}

func (e *ValidationError) Error() string {
	if len(e.IDs) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.IDs, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ItemError is one failed item of a bulk request, addressed by its index.
type ItemError struct {
	Index   int            `json:"index"`
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
}

// BulkValidationError rejects a whole batch and lists every failing item.
// Partial success is not permitted.
type BulkValidationError struct {
	Items []ItemError `json:"items"`
}

func (e *BulkValidationError) Error() string {
	return fmt.Sprintf("bulk validation failed for %d item(s)", len(e.Items))
}

// ConflictError reports every candidate IMDb ID already present in the
// watchlist. The batch is rejected whole.
type ConflictError struct {
	IDs []string `json:"ids"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("already in watchlist: %s", strings.Join(e.IDs, ", "))
}

// MoviesNotFoundError reports every comparison ID the provider could not
// resolve, not just the first.
type MoviesNotFoundError struct {
	IDs []string `json:"ids"`
}

func (e *MoviesNotFoundError) Error() string {
	return fmt.Sprintf("movies not found: %s", strings.Join(e.IDs, ", "))
}

func (e *MoviesNotFoundError) Unwrap() error { return ErrNotFound }
