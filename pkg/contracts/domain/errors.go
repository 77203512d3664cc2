package domain

import "errors"

// Pipeline error kinds. Callers match them with errors.Is.
var (
	// ErrParseFailure marks a single field or row that failed to parse.
	// The normalizer recovers locally by storing an absent value.
	ErrParseFailure = errors.New("parse failure")

	// ErrInsufficientData is returned when a trend cannot be fitted.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrEmptyInput is returned when an export is requested on zero rows.
	ErrEmptyInput = errors.New("empty input")

	// ErrSourceUnavailable is returned when the initial bulk load fails.
	ErrSourceUnavailable = errors.New("source unavailable")
)
