// Package services defines the business logic for monitoring sessions,
// mention queries and aggregate statistics. This file centralizes
// service-level error values so that they can be returned consistently by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrMentionNotFound indicates that the requested mention does not exist.
	ErrMentionNotFound = errors.New("mention not found")

	// ErrConfigNotFound indicates that the requested monitoring config does
	// not exist.
	ErrConfigNotFound = errors.New("monitoring config not found")

	// ErrInvalidBrand is returned when a brand name is missing, has the wrong
	// length, or contains characters outside letters, digits, spaces and
	// - _ & .
	ErrInvalidBrand = errors.New("brand name must be 2-100 characters of letters, digits, spaces or - _ & .")

	// ErrInvalidPlatform is returned for a blank or over-long platform label.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidQuery is returned when a search query is shorter than two
	// characters.
	ErrInvalidQuery = errors.New("search query must be at least 2 characters")

	// ErrInvalidTimeframe is returned when a lookback window is outside
	// 1-168 hours.
	ErrInvalidTimeframe = errors.New("hours must be between 1 and 168")

	// ErrInvalidLimit is returned when a result limit is outside 1-100.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")

	// ErrInvalidCount is returned when a demo seed count is outside 1-500.
	ErrInvalidCount = errors.New("count must be between 1 and 500")

	// ErrMonitoringClosed is returned by Start once the service is closed.
	ErrMonitoringClosed = errors.New("monitoring is shutting down")
)
