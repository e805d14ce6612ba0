package handlers

// Error codes carried in ErrorResponse.Code. Clients branch on these, so
// values never change once released.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	ErrCodeInvalidBrand     = "invalid_brand"
	ErrCodeInvalidPlatform  = "invalid_platform"
	ErrCodeMonitoringFailed = "monitoring_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeStatsFailed      = "stats_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeSeedFailed       = "seed_failed"
)
