package loyalty

import "errors"

// Failures surfaced across the package boundary. Store implementations
// translate their backend-specific errors into these before returning;
// callers never see a database error directly.
var (
	// ErrInvalidRatingValue rejects rating submissions outside [1.0, 5.0].
	// Returned before any persistence call.
	ErrInvalidRatingValue = errors.New("loyalty: rating value must be between 1.0 and 5.0")

	// ErrInvalidAward rejects non-positive point amounts and unknown action
	// kinds.
	ErrInvalidAward = errors.New("loyalty: invalid points award")

	// ErrShopNotFound indicates a rating referenced a shop that does not
	// exist. Nothing is written.
	ErrShopNotFound = errors.New("loyalty: shop not found")

	// ErrAccountNotFound indicates a ranked user has no loyalty account yet.
	ErrAccountNotFound = errors.New("loyalty: loyalty account not found")

	// ErrPersistenceUnavailable indicates the store was unreachable or its
	// transaction retries were exhausted. Retryable by the caller.
	ErrPersistenceUnavailable = errors.New("loyalty: persistence unavailable")
)
