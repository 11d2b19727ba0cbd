package layers

import (
	"errors"
	"fmt"

	"citeguard/internal/scoring"
)

// ErrorCategory is the normalized failure taxonomy for layers.
type ErrorCategory string

const (
	// ErrorTimeout indicates the layer took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the upstream answered with something unusable
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorOutage indicates the upstream is unavailable
	ErrorOutage ErrorCategory = "outage"

	// ErrorNotFound indicates the reference lacks what the layer needs
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// LayerError wraps layer failures with normalized categorization.
type LayerError struct {
	Category   ErrorCategory
	Layer      scoring.LayerID
	Message    string
	Underlying error
	Retryable  bool
}

func (e *LayerError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("layer %s [%s]: %s: %v", e.Layer, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("layer %s [%s]: %s", e.Layer, e.Category, e.Message)
}

func (e *LayerError) Unwrap() error {
	return e.Underlying
}

// NewLayerError creates a categorized layer error. Timeouts, outages and
// rate limits are retryable.
func NewLayerError(category ErrorCategory, layer scoring.LayerID, message string, underlying error) *LayerError {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &LayerError{
		Category:   category,
		Layer:      layer,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether err is a retryable layer error.
func IsRetryable(err error) bool {
	var le *LayerError
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// CategoryOf extracts the category of err, defaulting to internal.
func CategoryOf(err error) ErrorCategory {
	var le *LayerError
	if errors.As(err, &le) {
		return le.Category
	}
	return ErrorInternal
}
