package fabric

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError represents a non-2xx response from the Fabric or management API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fabric: API error %d (URL: %s)", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fabric: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// RateLimitError indicates the API asked us to back off.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("fabric: rate limit exceeded, retry after %s", e.RetryAt.Format(time.RFC3339))
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication
// failure that survived the forced refresh-and-retry.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
