package resilience

import (
	"errors"
	"fmt"
	"strings"
)

// RateLimitError marks a provider throttling failure so retry policies can
// recognize it without string matching.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// RateLimited wraps err as a rate-limit-class failure.
func RateLimited(err error) error {
	if err == nil {
		return nil
	}
	return &RateLimitError{Err: err}
}

// rateLimitMarkers are the substrings that identify throttling responses
// from providers whose SDK errors we cannot type-assert.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"quota",
	"too many requests",
}

// IsRateLimited reports whether err is a rate-limit-class failure, either
// a typed RateLimitError or an error whose text carries a known throttling
// marker. Matching is case-insensitive.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
