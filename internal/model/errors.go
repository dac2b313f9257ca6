package model

import "fmt"

// HTTPError wraps an HTTP status code so callers can inspect it.
// The provider fetcher never surfaces it past a candidate attempt, but the
// diagnostics probe records the status for the operational report.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
