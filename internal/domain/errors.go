package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput means the tracker file parsed to zero usable records, so
// there is nothing to summarize.
var ErrEmptyInput = errors.New("no tracker records found")

// ErrInputNotFound means the tracker CSV does not exist at the configured
// path.
var ErrInputNotFound = errors.New("tracker csv not found")

// ConfigurationError is a missing or unusable required setting. It aborts
// the run before any computation happens.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration %s: %s", e.Setting, e.Reason)
}

// NetworkError is a transport failure or non-2xx response from the TRMNL
// API. There is no retry; the run aborts.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
