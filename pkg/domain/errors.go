package domain

import (
	"errors"
	"fmt"
)

// ErrInternal is returned by the engine when a turn could not be produced at all.
// Transports surface it as a generic server error.
var ErrInternal = errors.New("internal error")

// ErrMissingCredential is returned when no weather provider key is configured.
var ErrMissingCredential = errors.New("weather provider credential not configured")

// ErrCityNotFound is returned when the provider does not know the requested city.
var ErrCityNotFound = errors.New("city not found")

// ErrCacheMiss is returned by a WeatherCache when no fresh entry exists.
var ErrCacheMiss = errors.New("cache miss")

// LookupReason classifies why a weather lookup failed.
type LookupReason string

const (
	ReasonMissingCredential LookupReason = "missing_credential"
	ReasonInvalidCity       LookupReason = "invalid_city"
	ReasonNotFound          LookupReason = "not_found"
	ReasonUpstreamStatus    LookupReason = "upstream_status"
	ReasonNetwork           LookupReason = "network"
	ReasonTimeout           LookupReason = "timeout"
	ReasonDecode            LookupReason = "decode"
)

// LookupError is the single failure type of a weather lookup.
type LookupError struct {
	City       string
	Reason     LookupReason
	StatusCode int // set for upstream_status and not_found
	Err        error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("weather lookup for %q failed (%s)", e.City, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// AsLookupError returns err as a LookupError, wrapping foreign errors with the given reason.
func AsLookupError(city string, err error, fallback LookupReason) *LookupError {
	var le *LookupError
	if errors.As(err, &le) {
		return le
	}
	return &LookupError{City: city, Reason: fallback, Err: err}
}
