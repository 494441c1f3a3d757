package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or processor type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDelegateUnavailable indicates remote search was requested but
	// no delegate is configured.
	ErrDelegateUnavailable = errors.New("search delegate unavailable")

	// ErrWatchUnsupported indicates the source cannot stream changes.
	ErrWatchUnsupported = errors.New("watch not supported by source")
)

// ConfigError indicates the operation cannot proceed because of a
// missing or malformed configuration value.
type ConfigError struct {
	// Key is the configuration key at fault.
	Key string

	// Reason explains what is wrong with it.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Key, e.Reason)
}

// NewConfigError builds a ConfigError for the given key.
func NewConfigError(key, reason string) *ConfigError {
	return &ConfigError{Key: key, Reason: reason}
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// TransportError indicates a remote call failed after the configured
// retry attempts. Status is the last HTTP status, 0 when the failure
// never reached the server.
type TransportError struct {
	// Stage names the pipeline stage that failed (e.g. "remote-search").
	Stage string

	// Attempts is how many attempts were made.
	Attempts int

	// Status is the last HTTP status code observed.
	Status int

	// Err is the underlying cause from the final attempt.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed after %d attempt(s): status %d", e.Stage, e.Attempts, e.Status)
	}
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Stage, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError checks if an error is a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AuthError indicates a remote service rejected our credentials.
// Auth failures are terminal: retrying cannot succeed.
type AuthError struct {
	// Status is the HTTP status returned (401 or 403).
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("credentials rejected: status %d", e.Status)
}

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
