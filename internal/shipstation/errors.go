// Package shipstation implements the client for the ShipStation REST API.
// This file centralizes the client-level error values so that they can be
// consistently returned by client methods and checked by callers.
//
// Translation into user-facing messages or exit codes is performed by the
// command layer, not here.
package shipstation

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned before any network call when the
	// API key or secret is absent from the configuration.
	ErrMissingCredentials = errors.New("shipstation: API credentials required (set SHIPSTATION_API_KEY and SHIPSTATION_API_SECRET)")

	// ErrInvalidCredentials is returned when the API rejects the supplied
	// key/secret pair (HTTP 401).
	ErrInvalidCredentials = errors.New("shipstation: invalid API credentials")

	// ErrRateLimited is returned when the API reports the request quota is
	// exhausted (HTTP 429). The tool does not retry; rerun later.
	ErrRateLimited = errors.New("shipstation: rate limit exceeded")

	// ErrOrderNotFound is returned by FetchOrderByNumber when no order
	// matches the requested number.
	ErrOrderNotFound = errors.New("shipstation: order not found")
)

// APIError describes a non-auth, non-rate-limit HTTP failure from the API.
type APIError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("shipstation: HTTP %d - %s", e.StatusCode, e.Status)
}
