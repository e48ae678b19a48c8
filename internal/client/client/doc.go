// Package client talks to the gophdrive HTTP API.
//
// HTTPClient keeps the session cookie in a cookie jar, so a successful Login
// authenticates every later call until Logout. Error envelopes returned by
// the server are decoded into *APIError, which unwraps to the matching
// sentinel from internal/common (or ErrUnavailable when the server cannot
// be reached), so callers match failures with errors.Is.
package client
