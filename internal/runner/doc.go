// Package runner executes the external Python screening scripts.
//
// Scripts are spawned directly with an argument vector, never through a
// shell, and every identifier is reduced to an alphanumeric-plus-dot
// allow list before use. Each run is bounded by the configured timeout;
// expiry is reported on the result, not returned as an error, because a
// slow script must not take the whole request down with it.
package runner
