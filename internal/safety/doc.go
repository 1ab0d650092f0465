// Package safety implements the pre-send safety gate: an ordered pipeline
// of identity, domain-reachability, and content checks that every candidate
// send must pass before the transport is invoked. A failed check is
// terminal for the enrollment — it is never retried.
package safety
