// Package service hosts path-bound handlers behind one listener.
//
// Requests are resolved against a Registry by longest-prefix reduction on
// "/" segments, dispatched to the matching Handler by HTTP verb, and answered
// with a JSON envelope. Handlers report failures as envelopes; the Host
// recovers anything else at its boundary so one bad handler cannot take the
// listener down.
package service
