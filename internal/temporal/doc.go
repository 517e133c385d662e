// Package temporal clusters samples into recording sessions by timestamp
// proximity and counts the sessions that span the train/test boundary. A
// session leaking across that boundary lets a model pick up session-specific
// acoustic conditions from the evaluation set, so the crossing count is
// surfaced in the summary; whether to block on it is the caller's call.
//
// The check needs timestamps on at least half of the included samples;
// below that coverage it is skipped, not failed.
package temporal
