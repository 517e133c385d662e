// Package inventory loads the per-file audio/transcript inventory CSV that
// seeds a versioning run. It enforces the required column contract up front;
// a missing file, malformed CSV, or absent required column is fatal for the
// whole run before any output is written.
package inventory
