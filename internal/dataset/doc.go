// Package dataset defines the record types that flow through the versioning
// pipeline: samples with their content hashes, exclusion records, split
// labels, and duration intervals.
//
// Stages never mutate a sample set in place; each stage consumes a slice and
// returns a new one with added or overridden fields. Nullable inventory
// attributes (duration, timestamp, audio hash) stay pointer-typed so the
// cleaning rules can distinguish missing from zero.
package dataset
