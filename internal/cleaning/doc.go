// Package cleaning partitions hashed samples into the included set and the
// excluded audit trail. Rules run in a fixed order and a sample is excluded by
// the first rule it matches: audio unreadable, invalid duration, blank
// transcript, duplicate audio/transcript pair. The order is load-bearing; a
// sample with an invalid duration and a duplicate pair hash always reports
// duration_invalid.
//
// Each rule consumes the surviving set and hands back an excluded batch plus
// the remainder. There is no shared mutable mask.
package cleaning
