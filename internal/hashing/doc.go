// Package hashing computes the content identity of every sample: a streamed
// SHA-256 of the audio bytes, a SHA-256 of the UTF-8 transcript text, and the
// pair hash that combines the two hex digests. The pair hash is the sole
// deduplication and versioning key for the dataset.
//
// An unreadable audio file is a recoverable per-record failure: the audio and
// pair hashes stay nil and the cleaning rules exclude the sample later. Only
// context cancellation aborts a hashing pass.
package hashing
