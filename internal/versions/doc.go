// Package versions persists the dataset-version registry in SQLite. Each
// successful run records its tag, run id, seed, split counts, and output
// directory so later runs can assign the next tag and operators can audit
// what was produced when. The registry is bookkeeping, not a data store: the
// CSV artifacts under each output directory remain the source of truth.
package versions
