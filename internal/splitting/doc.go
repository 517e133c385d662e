// Package splitting assigns train/val/test labels within each duration bin.
// Members are ordered by ascending pair hash, a content-derived total order
// that makes the assignment reproducible bit-for-bit across runs and
// platforms; the configured seed is provenance only and never feeds the
// algorithm. The first floor(n*train) samples go to train, the next
// floor(n*val) to val, and the remainder, rounding leftovers included, to
// test. Test absorbing the remainder is deliberate and must not change: the
// frozen test set depends on reproducing this exact rule across versions.
package splitting
