// Package manifest writes the run artifacts: the dataset manifest CSV, the
// excluded-sample audit CSV, the frozen test-set CSV, the summary JSON, and
// the markdown report. The CSV column orders are a compatibility contract
// with downstream consumers and must not change.
//
// It also reads frozen test-set files back, both to pin prior test samples
// during splitting and to verify the frozen-set contract against an existing
// manifest.
package manifest
