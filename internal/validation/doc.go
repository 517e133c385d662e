// Package validation checks the final split dataset against minimum size and
// duration thresholds and compares duration-bin proportions across splits.
// Threshold violations are errors unless the caller opts into downgrading
// them; distribution imbalance is always a warning.
package validation
