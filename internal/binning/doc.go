// Package binning turns a strictly increasing list of duration edges into
// half-open intervals bracketed by 0 and +Inf, and assigns each included
// sample to the unique interval containing its duration. Samples without a
// valid duration never reach this stage; the cleaning rules drop them first.
package binning
