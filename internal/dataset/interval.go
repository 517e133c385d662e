package dataset

import (
	"math"
	"strconv"
)

// Interval is a half-open duration range (Lower, Upper] in seconds. Upper may
// be +Inf for the last bin. The zero value is not a valid bin; bins come from
// binning.Intervals.
type Interval struct {
	Lower float64
	Upper float64
}

// Contains reports whether d falls inside the half-open interval.
func (iv Interval) Contains(d float64) bool {
	return d > iv.Lower && d <= iv.Upper
}

// Label renders the interval for manifests and reports, e.g. "(1, 3]" or
// "(30, inf]". Internally bins are compared as values, never as labels.
func (iv Interval) Label() string {
	return "(" + formatEdge(iv.Lower) + ", " + formatEdge(iv.Upper) + "]"
}

func formatEdge(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
