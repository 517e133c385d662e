package binning

import (
	"fmt"
	"math"
	"sort"

	"corpus/internal/dataset"
)

// Intervals builds the bin set (0, e1], (e1, e2], ..., (en, +Inf] from the
// configured edges. Edges must be finite, positive, and strictly increasing.
func Intervals(edges []float64) ([]dataset.Interval, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("duration bin edges must not be empty")
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, fmt.Errorf("duration bin edge %d is not finite", i)
		}
		if e <= 0 {
			return nil, fmt.Errorf("duration bin edges must be positive, got %v", e)
		}
		if i > 0 && e <= edges[i-1] {
			return nil, fmt.Errorf("duration bin edges must be strictly increasing, got %v after %v", e, edges[i-1])
		}
	}

	bounds := append([]float64{0}, edges...)
	bounds = append(bounds, math.Inf(1))

	intervals := make([]dataset.Interval, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		intervals = append(intervals, dataset.Interval{Lower: bounds[i], Upper: bounds[i+1]})
	}
	return intervals, nil
}

// Assign returns a copy of samples with each sample's Bin set to the interval
// containing its duration. Every sample must carry a valid duration.
func Assign(samples []dataset.Sample, intervals []dataset.Interval) ([]dataset.Sample, error) {
	out := make([]dataset.Sample, len(samples))
	copy(out, samples)
	for i := range out {
		if out[i].DurationSec == nil {
			return nil, fmt.Errorf("sample row %d has no duration", out[i].RowIndex)
		}
		bin, ok := locate(intervals, *out[i].DurationSec)
		if !ok {
			return nil, fmt.Errorf("sample row %d duration %v fits no bin", out[i].RowIndex, *out[i].DurationSec)
		}
		out[i].Bin = bin
	}
	return out, nil
}

func locate(intervals []dataset.Interval, d float64) (dataset.Interval, bool) {
	// Bins are sorted and contiguous; find the first upper bound >= d.
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].Upper >= d })
	if i < len(intervals) && intervals[i].Contains(d) {
		return intervals[i], true
	}
	return dataset.Interval{}, false
}
