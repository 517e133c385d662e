package splitting

import (
	"fmt"
	"math"
	"sort"

	"corpus/internal/dataset"
)

// ratioTolerance is the allowed drift of the ratio sum away from 1.0.
const ratioTolerance = 0.001

// Ratios holds the target split proportions.
type Ratios struct {
	Train float64
	Val   float64
	Test  float64
}

// Validate checks that the ratios sum to 1.0 within tolerance.
func (r Ratios) Validate() error {
	sum := r.Train + r.Val + r.Test
	if math.Abs(sum-1.0) > ratioTolerance {
		return fmt.Errorf("split ratios must sum to 1.0, got %v (%v + %v + %v)", sum, r.Train, r.Val, r.Test)
	}
	return nil
}

// Assign labels every sample with a split. frozen holds pair hashes from a
// prior version's frozen test set; matching samples are pinned to test before
// the ratio floors are computed over the remainder of each bin, which keeps
// the frozen-set contract intact when the input grows. With no frozen hashes
// the assignment is the plain per-bin floor rule.
func Assign(samples []dataset.Sample, ratios Ratios, frozen map[string]struct{}) ([]dataset.Sample, error) {
	if err := ratios.Validate(); err != nil {
		return nil, err
	}

	out := make([]dataset.Sample, len(samples))
	copy(out, samples)

	byBin := make(map[dataset.Interval][]int)
	for i, s := range out {
		byBin[s.Bin] = append(byBin[s.Bin], i)
	}

	bins := make([]dataset.Interval, 0, len(byBin))
	for bin := range byBin {
		bins = append(bins, bin)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Lower < bins[j].Lower })

	for _, bin := range bins {
		assignBin(out, byBin[bin], ratios, frozen)
	}
	return out, nil
}

func assignBin(samples []dataset.Sample, members []int, ratios Ratios, frozen map[string]struct{}) {
	sort.Slice(members, func(a, b int) bool {
		return *samples[members[a]].PairSHA256 < *samples[members[b]].PairSHA256
	})

	pool := members
	if len(frozen) > 0 {
		pool = pool[:0:0]
		for _, i := range members {
			if _, pinned := frozen[*samples[i].PairSHA256]; pinned {
				samples[i].Split = dataset.SplitTest
				continue
			}
			pool = append(pool, i)
		}
	}

	n := len(pool)
	nTrain := int(math.Floor(float64(n) * ratios.Train))
	nVal := int(math.Floor(float64(n) * ratios.Val))

	for pos, i := range pool {
		switch {
		case pos < nTrain:
			samples[i].Split = dataset.SplitTrain
		case pos < nTrain+nVal:
			samples[i].Split = dataset.SplitVal
		default:
			samples[i].Split = dataset.SplitTest
		}
	}
}
