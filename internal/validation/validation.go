package validation

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"corpus/internal/dataset"
)

// Minimum split thresholds.
const (
	MinTrainSamples       = 100
	MinValTestSamples     = 20
	MinTrainDurationSec   = 10 * 60
	MinValTestDurationSec = 2 * 60
)

// BalanceThresholdPct is the maximum tolerated relative deviation of a bin's
// proportion in val/test against its proportion in train.
const BalanceThresholdPct = 20.0

// Result reports the validation outcome. The sample and duration flags are
// independent so the summary can surface which family of checks failed.
type Result struct {
	Passed         bool
	SamplePassed   bool
	DurationPassed bool
	Warnings       []string
	Errors         []string
}

var titleCaser = cases.Title(language.English)

func splitTitle(split dataset.Split) string {
	return titleCaser.String(string(split))
}

// ValidateSplitSizes checks minimum sample counts and total durations per
// split. With allowSmall set, violations downgrade to warnings and the result
// still passes.
func ValidateSplitSizes(samples []dataset.Sample, allowSmall bool) Result {
	result := Result{Passed: true, SamplePassed: true, DurationPassed: true}

	counts := make(map[dataset.Split]int)
	durations := make(map[dataset.Split]float64)
	for _, s := range samples {
		counts[s.Split]++
		if s.DurationSec != nil {
			durations[s.Split] += *s.DurationSec
		}
	}

	minSamples := map[dataset.Split]int{
		dataset.SplitTrain: MinTrainSamples,
		dataset.SplitVal:   MinValTestSamples,
		dataset.SplitTest:  MinValTestSamples,
	}
	minDurations := map[dataset.Split]float64{
		dataset.SplitTrain: MinTrainDurationSec,
		dataset.SplitVal:   MinValTestDurationSec,
		dataset.SplitTest:  MinValTestDurationSec,
	}

	var issues []string
	for _, split := range dataset.Splits {
		if counts[split] < minSamples[split] {
			result.SamplePassed = false
			issues = append(issues, fmt.Sprintf("%s split has %d samples, minimum is %d",
				splitTitle(split), counts[split], minSamples[split]))
		}
	}
	for _, split := range dataset.Splits {
		if durations[split] < minDurations[split] {
			result.DurationPassed = false
			issues = append(issues, fmt.Sprintf("%s split has %.1f min, minimum is %.0f min",
				splitTitle(split), durations[split]/60, minDurations[split]/60))
		}
	}

	if allowSmall {
		result.Warnings = append(result.Warnings, issues...)
	} else {
		result.Errors = append(result.Errors, issues...)
		if len(issues) > 0 {
			result.Passed = false
		}
	}
	return result
}

// CheckDistributionBalance compares each duration bin's share of val and test
// against its share of train and returns a warning per bin whose relative
// deviation exceeds thresholdPct. Bins present in val/test but absent from
// train warn with an explicit 0.0% train share. thresholdPct <= 0 falls back
// to BalanceThresholdPct.
func CheckDistributionBalance(samples []dataset.Sample, thresholdPct float64) []string {
	if thresholdPct <= 0 {
		thresholdPct = BalanceThresholdPct
	}

	var warnings []string

	counts := make(map[dataset.Split]map[dataset.Interval]int)
	totals := make(map[dataset.Split]int)
	for _, s := range samples {
		if counts[s.Split] == nil {
			counts[s.Split] = make(map[dataset.Interval]int)
		}
		counts[s.Split][s.Bin]++
		totals[s.Split]++
	}

	trainTotal := totals[dataset.SplitTrain]
	if trainTotal == 0 {
		return []string{"Train split is empty, cannot check distribution balance"}
	}

	trainBins := sortedBins(counts[dataset.SplitTrain])
	for _, split := range []dataset.Split{dataset.SplitVal, dataset.SplitTest} {
		splitTotal := totals[split]
		if splitTotal == 0 {
			warnings = append(warnings, fmt.Sprintf("%s split is empty", splitTitle(split)))
			continue
		}

		for _, bin := range trainBins {
			trainProp := float64(counts[dataset.SplitTrain][bin]) / float64(trainTotal)
			splitProp := float64(counts[split][bin]) / float64(splitTotal)
			diffPct := math.Abs(splitProp-trainProp) / trainProp * 100
			if diffPct > thresholdPct {
				warnings = append(warnings, fmt.Sprintf(
					"Duration bin '%s' differs by %.1f%% between train (%.1f%%) and %s (%.1f%%)",
					bin.Label(), diffPct, trainProp*100, split, splitProp*100))
			}
		}

		for _, bin := range sortedBins(counts[split]) {
			if counts[dataset.SplitTrain][bin] > 0 {
				continue
			}
			splitProp := float64(counts[split][bin]) / float64(splitTotal)
			warnings = append(warnings, fmt.Sprintf(
				"Duration bin '%s' exists in %s (%.1f%%) but not in train (0.0%%)",
				bin.Label(), split, splitProp*100))
		}
	}

	return warnings
}

func sortedBins(counts map[dataset.Interval]int) []dataset.Interval {
	bins := make([]dataset.Interval, 0, len(counts))
	for bin := range counts {
		bins = append(bins, bin)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Lower < bins[j].Lower })
	return bins
}
