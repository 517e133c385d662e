package temporal

import (
	"math"
	"sort"

	"corpus/internal/dataset"
)

// DefaultSessionGapMS is the gap threshold that starts a new session.
const DefaultSessionGapMS = 60_000

// minTimestampCoverage is the fraction of samples that must carry a timestamp
// for the check to run.
const minTimestampCoverage = 0.5

// Check status values recorded in the summary.
const (
	StatusCompleted           = "completed"
	StatusSkippedInsufficient = "skipped_insufficient_timestamps"
	StatusSkippedByUser       = "skipped_by_user"
)

// Report carries the outcome of the leakage check. CrossingClusters and
// TotalClusters are nil whenever the check was skipped.
type Report struct {
	Status           string
	CrossingClusters *int
	TotalClusters    *int
	CoveragePct      float64
}

// Skipped builds the report for a user-requested skip.
func Skipped() Report {
	return Report{Status: StatusSkippedByUser}
}

// Analyze runs the session-clustering leakage check over the split samples.
// gapMS <= 0 falls back to DefaultSessionGapMS.
func Analyze(samples []dataset.Sample, gapMS int64) Report {
	if gapMS <= 0 {
		gapMS = DefaultSessionGapMS
	}

	report := Report{Status: StatusSkippedInsufficient}
	if len(samples) == 0 {
		return report
	}

	stamped := make([]dataset.Sample, 0, len(samples))
	for _, s := range samples {
		if s.TimestampMS != nil {
			stamped = append(stamped, s)
		}
	}

	coverage := float64(len(stamped)) / float64(len(samples))
	report.CoveragePct = math.Round(coverage*10000) / 100
	if coverage < minTimestampCoverage {
		return report
	}

	sort.SliceStable(stamped, func(i, j int) bool {
		return *stamped[i].TimestampMS < *stamped[j].TimestampMS
	})

	// A cluster is a maximal run of samples whose consecutive gaps stay
	// within the threshold. Count crossings as clusters holding at least one
	// train and one test member; val-only overlap does not count. Samples
	// without a timestamp each form a singleton cluster, which raises the
	// total but can never cross.
	total := len(samples) - len(stamped)
	crossing := 0
	var hasTrain, hasTest bool
	flush := func() {
		if hasTrain && hasTest {
			crossing++
		}
		hasTrain = false
		hasTest = false
	}
	for i, s := range stamped {
		if i == 0 || *s.TimestampMS-*stamped[i-1].TimestampMS > gapMS {
			if i > 0 {
				flush()
			}
			total++
		}
		switch s.Split {
		case dataset.SplitTrain:
			hasTrain = true
		case dataset.SplitTest:
			hasTest = true
		}
	}
	flush()

	report.Status = StatusCompleted
	report.CrossingClusters = &crossing
	report.TotalClusters = &total
	return report
}
