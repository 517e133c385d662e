package cleaning

import (
	"sort"

	"corpus/internal/dataset"
)

// Apply runs the exclusion rules over samples and returns the included set and
// the audit records for everything that fell out. Input order is preserved in
// both outputs; every input sample lands in exactly one of the two.
func Apply(samples []dataset.Sample) ([]dataset.Sample, []dataset.Excluded) {
	var excluded []dataset.Excluded
	survivors := samples

	var batch []dataset.Excluded
	batch, survivors = excludeMatching(survivors, dataset.ReasonAudioUnreadable, audioUnreadable)
	excluded = append(excluded, batch...)

	batch, survivors = excludeMatching(survivors, dataset.ReasonDurationInvalid, durationInvalid)
	excluded = append(excluded, batch...)

	batch, survivors = excludeMatching(survivors, dataset.ReasonTranscriptBlank, transcriptBlank)
	excluded = append(excluded, batch...)

	batch, survivors = excludeDuplicatePairs(survivors)
	excluded = append(excluded, batch...)

	return survivors, excluded
}

// audioUnreadable also fires when the audio hash could not be computed; a
// missing pair hash is indistinguishable from an unreadable file downstream.
func audioUnreadable(s dataset.Sample) bool {
	return !s.AudioReadOK || s.PairSHA256 == nil
}

func durationInvalid(s dataset.Sample) bool {
	return s.DurationSec == nil || *s.DurationSec <= 0
}

func transcriptBlank(s dataset.Sample) bool {
	return s.TranscriptBlank
}

func excludeMatching(samples []dataset.Sample, reason dataset.Reason, match func(dataset.Sample) bool) ([]dataset.Excluded, []dataset.Sample) {
	var excluded []dataset.Excluded
	survivors := make([]dataset.Sample, 0, len(samples))
	for _, s := range samples {
		if match(s) {
			excluded = append(excluded, dataset.Exclude(s, reason))
			continue
		}
		survivors = append(survivors, s)
	}
	return excluded, survivors
}

// excludeDuplicatePairs keeps the first occurrence of each pair hash, where
// first means the lowest manifest row index among the samples that survived
// the earlier rules.
func excludeDuplicatePairs(samples []dataset.Sample) ([]dataset.Excluded, []dataset.Sample) {
	byRow := make([]dataset.Sample, len(samples))
	copy(byRow, samples)
	sort.SliceStable(byRow, func(i, j int) bool { return byRow[i].RowIndex < byRow[j].RowIndex })

	keep := make(map[string]int64, len(byRow))
	for _, s := range byRow {
		if _, ok := keep[*s.PairSHA256]; !ok {
			keep[*s.PairSHA256] = s.RowIndex
		}
	}

	var excluded []dataset.Excluded
	survivors := make([]dataset.Sample, 0, len(samples))
	for _, s := range samples {
		if keep[*s.PairSHA256] != s.RowIndex {
			excluded = append(excluded, dataset.Exclude(s, dataset.ReasonDuplicatePair))
			continue
		}
		survivors = append(survivors, s)
	}
	return excluded, survivors
}
