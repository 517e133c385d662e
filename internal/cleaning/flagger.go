package cleaning

import "corpus/internal/dataset"

// FlagDuplicateAudio marks every included sample whose audio hash is shared
// with a sample carrying a different transcript. Pair-hash dedup cannot catch
// these; they stay in the dataset and the flag exists for manual review only.
func FlagDuplicateAudio(samples []dataset.Sample) []dataset.Sample {
	transcripts := make(map[string]map[string]struct{})
	for _, s := range samples {
		if s.AudioSHA256 == nil {
			continue
		}
		set, ok := transcripts[*s.AudioSHA256]
		if !ok {
			set = make(map[string]struct{})
			transcripts[*s.AudioSHA256] = set
		}
		set[s.TranscriptSHA256] = struct{}{}
	}

	out := make([]dataset.Sample, len(samples))
	copy(out, samples)
	for i := range out {
		if out[i].AudioSHA256 == nil {
			continue
		}
		out[i].DuplicateAudio = len(transcripts[*out[i].AudioSHA256]) > 1
	}
	return out
}
