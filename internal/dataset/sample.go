package dataset

// Split labels a sample's partition assignment.
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
	SplitTest  Split = "test"
)

// Splits lists the partitions in canonical reporting order.
var Splits = []Split{SplitTrain, SplitVal, SplitTest}

// Reason identifies why a sample was excluded. The declaration order matches
// the order the cleaning rules run in; a sample carries the first reason it
// matched and is never re-evaluated.
type Reason string

const (
	ReasonAudioUnreadable Reason = "audio_unreadable"
	ReasonDurationInvalid Reason = "duration_invalid"
	ReasonTranscriptBlank Reason = "transcript_blank"
	ReasonDuplicatePair   Reason = "duplicate_audio_transcript"
)

// Sample is one audio/transcript pair moving through the pipeline.
type Sample struct {
	FileName        string
	AudioPath       string
	Transcript      string
	DurationSec     *float64
	AudioReadOK     bool
	TranscriptBlank bool
	RowIndex        int64
	TimestampMS     *int64

	AudioSHA256      *string
	TranscriptSHA256 string
	PairSHA256       *string

	Bin            Interval
	Split          Split
	DuplicateAudio bool

	TranscriptLenChars int
	TranscriptLenWords int
}

// Excluded retains enough identity for the audit trail after a sample is
// dropped by a cleaning rule.
type Excluded struct {
	FileName         string
	RowIndex         int64
	Reason           Reason
	AudioSHA256      *string
	TranscriptSHA256 string
}

// Exclude builds the audit record for a sample dropped under reason.
func Exclude(s Sample, reason Reason) Excluded {
	return Excluded{
		FileName:         s.FileName,
		RowIndex:         s.RowIndex,
		Reason:           reason,
		AudioSHA256:      s.AudioSHA256,
		TranscriptSHA256: s.TranscriptSHA256,
	}
}
