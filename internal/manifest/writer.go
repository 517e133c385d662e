package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"corpus/internal/dataset"
)

// Manifest column order. Fixed by contract.
var manifestColumns = []string{
	"dataset_version",
	"file_name",
	"source",
	"manifest_row_index",
	"audio_path_resolved",
	"duration_sec",
	"duration_bin",
	"transcript_raw",
	"transcript_len_chars",
	"transcript_len_words",
	"timestamp_ms",
	"recording_device",
	"audio_sha256",
	"transcript_sha256",
	"pair_sha256",
	"split",
	"duplicate_audio_flag",
}

var excludedColumns = []string{
	"file_name",
	"manifest_row_index",
	"excluded_reason",
	"audio_sha256",
	"transcript_sha256",
}

var frozenColumns = []string{
	"file_name",
	"pair_sha256",
	"audio_sha256",
	"transcript_sha256",
}

// Meta carries the constant columns stamped onto every manifest row.
type Meta struct {
	Tag             string
	Source          string
	RecordingDevice string
}

// WriteManifest writes the included samples to path. Audio paths are made
// relative to baseDir when possible so the manifest travels with the dataset.
func WriteManifest(path string, samples []dataset.Sample, meta Meta, baseDir string) error {
	return writeCSV(path, manifestColumns, len(samples), func(i int) []string {
		s := samples[i]
		return []string{
			meta.Tag,
			s.FileName,
			meta.Source,
			strconv.FormatInt(s.RowIndex, 10),
			relativePath(baseDir, s.AudioPath),
			formatNullableFloat(s.DurationSec),
			s.Bin.Label(),
			s.Transcript,
			strconv.Itoa(s.TranscriptLenChars),
			strconv.Itoa(s.TranscriptLenWords),
			formatNullableInt(s.TimestampMS),
			meta.RecordingDevice,
			formatNullableString(s.AudioSHA256),
			s.TranscriptSHA256,
			formatNullableString(s.PairSHA256),
			string(s.Split),
			strconv.FormatBool(s.DuplicateAudio),
		}
	})
}

// WriteExcluded writes the audit trail. An empty exclusion set still produces
// a header-only file.
func WriteExcluded(path string, excluded []dataset.Excluded) error {
	return writeCSV(path, excludedColumns, len(excluded), func(i int) []string {
		e := excluded[i]
		return []string{
			e.FileName,
			strconv.FormatInt(e.RowIndex, 10),
			string(e.Reason),
			formatNullableString(e.AudioSHA256),
			e.TranscriptSHA256,
		}
	})
}

// WriteFrozen writes the identity hashes of every test-split sample. Future
// dataset versions must keep each of these pair hashes in the test split.
func WriteFrozen(path string, samples []dataset.Sample) error {
	var test []dataset.Sample
	for _, s := range samples {
		if s.Split == dataset.SplitTest {
			test = append(test, s)
		}
	}
	return writeCSV(path, frozenColumns, len(test), func(i int) []string {
		s := test[i]
		return []string{
			s.FileName,
			formatNullableString(s.PairSHA256),
			formatNullableString(s.AudioSHA256),
			s.TranscriptSHA256,
		}
	})
}

func writeCSV(path string, header []string, rows int, row func(int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}

func relativePath(baseDir, path string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return path
	}
	return rel
}

func formatNullableFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatNullableInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatNullableString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
