package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"corpus/internal/dataset"
)

// Required inventory columns. timestamp_ms is optional.
var requiredColumns = []string{
	"file_name",
	"audio_path_resolved",
	"duration_sec",
	"transcript_raw",
	"audio_read_ok",
	"transcript_is_blank",
	"manifest_row_index",
}

const timestampColumn = "timestamp_ms"

// Load reads the inventory CSV at path into samples. Column order in the file
// is irrelevant; the header row decides the mapping.
func Load(path string) ([]dataset.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer file.Close()

	samples, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}
	return samples, nil
}

// Read parses inventory rows from r.
func Read(r io.Reader) ([]dataset.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("inventory is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	_, hasTimestamp := index[timestampColumn]

	var samples []dataset.Sample
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		get := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		rowIndex, err := parseRowIndex(get("manifest_row_index"))
		if err != nil {
			return nil, fmt.Errorf("row %d: manifest_row_index: %w", line, err)
		}
		duration, err := parseNullableFloat(get("duration_sec"))
		if err != nil {
			return nil, fmt.Errorf("row %d: duration_sec: %w", line, err)
		}
		readOK, err := parseBool(get("audio_read_ok"))
		if err != nil {
			return nil, fmt.Errorf("row %d: audio_read_ok: %w", line, err)
		}
		blank, err := parseBool(get("transcript_is_blank"))
		if err != nil {
			return nil, fmt.Errorf("row %d: transcript_is_blank: %w", line, err)
		}

		sample := dataset.Sample{
			FileName:        get("file_name"),
			AudioPath:       get("audio_path_resolved"),
			Transcript:      get("transcript_raw"),
			DurationSec:     duration,
			AudioReadOK:     readOK,
			TranscriptBlank: blank,
			RowIndex:        rowIndex,
		}
		if hasTimestamp {
			ts, err := parseNullableTimestamp(get(timestampColumn))
			if err != nil {
				return nil, fmt.Errorf("row %d: timestamp_ms: %w", line, err)
			}
			sample.TimestampMS = ts
		}
		sample.TranscriptLenChars = len([]rune(sample.Transcript))
		sample.TranscriptLenWords = len(strings.Fields(sample.Transcript))

		samples = append(samples, sample)
	}

	return samples, nil
}

func parseRowIndex(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Tolerate float-formatted integers from upstream tooling.
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("not an integer: %q", value)
		}
		return int64(f), nil
	}
	return n, nil
}

func parseNullableFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", value)
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func parseNullableTimestamp(value string) (*int64, error) {
	f, err := parseNullableFloat(value)
	if err != nil || f == nil {
		return nil, err
	}
	ts := int64(*f)
	return &ts, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", value)
	}
}
