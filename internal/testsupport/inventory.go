package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// InventoryRow is one line of a generated inventory CSV. Duration and
// TimestampMS are raw field values so tests can exercise null and malformed
// cases; use FormatFloat/FormatInt helpers for the common path.
type InventoryRow struct {
	FileName        string
	AudioPath       string
	Duration        string
	Transcript      string
	AudioReadOK     bool
	TranscriptBlank bool
	RowIndex        int64
	TimestampMS     string
}

// WriteInventory writes rows as an inventory CSV under dir and returns the
// file path.
func WriteInventory(t testing.TB, dir string, rows []InventoryRow) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "inventory_files.csv")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{
		"file_name",
		"audio_path_resolved",
		"duration_sec",
		"transcript_raw",
		"audio_read_ok",
		"transcript_is_blank",
		"manifest_row_index",
		"timestamp_ms",
	}
	if err := writer.Write(header); err != nil {
		t.Fatalf("write inventory header: %v", err)
	}
	for _, row := range rows {
		record := []string{
			row.FileName,
			row.AudioPath,
			row.Duration,
			row.Transcript,
			strconv.FormatBool(row.AudioReadOK),
			strconv.FormatBool(row.TranscriptBlank),
			strconv.FormatInt(row.RowIndex, 10),
			row.TimestampMS,
		}
		if err := writer.Write(record); err != nil {
			t.Fatalf("write inventory row: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		t.Fatalf("flush inventory: %v", err)
	}
	return path
}
