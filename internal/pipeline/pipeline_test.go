package pipeline_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"corpus/internal/manifest"
	"corpus/internal/pipeline"
	"corpus/internal/splitting"
	"corpus/internal/testsupport"
)

var testRatios = splitting.Ratios{Train: 0.8, Val: 0.1, Test: 0.1}

// goodRows generates n valid inventory rows backed by real audio files with
// distinct content, spaced two minutes apart so each lands in its own session.
func goodRows(t *testing.T, audioDir string, n int) []testsupport.InventoryRow {
	t.Helper()
	rows := make([]testsupport.InventoryRow, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(audioDir, fmt.Sprintf("clip_%03d.wav", i))
		testsupport.WriteAudio(t, path, byte(i))
		rows = append(rows, testsupport.InventoryRow{
			FileName:    filepath.Base(path),
			AudioPath:   path,
			Duration:    strconv.FormatFloat(1.5+float64(i%20), 'f', -1, 64),
			Transcript:  fmt.Sprintf("utterance number %03d", i),
			AudioReadOK: true,
			RowIndex:    int64(i),
			TimestampMS: strconv.FormatInt(int64(i)*120_000, 10),
		})
	}
	return rows
}

func baseOptions(inventoryPath, outputDir string) pipeline.Options {
	return pipeline.Options{
		InventoryPath:    inventoryPath,
		OutputDir:        outputDir,
		Tag:              "v1",
		RunID:            "test-run",
		Seed:             42,
		Ratios:           testRatios,
		BinEdges:         []float64{1, 3, 10, 30},
		SessionGapMS:     60_000,
		AllowSmallSplits: true,
		Source:           "euphonia",
		RecordingDevice:  "macbook_pro",
		HashWorkers:      2,
		ToolVersion:      "test",
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "audio")

	rows := goodRows(t, audioDir, 30)
	// Unreadable audio, missing duration, blank transcript, duplicate pair.
	rows = append(rows,
		testsupport.InventoryRow{
			FileName: "missing.wav", AudioPath: filepath.Join(audioDir, "missing.wav"),
			Duration: "2.0", Transcript: "never hashed", AudioReadOK: false, RowIndex: 100,
		},
		testsupport.InventoryRow{
			FileName: rows[0].FileName, AudioPath: rows[0].AudioPath,
			Duration: "", Transcript: "no duration", AudioReadOK: true, RowIndex: 101,
		},
		testsupport.InventoryRow{
			FileName: rows[1].FileName, AudioPath: rows[1].AudioPath,
			Duration: "2.0", Transcript: "   ", AudioReadOK: true, TranscriptBlank: true, RowIndex: 102,
		},
		testsupport.InventoryRow{
			FileName: rows[2].FileName, AudioPath: rows[2].AudioPath,
			Duration: rows[2].Duration, Transcript: rows[2].Transcript, AudioReadOK: true, RowIndex: 103,
		},
	)
	inventoryPath := testsupport.WriteInventory(t, dir, rows)

	outputDir := filepath.Join(dir, "out", "v1")
	result, err := pipeline.Run(context.Background(), baseOptions(inventoryPath, outputDir), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Summary.InputRows != 34 {
		t.Fatalf("input rows: got %d want 34", result.Summary.InputRows)
	}
	if result.Summary.IncludedCount != 30 || result.Summary.ExcludedCount != 4 {
		t.Fatalf("unexpected partition: %+v", result.Summary)
	}
	wantBreakdown := map[string]int{
		"audio_unreadable":           1,
		"duration_invalid":           1,
		"transcript_blank":           1,
		"duplicate_audio_transcript": 1,
	}
	for reason, count := range wantBreakdown {
		if result.Summary.ExcludedBreakdown[reason] != count {
			t.Fatalf("breakdown[%s]: got %d want %d", reason, result.Summary.ExcludedBreakdown[reason], count)
		}
	}
	total := 0
	for _, c := range result.Summary.SplitCounts {
		total += c
	}
	if total != 30 {
		t.Fatalf("split counts do not cover all samples: %v", result.Summary.SplitCounts)
	}
	if result.Summary.TemporalStatus != "completed" {
		t.Fatalf("unexpected temporal status %q", result.Summary.TemporalStatus)
	}

	manifestRows := readRows(t, filepath.Join(outputDir, result.Artifacts.Manifest))
	if len(manifestRows) != 31 {
		t.Fatalf("manifest rows: got %d want 31", len(manifestRows))
	}
	excludedRows := readRows(t, filepath.Join(outputDir, result.Artifacts.Excluded))
	if len(excludedRows) != 5 {
		t.Fatalf("excluded rows: got %d want 5", len(excludedRows))
	}

	var summary manifest.Summary
	data, err := os.ReadFile(filepath.Join(outputDir, result.Artifacts.Summary))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	if summary.DatasetVersion != "v1" || summary.RunID != "test-run" || summary.Seed != 42 {
		t.Fatalf("unexpected provenance: %+v", summary)
	}

	if _, err := os.Stat(filepath.Join(outputDir, result.Artifacts.Report)); err != nil {
		t.Fatalf("report missing: %v", err)
	}
	frozenRows := readRows(t, filepath.Join(outputDir, result.Artifacts.Frozen))
	if len(frozenRows) != summary.SplitCounts["test"]+1 {
		t.Fatalf("frozen rows %d do not match test count %d", len(frozenRows)-1, summary.SplitCounts["test"])
	}
}

func TestRunDeterministic(t *testing.T) {
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "audio")
	inventoryPath := testsupport.WriteInventory(t, dir, goodRows(t, audioDir, 25))

	read := func(outputDir string) map[string][]byte {
		opts := baseOptions(inventoryPath, outputDir)
		result, err := pipeline.Run(context.Background(), opts, nil)
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		files := make(map[string][]byte)
		for _, name := range []string{result.Artifacts.Manifest, result.Artifacts.Excluded, result.Artifacts.Frozen} {
			data, err := os.ReadFile(filepath.Join(outputDir, name))
			if err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			files[name] = data
		}
		return files
	}

	first := read(filepath.Join(dir, "run1"))
	second := read(filepath.Join(dir, "run2"))
	for name, data := range first {
		if string(second[name]) != string(data) {
			t.Fatalf("%s differs between identical runs", name)
		}
	}
}

func TestRunValidationFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "audio")
	inventoryPath := testsupport.WriteInventory(t, dir, goodRows(t, audioDir, 10))

	opts := baseOptions(inventoryPath, filepath.Join(dir, "out"))
	opts.AllowSmallSplits = false

	result, err := pipeline.Run(context.Background(), opts, nil)
	if !errors.Is(err, pipeline.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if result == nil {
		t.Fatal("validation failure must still return the result")
	}
	if result.Validation.Passed {
		t.Fatal("validation must be marked failed")
	}
	if len(result.Validation.Errors) == 0 {
		t.Fatal("expected validation errors")
	}
	if _, statErr := os.Stat(opts.OutputDir); !os.IsNotExist(statErr) {
		t.Fatalf("no outputs may be written on validation failure: %v", statErr)
	}
}

func TestRunFrozenPairsStayInTest(t *testing.T) {
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "audio")
	firstInventory := testsupport.WriteInventory(t, filepath.Join(dir, "inv1"), goodRows(t, audioDir, 40))

	firstOut := filepath.Join(dir, "out-v1")
	opts := baseOptions(firstInventory, firstOut)
	first, err := pipeline.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	frozenPath := filepath.Join(firstOut, first.Artifacts.Frozen)

	// Second version sees twenty new recordings on top of the original forty.
	secondInventory := testsupport.WriteInventory(t, filepath.Join(dir, "inv2"), goodRows(t, audioDir, 60))
	secondOut := filepath.Join(dir, "out-v2")
	opts = baseOptions(secondInventory, secondOut)
	opts.Tag = "v2"
	opts.FrozenPath = frozenPath

	second, err := pipeline.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	violations, err := manifest.VerifyFrozen(filepath.Join(secondOut, second.Artifacts.Manifest), frozenPath)
	if err != nil {
		t.Fatalf("VerifyFrozen returned error: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("frozen contract broken: %v", violations)
	}
}

func TestRunFatalOnMissingInventory(t *testing.T) {
	opts := baseOptions(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir())
	if _, err := pipeline.Run(context.Background(), opts, nil); !errors.Is(err, pipeline.ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
}

func TestRunFatalWhenAllExcluded(t *testing.T) {
	dir := t.TempDir()
	inventoryPath := testsupport.WriteInventory(t, dir, []testsupport.InventoryRow{
		{FileName: "a.wav", AudioPath: filepath.Join(dir, "a.wav"), Duration: "1.0", Transcript: "x", AudioReadOK: false, RowIndex: 0},
	})

	opts := baseOptions(inventoryPath, filepath.Join(dir, "out"))
	if _, err := pipeline.Run(context.Background(), opts, nil); !errors.Is(err, pipeline.ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
}

func TestRunFatalOnBadBinEdges(t *testing.T) {
	dir := t.TempDir()
	inventoryPath := testsupport.WriteInventory(t, dir, goodRows(t, filepath.Join(dir, "audio"), 3))

	opts := baseOptions(inventoryPath, filepath.Join(dir, "out"))
	opts.BinEdges = []float64{10, 3}
	if _, err := pipeline.Run(context.Background(), opts, nil); !errors.Is(err, pipeline.ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
}

func TestRunSkipTemporalCheck(t *testing.T) {
	dir := t.TempDir()
	inventoryPath := testsupport.WriteInventory(t, dir, goodRows(t, filepath.Join(dir, "audio"), 12))

	opts := baseOptions(inventoryPath, filepath.Join(dir, "out"))
	opts.SkipTemporalCheck = true

	result, err := pipeline.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Summary.TemporalStatus != "skipped_by_user" {
		t.Fatalf("unexpected temporal status %q", result.Summary.TemporalStatus)
	}
	if result.Summary.TemporalCrossing != nil {
		t.Fatal("skipped check must not report cluster counts")
	}
}
