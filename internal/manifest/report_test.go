package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"corpus/internal/dataset"
	"corpus/internal/manifest"
	"corpus/internal/temporal"
	"corpus/internal/validation"
)

func renderReport(t *testing.T, summary manifest.Summary, vr validation.Result, balance []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.md")
	if err := manifest.WriteReport(path, summary, vr, balance, "test_set_v1_frozen.csv"); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return string(data)
}

func cleanSummary(t *testing.T) manifest.Summary {
	t.Helper()
	train := sampleFixture()
	train.DuplicateAudio = false
	test := train
	test.Split = dataset.SplitTest

	crossing, total := 0, 2
	tr := temporal.Report{
		Status:           temporal.StatusCompleted,
		CrossingClusters: &crossing,
		TotalClusters:    &total,
		CoveragePct:      100,
	}
	vr := validation.Result{Passed: true, SamplePassed: true, DurationPassed: true}
	return manifest.BuildSummary([]dataset.Sample{train, test}, nil, tr, vr,
		manifest.Provenance{Tag: "v1", RunID: "run-1", Seed: 42}, time.Unix(0, 0).UTC())
}

func TestWriteReportSections(t *testing.T) {
	vr := validation.Result{Passed: true, SamplePassed: true, DurationPassed: true}
	text := renderReport(t, cleanSummary(t), vr, nil)

	for _, section := range []string{
		"# Dataset v1 Report",
		"## 1. Overview",
		"## 2. Cleaning Summary",
		"## 3. Split Summary",
		"## 4. Duration Distribution",
		"## 5. Quality Checks",
		"## 6. Split Quality Assessment",
		"## 7. Test Set Lock",
		"## 8. Next Steps",
	} {
		if !strings.Contains(text, section) {
			t.Fatalf("report missing section %q", section)
		}
	}
	if !strings.Contains(text, "READY FOR TRAINING") {
		t.Fatal("clean run must be marked ready")
	}
	if !strings.Contains(text, "`test_set_v1_frozen.csv`") {
		t.Fatal("frozen file name missing from lock section")
	}
	if !strings.Contains(text, "- **Minimum sample validation:** PASS") {
		t.Fatal("validation labels missing")
	}
	if !strings.Contains(text, "- Proceed to audio preprocessing") {
		t.Fatal("passing run must point at the next stage")
	}
}

func TestWriteReportNextStepsOnFailure(t *testing.T) {
	vr := validation.Result{
		Passed: false, SamplePassed: false, DurationPassed: true,
		Errors: []string{"Train split has 10 samples, minimum is 100"},
	}
	text := renderReport(t, cleanSummary(t), vr, nil)
	if !strings.Contains(text, "- Review and address validation issues before proceeding") {
		t.Fatal("failed run must ask for review in next steps")
	}
	if strings.Contains(text, "- Proceed to audio preprocessing") {
		t.Fatal("failed run must not point at the next stage")
	}
}

func TestWriteReportNeedsReviewOnWarnings(t *testing.T) {
	vr := validation.Result{
		Passed: true, SamplePassed: true, DurationPassed: true,
		Warnings: []string{"Train split has 10 samples, minimum is 100"},
	}
	balance := []string{"Duration bin '(0, 1]' differs by 30.0% between train (50.0%) and val (65.0%)"}

	text := renderReport(t, cleanSummary(t), vr, balance)
	if !strings.Contains(text, "NEEDS REVIEW") {
		t.Fatal("warnings must flip the recommendation")
	}
	if !strings.Contains(text, "**Distribution balance warnings:**") {
		t.Fatal("balance warnings section missing")
	}
	if !strings.Contains(text, "**Validation warnings:**") {
		t.Fatal("validation warnings section missing")
	}
}

func TestWriteReportSkippedTemporalCheck(t *testing.T) {
	summary := manifest.BuildSummary(nil, nil, temporal.Skipped(),
		validation.Result{Passed: true, SamplePassed: true, DurationPassed: true},
		manifest.Provenance{Tag: "v1"}, time.Unix(0, 0).UTC())

	text := renderReport(t, summary, validation.Result{Passed: true, SamplePassed: true, DurationPassed: true}, nil)
	if !strings.Contains(text, "Check skipped (skipped_by_user)") {
		t.Fatal("skipped temporal status missing")
	}
}
