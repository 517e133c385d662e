package validation_test

import (
	"strings"
	"testing"

	"corpus/internal/dataset"
	"corpus/internal/validation"
)

func splitSamples(split dataset.Split, n int, durationSec float64) []dataset.Sample {
	samples := make([]dataset.Sample, 0, n)
	for i := 0; i < n; i++ {
		d := durationSec
		samples = append(samples, dataset.Sample{Split: split, DurationSec: &d})
	}
	return samples
}

func healthySplits() []dataset.Sample {
	samples := splitSamples(dataset.SplitTrain, 120, 8)
	samples = append(samples, splitSamples(dataset.SplitVal, 25, 8)...)
	samples = append(samples, splitSamples(dataset.SplitTest, 25, 8)...)
	return samples
}

func TestValidateSplitSizesPasses(t *testing.T) {
	result := validation.ValidateSplitSizes(healthySplits(), false)
	if !result.Passed || !result.SamplePassed || !result.DurationPassed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected no issues, got %+v", result)
	}
}

func TestValidateSplitSizesSampleShortfall(t *testing.T) {
	samples := splitSamples(dataset.SplitTrain, 50, 20)
	samples = append(samples, splitSamples(dataset.SplitVal, 25, 20)...)
	samples = append(samples, splitSamples(dataset.SplitTest, 25, 20)...)

	result := validation.ValidateSplitSizes(samples, false)
	if result.Passed || result.SamplePassed {
		t.Fatalf("expected sample failure, got %+v", result)
	}
	if !result.DurationPassed {
		t.Fatal("duration checks should pass independently")
	}
	want := "Train split has 50 samples, minimum is 100"
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateSplitSizesDurationShortfall(t *testing.T) {
	// Counts are fine but val holds only 25*4 = 100 seconds.
	samples := splitSamples(dataset.SplitTrain, 120, 8)
	samples = append(samples, splitSamples(dataset.SplitVal, 25, 4)...)
	samples = append(samples, splitSamples(dataset.SplitTest, 25, 8)...)

	result := validation.ValidateSplitSizes(samples, false)
	if result.Passed || result.DurationPassed {
		t.Fatalf("expected duration failure, got %+v", result)
	}
	if !result.SamplePassed {
		t.Fatal("sample checks should pass independently")
	}
	want := "Val split has 1.7 min, minimum is 2 min"
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateSplitSizesAllowSmallDowngrades(t *testing.T) {
	samples := splitSamples(dataset.SplitTrain, 10, 5)

	result := validation.ValidateSplitSizes(samples, true)
	if !result.Passed {
		t.Fatal("allow-small result must still pass")
	}
	if result.SamplePassed || result.DurationPassed {
		t.Fatalf("check flags must still record the shortfall: %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Warnings) != 6 {
		t.Fatalf("expected 6 warnings (3 counts, 3 durations), got %v", result.Warnings)
	}
}

func TestValidateSplitSizesIgnoresMissingDurations(t *testing.T) {
	samples := healthySplits()
	samples = append(samples, dataset.Sample{Split: dataset.SplitTrain})

	result := validation.ValidateSplitSizes(samples, false)
	if !result.Passed {
		t.Fatalf("nil duration should not fail validation: %+v", result)
	}
}

func TestCheckDistributionBalanceBalanced(t *testing.T) {
	short := dataset.Interval{Lower: 0, Upper: 3}
	long := dataset.Interval{Lower: 3, Upper: 10}

	var samples []dataset.Sample
	for _, split := range dataset.Splits {
		for i := 0; i < 10; i++ {
			samples = append(samples, dataset.Sample{Split: split, Bin: short})
			samples = append(samples, dataset.Sample{Split: split, Bin: long})
		}
	}

	if warnings := validation.CheckDistributionBalance(samples, 0); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestCheckDistributionBalanceSkewedBin(t *testing.T) {
	short := dataset.Interval{Lower: 0, Upper: 3}
	long := dataset.Interval{Lower: 3, Upper: 10}

	var samples []dataset.Sample
	// Train: 50/50 across the two bins. Val mirrors train. Test is 80/20.
	for i := 0; i < 10; i++ {
		samples = append(samples, dataset.Sample{Split: dataset.SplitTrain, Bin: short})
		samples = append(samples, dataset.Sample{Split: dataset.SplitTrain, Bin: long})
		samples = append(samples, dataset.Sample{Split: dataset.SplitVal, Bin: short})
		samples = append(samples, dataset.Sample{Split: dataset.SplitVal, Bin: long})
	}
	for i := 0; i < 8; i++ {
		samples = append(samples, dataset.Sample{Split: dataset.SplitTest, Bin: short})
	}
	samples = append(samples, dataset.Sample{Split: dataset.SplitTest, Bin: long})
	samples = append(samples, dataset.Sample{Split: dataset.SplitTest, Bin: long})

	warnings := validation.CheckDistributionBalance(samples, 0)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	wantShort := "Duration bin '(0, 3]' differs by 60.0% between train (50.0%) and test (80.0%)"
	wantLong := "Duration bin '(3, 10]' differs by 60.0% between train (50.0%) and test (20.0%)"
	if warnings[0] != wantShort {
		t.Fatalf("got %q want %q", warnings[0], wantShort)
	}
	if warnings[1] != wantLong {
		t.Fatalf("got %q want %q", warnings[1], wantLong)
	}
}

func TestCheckDistributionBalanceBinMissingFromTrain(t *testing.T) {
	short := dataset.Interval{Lower: 0, Upper: 3}
	long := dataset.Interval{Lower: 3, Upper: 10}

	samples := []dataset.Sample{
		{Split: dataset.SplitTrain, Bin: short},
		{Split: dataset.SplitTrain, Bin: short},
		{Split: dataset.SplitVal, Bin: short},
		{Split: dataset.SplitVal, Bin: long},
		{Split: dataset.SplitTest, Bin: short},
	}

	warnings := validation.CheckDistributionBalance(samples, 0)
	want := "Duration bin '(3, 10]' exists in val (50.0%) but not in train (0.0%)"
	found := false
	for _, w := range warnings {
		if w == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing warning %q in %v", want, warnings)
	}
}

func TestCheckDistributionBalanceEmptySplits(t *testing.T) {
	short := dataset.Interval{Lower: 0, Upper: 3}
	samples := []dataset.Sample{
		{Split: dataset.SplitTrain, Bin: short},
	}

	warnings := validation.CheckDistributionBalance(samples, 0)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if warnings[0] != "Val split is empty" || warnings[1] != "Test split is empty" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestCheckDistributionBalanceEmptyTrain(t *testing.T) {
	warnings := validation.CheckDistributionBalance(nil, 0)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "Train split is empty") {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}
