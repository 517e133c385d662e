package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"corpus/internal/binning"
	"corpus/internal/cleaning"
	"corpus/internal/dataset"
	"corpus/internal/hashing"
	"corpus/internal/inventory"
	"corpus/internal/manifest"
	"corpus/internal/splitting"
	"corpus/internal/temporal"
	"corpus/internal/validation"
)

// Options configures a single versioning run.
type Options struct {
	InventoryPath string
	OutputDir     string
	Tag           string
	RunID         string
	Seed          int64
	Ratios        splitting.Ratios
	BinEdges      []float64
	SessionGapMS  int64

	SkipTemporalCheck bool
	AllowSmallSplits  bool
	FrozenPath        string

	Source          string
	RecordingDevice string

	HashWorkers  int
	ShowProgress bool
	ToolVersion  string
}

// Artifacts names the files written into the output directory.
type Artifacts struct {
	Manifest string
	Excluded string
	Frozen   string
	Summary  string
	Report   string
}

func artifactsFor(tag string) Artifacts {
	return Artifacts{
		Manifest: fmt.Sprintf("dataset_%s_manifest.csv", tag),
		Excluded: fmt.Sprintf("dataset_%s_excluded.csv", tag),
		Frozen:   fmt.Sprintf("test_set_%s_frozen.csv", tag),
		Summary:  fmt.Sprintf("dataset_%s_summary.json", tag),
		Report:   fmt.Sprintf("dataset_%s_report.md", tag),
	}
}

// Result is the outcome of a completed (or validation-failed) run.
type Result struct {
	Summary         manifest.Summary
	Validation      validation.Result
	Temporal        temporal.Report
	BalanceWarnings []string
	OutputDir       string
	Artifacts       Artifacts
}

// Run executes the pipeline. On success the output directory holds all five
// artifacts. A validation failure returns the partial result alongside
// ErrValidationFailed with nothing written; fatal errors wrap ErrFatal.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Tag == "" {
		opts.Tag = "v1"
	}

	if err := opts.Ratios.Validate(); err != nil {
		return nil, fatalErr("split ratios", err)
	}
	intervals, err := binning.Intervals(opts.BinEdges)
	if err != nil {
		return nil, fatalErr("duration bins", err)
	}

	var frozen map[string]struct{}
	if opts.FrozenPath != "" {
		frozen, err = manifest.LoadFrozen(opts.FrozenPath)
		if err != nil {
			return nil, fatalErr("frozen test set", err)
		}
		logger.Info("loaded frozen test set", "path", opts.FrozenPath, "pairs", len(frozen))
	}

	samples, err := loadInventory(opts.InventoryPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded inventory", "rows", len(samples))

	logger.Info("computing content hashes", "workers", opts.HashWorkers)
	samples, err = hashSamples(ctx, samples, opts)
	if err != nil {
		return nil, fatalErr("hash records", err)
	}

	included, excluded := cleaning.Apply(samples)
	logger.Info("applied cleaning rules", "included", len(included), "excluded", len(excluded))
	if len(included) == 0 {
		return nil, fatalf("all samples excluded, cannot create dataset")
	}

	included = cleaning.FlagDuplicateAudio(included)
	duplicates := 0
	for _, s := range included {
		if s.DuplicateAudio {
			duplicates++
		}
	}
	if duplicates > 0 {
		logger.Warn("duplicate audio with different transcripts", "count", duplicates)
	}

	included, err = binning.Assign(included, intervals)
	if err != nil {
		return nil, fatalErr("assign duration bins", err)
	}

	included, err = splitting.Assign(included, opts.Ratios, frozen)
	if err != nil {
		return nil, fatalErr("assign splits", err)
	}
	logSplitCounts(logger, included)

	var temporalReport temporal.Report
	if opts.SkipTemporalCheck {
		temporalReport = temporal.Skipped()
		logger.Info("temporal check skipped by user request")
	} else {
		temporalReport = temporal.Analyze(included, opts.SessionGapMS)
		logTemporal(logger, temporalReport)
	}

	validationResult := validation.ValidateSplitSizes(included, opts.AllowSmallSplits)
	balanceWarnings := validation.CheckDistributionBalance(included, 0)
	validationResult.Warnings = append(validationResult.Warnings, balanceWarnings...)
	for _, warning := range validationResult.Warnings {
		logger.Warn(warning)
	}

	summary := manifest.BuildSummary(included, excluded, temporalReport, validationResult, manifest.Provenance{
		Tag:         opts.Tag,
		RunID:       opts.RunID,
		Seed:        opts.Seed,
		TrainRatio:  opts.Ratios.Train,
		ValRatio:    opts.Ratios.Val,
		TestRatio:   opts.Ratios.Test,
		BinEdges:    opts.BinEdges,
		ToolVersion: opts.ToolVersion,
	}, time.Now())

	result := &Result{
		Summary:         summary,
		Validation:      validationResult,
		Temporal:        temporalReport,
		BalanceWarnings: balanceWarnings,
		OutputDir:       opts.OutputDir,
		Artifacts:       artifactsFor(opts.Tag),
	}

	if !validationResult.Passed {
		return result, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(validationResult.Errors, "; "))
	}

	if err := writeArtifacts(opts, result, included, excluded); err != nil {
		return nil, err
	}
	logger.Info("outputs written", "dir", opts.OutputDir)
	return result, nil
}

func loadInventory(path string) ([]dataset.Sample, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fatalf("inventory path is required")
	}
	samples, err := inventory.Load(path)
	if err != nil {
		return nil, fatalErr("load inventory", err)
	}
	if len(samples) == 0 {
		return nil, fatalf("inventory %s has no rows", path)
	}
	return samples, nil
}

func hashSamples(ctx context.Context, samples []dataset.Sample, opts Options) ([]dataset.Sample, error) {
	var progress func()
	if opts.ShowProgress {
		bar := progressbar.NewOptions(len(samples),
			progressbar.OptionSetDescription("hashing audio"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		progress = func() { _ = bar.Add(1) }
	}
	return hashing.Apply(ctx, samples, opts.HashWorkers, progress)
}

func writeArtifacts(opts Options, result *Result, included []dataset.Sample, excluded []dataset.Excluded) error {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fatalErr("create output directory", err)
	}

	meta := manifest.Meta{
		Tag:             opts.Tag,
		Source:          opts.Source,
		RecordingDevice: opts.RecordingDevice,
	}
	files := result.Artifacts
	if err := manifest.WriteManifest(filepath.Join(opts.OutputDir, files.Manifest), included, meta, opts.OutputDir); err != nil {
		return fatalErr("write manifest", err)
	}
	if err := manifest.WriteExcluded(filepath.Join(opts.OutputDir, files.Excluded), excluded); err != nil {
		return fatalErr("write excluded list", err)
	}
	if err := manifest.WriteFrozen(filepath.Join(opts.OutputDir, files.Frozen), included); err != nil {
		return fatalErr("write frozen test set", err)
	}
	if err := manifest.WriteSummary(filepath.Join(opts.OutputDir, files.Summary), result.Summary); err != nil {
		return fatalErr("write summary", err)
	}
	if err := manifest.WriteReport(filepath.Join(opts.OutputDir, files.Report), result.Summary, result.Validation, result.BalanceWarnings, files.Frozen); err != nil {
		return fatalErr("write report", err)
	}
	return nil
}

func logSplitCounts(logger *slog.Logger, included []dataset.Sample) {
	counts := make(map[dataset.Split]int)
	durations := make(map[dataset.Split]float64)
	for _, s := range included {
		counts[s.Split]++
		if s.DurationSec != nil {
			durations[s.Split] += *s.DurationSec
		}
	}
	for _, split := range dataset.Splits {
		logger.Info("split assigned",
			"split", string(split),
			"samples", counts[split],
			"hours", fmt.Sprintf("%.2f", durations[split]/3600),
		)
	}
}

func logTemporal(logger *slog.Logger, report temporal.Report) {
	if report.Status != temporal.StatusCompleted {
		logger.Info("temporal check skipped",
			"status", report.Status,
			"coverage_pct", report.CoveragePct,
		)
		return
	}
	logger.Info("temporal clustering completed",
		"clusters", *report.TotalClusters,
		"crossing_train_test", *report.CrossingClusters,
	)
	if *report.CrossingClusters > 0 {
		logger.Warn("recording sessions cross the train/test boundary", "count", *report.CrossingClusters)
	}
}
