package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"corpus/internal/logging"
	"corpus/internal/pipeline"
	"corpus/internal/splitting"
	"corpus/internal/versions"
)

const outputTimestampLayout = "20060102-150405"

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		inventoryPath string
		tag           string
		seed          int64
		trainRatio    float64
		valRatio      float64
		testRatio     float64
		binEdges      []float64
		frozenPath    string
		skipTemporal  bool
		allowSmall    bool
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Run the dataset versioning pipeline",
		Long: `Create reads an inventory CSV, computes content hashes, applies the
cleaning rules, assigns duration-stratified train/val/test splits, runs the
temporal leakage check, validates the result, and writes the versioned
dataset artifacts. The run is recorded in the version registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			ratios := splitting.Ratios{
				Train: cfg.Split.TrainRatio,
				Val:   cfg.Split.ValRatio,
				Test:  cfg.Split.TestRatio,
			}
			if cmd.Flags().Changed("train-ratio") {
				ratios.Train = trainRatio
			}
			if cmd.Flags().Changed("val-ratio") {
				ratios.Val = valRatio
			}
			if cmd.Flags().Changed("test-ratio") {
				ratios.Test = testRatio
			}

			edges := cfg.Dataset.DurationBinEdges
			if cmd.Flags().Changed("bins") {
				edges = binEdges
			}
			runSeed := cfg.Split.Seed
			if cmd.Flags().Changed("seed") {
				runSeed = seed
			}
			skip := cfg.Validation.SkipTemporalCheck || skipTemporal
			small := cfg.Validation.AllowSmallSplits || allowSmall

			// One run at a time per dataset root; output directories and the
			// registry must not interleave.
			lock := flock.New(filepath.Join(cfg.Paths.DatasetDir, ".corpus.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire dataset lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another corpus run holds the dataset lock at %s", cfg.Paths.DatasetDir)
			}
			defer func() { _ = lock.Unlock() }()

			store, err := versions.Open(cfg.RegistryPath())
			if err != nil {
				return fmt.Errorf("open version registry: %w", err)
			}
			defer store.Close()

			runTag := tag
			if runTag == "" {
				runTag, err = store.NextTag(cmd.Context())
				if err != nil {
					return fmt.Errorf("assign version tag: %w", err)
				}
			}

			now := time.Now()
			outputDir := filepath.Join(cfg.Paths.DatasetDir, runTag, now.Format(outputTimestampLayout))

			result, err := pipeline.Run(cmd.Context(), pipeline.Options{
				InventoryPath:     inventoryPath,
				OutputDir:         outputDir,
				Tag:               runTag,
				Seed:              runSeed,
				Ratios:            ratios,
				BinEdges:          edges,
				SessionGapMS:      cfg.Dataset.SessionGapMS,
				SkipTemporalCheck: skip,
				AllowSmallSplits:  small,
				FrozenPath:        frozenPath,
				Source:            cfg.Dataset.Source,
				RecordingDevice:   cfg.Dataset.RecordingDevice,
				HashWorkers:       cfg.Hashing.Workers,
				ShowProgress:      verbose,
				ToolVersion:       version,
			}, logger)
			if err != nil {
				return err
			}

			record := versions.Version{
				Tag:           runTag,
				RunID:         result.Summary.RunID,
				Seed:          runSeed,
				TrainCount:    int64(result.Summary.SplitCounts["train"]),
				ValCount:      int64(result.Summary.SplitCounts["val"]),
				TestCount:     int64(result.Summary.SplitCounts["test"]),
				ExcludedCount: int64(result.Summary.ExcludedCount),
				DurationSec:   totalDurationSec(result.Summary.SplitDurationsSec),
				OutputDir:     outputDir,
				CreatedAt:     now,
			}
			if err := store.Record(cmd.Context(), record); err != nil {
				return fmt.Errorf("record version: %w", err)
			}

			printRunSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "", "Path to the inventory CSV (required)")
	cmd.Flags().StringVar(&tag, "tag", "", "Dataset version tag (default: next free v<n>)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed recorded for provenance")
	cmd.Flags().Float64Var(&trainRatio, "train-ratio", 0.8, "Train split proportion")
	cmd.Flags().Float64Var(&valRatio, "val-ratio", 0.1, "Validation split proportion")
	cmd.Flags().Float64Var(&testRatio, "test-ratio", 0.1, "Test split proportion")
	cmd.Flags().Float64SliceVar(&binEdges, "bins", []float64{1, 3, 10, 30}, "Duration bin edges in seconds")
	cmd.Flags().StringVar(&frozenPath, "frozen", "", "Prior frozen test-set CSV whose pairs stay pinned to test")
	cmd.Flags().BoolVar(&skipTemporal, "skip-temporal-check", false, "Skip the temporal leakage check")
	cmd.Flags().BoolVar(&allowSmall, "allow-small-splits", false, "Downgrade minimum size/duration violations to warnings")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show hashing progress")
	_ = cmd.MarkFlagRequired("inventory")

	return cmd
}

func totalDurationSec(durations map[string]float64) float64 {
	total := 0.0
	for _, sec := range durations {
		total += sec
	}
	return total
}
