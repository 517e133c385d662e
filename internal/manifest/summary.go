package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"corpus/internal/dataset"
	"corpus/internal/temporal"
	"corpus/internal/validation"
)

// Summary is the aggregate view of a run, written as JSON and rendered into
// the markdown report. Field names are part of the output contract.
type Summary struct {
	InputRows         int            `json:"input_manifest_rows"`
	ExcludedCount     int            `json:"excluded_count"`
	ExcludedBreakdown map[string]int `json:"excluded_breakdown"`
	IncludedCount     int            `json:"included_count"`

	SplitCounts                map[string]int            `json:"split_counts"`
	SplitDurationsSec          map[string]float64        `json:"split_durations_sec"`
	SplitDurationsHours        map[string]float64        `json:"split_durations_hours"`
	SplitDurationDistributions map[string]map[string]int `json:"split_duration_distributions"`

	DuplicateAudioCount   int     `json:"duplicate_audio_different_transcript_count"`
	TemporalCrossing      *int    `json:"temporal_clusters_crossing_splits"`
	TemporalTotalClusters *int    `json:"temporal_total_clusters"`
	TemporalStatus        string  `json:"temporal_check_status"`
	TimestampCoveragePct  float64 `json:"timestamp_coverage_pct"`

	SampleValidationPassed   bool     `json:"min_sample_validation_passed"`
	DurationValidationPassed bool     `json:"min_duration_validation_passed"`
	Warnings                 []string `json:"split_quality_warnings"`

	DatasetVersion   string             `json:"dataset_version"`
	CreatedTimestamp string             `json:"created_timestamp"`
	RunID            string             `json:"run_id"`
	Seed             int64              `json:"seed"`
	SplitRatios      map[string]float64 `json:"split_ratios"`
	DurationBinEdges []float64          `json:"duration_bin_edges"`
	ToolVersions     map[string]string  `json:"tool_versions"`
}

// Provenance captures the run identity recorded in the summary.
type Provenance struct {
	Tag         string
	RunID       string
	Seed        int64
	TrainRatio  float64
	ValRatio    float64
	TestRatio   float64
	BinEdges    []float64
	ToolVersion string
}

// BuildSummary assembles the summary from the pipeline's final state.
func BuildSummary(included []dataset.Sample, excluded []dataset.Excluded, tr temporal.Report, vr validation.Result, prov Provenance, now time.Time) Summary {
	breakdown := make(map[string]int)
	for _, e := range excluded {
		breakdown[string(e.Reason)]++
	}

	counts := make(map[string]int)
	durationsSec := make(map[string]float64)
	durationsHours := make(map[string]float64)
	distributions := make(map[string]map[string]int)
	duplicates := 0
	for _, split := range dataset.Splits {
		counts[string(split)] = 0
		durationsSec[string(split)] = 0
		durationsHours[string(split)] = 0
	}
	for _, s := range included {
		split := string(s.Split)
		counts[split]++
		if s.DurationSec != nil {
			durationsSec[split] += *s.DurationSec
		}
		if distributions[split] == nil {
			distributions[split] = make(map[string]int)
		}
		distributions[split][s.Bin.Label()]++
		if s.DuplicateAudio {
			duplicates++
		}
	}
	for split, sec := range durationsSec {
		durationsHours[split] = sec / 3600
	}

	warnings := vr.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return Summary{
		InputRows:         len(included) + len(excluded),
		ExcludedCount:     len(excluded),
		ExcludedBreakdown: breakdown,
		IncludedCount:     len(included),

		SplitCounts:                counts,
		SplitDurationsSec:          durationsSec,
		SplitDurationsHours:        durationsHours,
		SplitDurationDistributions: distributions,

		DuplicateAudioCount:   duplicates,
		TemporalCrossing:      tr.CrossingClusters,
		TemporalTotalClusters: tr.TotalClusters,
		TemporalStatus:        tr.Status,
		TimestampCoveragePct:  tr.CoveragePct,

		SampleValidationPassed:   vr.SamplePassed,
		DurationValidationPassed: vr.DurationPassed,
		Warnings:                 warnings,

		DatasetVersion:   prov.Tag,
		CreatedTimestamp: now.Format(time.RFC3339),
		RunID:            prov.RunID,
		Seed:             prov.Seed,
		SplitRatios: map[string]float64{
			"train": prov.TrainRatio,
			"val":   prov.ValRatio,
			"test":  prov.TestRatio,
		},
		DurationBinEdges: prov.BinEdges,
		ToolVersions: map[string]string{
			"go":     runtime.Version(),
			"corpus": prov.ToolVersion,
		},
	}
}

// WriteSummary writes the summary JSON with stable indentation.
func WriteSummary(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
