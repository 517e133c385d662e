package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"corpus/internal/pipeline"
	"corpus/internal/temporal"
)

func printRunSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	summary := result.Summary

	fmt.Fprintf(out, "Dataset %s created\n", summary.DatasetVersion)
	fmt.Fprintf(out, "Input samples: %d, excluded: %d, included: %d\n",
		summary.InputRows, summary.ExcludedCount, summary.IncludedCount)

	rows := make([][]string, 0, 3)
	for _, split := range []string{"train", "val", "test"} {
		rows = append(rows, []string{
			split,
			strconv.Itoa(summary.SplitCounts[split]),
			fmt.Sprintf("%.2f", summary.SplitDurationsHours[split]),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Split", "Samples", "Hours"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	switch summary.TemporalStatus {
	case temporal.StatusCompleted:
		fmt.Fprintf(out, "Temporal check: %d of %d sessions cross train/test\n",
			*summary.TemporalCrossing, *summary.TemporalTotalClusters)
	default:
		fmt.Fprintf(out, "Temporal check: skipped (%s)\n", summary.TemporalStatus)
	}

	if len(summary.Warnings) > 0 {
		fmt.Fprintf(out, "Warnings: %d (see report)\n", len(summary.Warnings))
	}
	fmt.Fprintf(out, "Outputs written to %s\n", result.OutputDir)
}
