package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"corpus/internal/temporal"
	"corpus/internal/validation"
)

// WriteReport renders the human-readable markdown report. It restates the
// summary facts; the summary JSON remains the machine contract.
func WriteReport(path string, summary Summary, vr validation.Result, balanceWarnings []string, frozenFile string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dataset %s Report\n\n", summary.DatasetVersion)

	b.WriteString("## 1. Overview\n\n")
	fmt.Fprintf(&b, "- **Dataset version:** %s\n", summary.DatasetVersion)
	fmt.Fprintf(&b, "- **Created:** %s\n", summary.CreatedTimestamp)
	fmt.Fprintf(&b, "- **Run ID:** %s\n", summary.RunID)
	fmt.Fprintf(&b, "- **Seed:** %d\n\n", summary.Seed)

	b.WriteString("## 2. Cleaning Summary\n\n")
	fmt.Fprintf(&b, "- **Input samples:** %d\n", summary.InputRows)
	excludedPct := 0.0
	if summary.InputRows > 0 {
		excludedPct = float64(summary.ExcludedCount) / float64(summary.InputRows) * 100
	}
	fmt.Fprintf(&b, "- **Excluded samples:** %d (%.1f%%)\n\n", summary.ExcludedCount, excludedPct)

	if len(summary.ExcludedBreakdown) > 0 {
		b.WriteString("| Exclusion Reason | Count |\n")
		b.WriteString("|-----------------|-------|\n")
		reasons := make([]string, 0, len(summary.ExcludedBreakdown))
		for reason := range summary.ExcludedBreakdown {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(&b, "| %s | %d |\n", reason, summary.ExcludedBreakdown[reason])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- **Final dataset size:** %d\n", summary.IncludedCount)
	totalHours := 0.0
	for _, hours := range summary.SplitDurationsHours {
		totalHours += hours
	}
	fmt.Fprintf(&b, "- **Total duration:** %.2f hours\n\n", totalHours)

	b.WriteString("## 3. Split Summary\n\n")
	b.WriteString("| Split | Count | Duration (hours) | Percentage |\n")
	b.WriteString("|-------|-------|------------------|------------|\n")
	for _, split := range []string{"train", "val", "test"} {
		count := summary.SplitCounts[split]
		pct := 0.0
		if summary.IncludedCount > 0 {
			pct = float64(count) / float64(summary.IncludedCount) * 100
		}
		fmt.Fprintf(&b, "| %s | %d | %.2f | %.1f%% |\n", split, count, summary.SplitDurationsHours[split], pct)
	}
	b.WriteString("\n")

	b.WriteString("## 4. Duration Distribution\n\n")
	if len(summary.SplitDurationDistributions) > 0 {
		binSet := make(map[string]struct{})
		for _, dist := range summary.SplitDurationDistributions {
			for bin := range dist {
				binSet[bin] = struct{}{}
			}
		}
		bins := make([]string, 0, len(binSet))
		for bin := range binSet {
			bins = append(bins, bin)
		}
		sort.Strings(bins)

		b.WriteString("| Duration Bin | Train | Val | Test |\n")
		b.WriteString("|--------------|-------|-----|------|\n")
		for _, bin := range bins {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n",
				bin,
				summary.SplitDurationDistributions["train"][bin],
				summary.SplitDurationDistributions["val"][bin],
				summary.SplitDurationDistributions["test"][bin])
		}
		b.WriteString("\n")
	}

	b.WriteString("## 5. Quality Checks\n\n")
	fmt.Fprintf(&b, "- **Duplicate audio with different transcripts:** %d\n", summary.DuplicateAudioCount)
	if summary.TemporalStatus == temporal.StatusCompleted && summary.TemporalCrossing != nil {
		fmt.Fprintf(&b, "- **Temporal session leakage:** %d clusters crossing splits\n", *summary.TemporalCrossing)
	} else {
		fmt.Fprintf(&b, "- **Temporal session leakage:** Check skipped (%s)\n", summary.TemporalStatus)
	}
	fmt.Fprintf(&b, "- **Minimum sample validation:** %s\n", passLabel(vr.SamplePassed))
	fmt.Fprintf(&b, "- **Minimum duration validation:** %s\n\n", passLabel(vr.DurationPassed))

	b.WriteString("## 6. Split Quality Assessment\n\n")
	if len(balanceWarnings) > 0 {
		b.WriteString("**Distribution balance warnings:**\n\n")
		for _, warning := range balanceWarnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Duration distributions are balanced across splits.\n\n")
	}
	if len(vr.Warnings) > 0 {
		b.WriteString("**Validation warnings:**\n\n")
		for _, warning := range vr.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	}
	if len(vr.Errors) > 0 {
		b.WriteString("**Validation errors:**\n\n")
		for _, err := range vr.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
		b.WriteString("\n")
	}
	if vr.Passed && len(balanceWarnings) == 0 {
		b.WriteString("**Recommendation:** READY FOR TRAINING\n\n")
	} else {
		b.WriteString("**Recommendation:** NEEDS REVIEW\n\n")
	}

	b.WriteString("## 7. Test Set Lock\n\n")
	fmt.Fprintf(&b, "- **Test set frozen:** `%s`\n", frozenFile)
	fmt.Fprintf(&b, "- **Test samples count:** %d\n\n", summary.SplitCounts["test"])
	b.WriteString("**Instructions for future dataset versions:**\n\n")
	fmt.Fprintf(&b, "1. Load `%s`\n", frozenFile)
	fmt.Fprintf(&b, "2. Preserve all %s test samples in the test split (match by `pair_sha256`)\n", summary.DatasetVersion)
	b.WriteString("3. MAY add new samples to test\n")
	fmt.Fprintf(&b, "4. MUST NOT move %s test samples to train/val\n\n", summary.DatasetVersion)

	b.WriteString("## 8. Next Steps\n\n")
	if vr.Passed {
		b.WriteString("- Proceed to audio preprocessing\n")
	} else {
		b.WriteString("- Review and address validation issues before proceeding\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
