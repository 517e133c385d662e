package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"corpus/internal/manifest"
)

func newVerifyCommand() *cobra.Command {
	var manifestPath string
	var frozenPath string

	cmd := &cobra.Command{
		Use:         "verify",
		Short:       "Verify a manifest against a frozen test set",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Long: `Verify checks the frozen test-set contract: every pair hash in the frozen
file must still be present in the manifest and assigned to the test split.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			violations, err := manifest.VerifyFrozen(manifestPath, frozenPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(violations) == 0 {
				fmt.Fprintln(out, "Frozen test set preserved")
				return nil
			}
			for _, violation := range violations {
				fmt.Fprintln(out, violation)
			}
			return fmt.Errorf("frozen test set violated: %d pair(s)", len(violations))
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest CSV to check (required)")
	cmd.Flags().StringVar(&frozenPath, "frozen", "", "Frozen test-set CSV (required)")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("frozen")

	return cmd
}
