package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"corpus/internal/versions"
)

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List recorded dataset versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := versions.Open(cfg.RegistryPath())
			if err != nil {
				return fmt.Errorf("open version registry: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No dataset versions recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, v := range entries {
				rows = append(rows, []string{
					v.Tag,
					v.CreatedAt.Local().Format(time.DateTime),
					strconv.FormatInt(v.TrainCount, 10),
					strconv.FormatInt(v.ValCount, 10),
					strconv.FormatInt(v.TestCount, 10),
					strconv.FormatInt(v.ExcludedCount, 10),
					fmt.Sprintf("%.2f", v.DurationSec/3600),
					v.OutputDir,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tag", "Created", "Train", "Val", "Test", "Excluded", "Hours", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
