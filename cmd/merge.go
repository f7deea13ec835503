package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <summary.yaml> [more...]",
		Short: "Merge campaign summaries into a single report",
		Long: `Combine summaries from split campaigns (for example one per package) into
one report at the configured output file. Results are concatenated and the
counts recomputed; sampling metadata is taken from the first summary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := mergeSummaries(args)
			if err != nil {
				return err
			}

			target := m.Path(viper.GetString(outputFlagName))
			if err := reportStore.SaveSummary(target, merged); err != nil {
				return fmt.Errorf("saving merged summary: %w", err)
			}

			cmd.Printf("Merged %d summaries (%d results) into %s\n",
				len(args), len(merged.Results), target)

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func mergeSummaries(paths []string) (m.ResultsSummary, error) {
	var merged m.ResultsSummary

	for i, path := range paths {
		summary, err := reportStore.LoadSummary(m.Path(path))
		if err != nil {
			return m.ResultsSummary{}, fmt.Errorf("loading %s: %w", path, err)
		}

		if i == 0 {
			merged = summary
			continue
		}

		merged.Results = append(merged.Results, summary.Results...)
		merged.SampleSize += summary.SampleSize
		merged.PoolSize += summary.PoolSize
		merged.Elapsed += summary.Elapsed
	}

	counts := m.StatusCounts{}
	for _, result := range merged.Results {
		counts.Add(result.Status)
	}

	merged.Counts = counts

	return merged, nil
}
