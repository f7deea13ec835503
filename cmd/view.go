package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EvanKepner/mutatest/internal/controller"
	m "github.com/EvanKepner/mutatest/internal/model"
)

var viewDiffsFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [summary.yaml]",
		Short: "View a previously saved campaign summary",
		Long: `Render a saved YAML campaign summary. Defaults to the configured output
file when no path is given. Diffs require the mutated sources to be
unchanged since the campaign.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := m.Path(viper.GetString(outputFlagName))
			if len(args) == 1 {
				path = m.Path(args[0])
			}

			summary, err := reportStore.LoadSummary(path)
			if err != nil {
				return err
			}

			ctx := context.Background()

			var options []controller.StartOption
			if viewDiffsFlag {
				options = append(options, controller.WithDiffs())
			}

			if err := ui.Start(ctx, options...); err != nil {
				return err
			}

			defer ui.Close(ctx)

			if err := ui.DisplaySummary(ctx, summary); err != nil {
				return err
			}

			ui.Wait(ctx)

			return nil
		},
	}

	cmd.Flags().BoolVar(&viewDiffsFlag, "diffs", false, "show unified diffs for surviving mutants")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
