package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EvanKepner/mutatest/internal/domain"
	m "github.com/EvanKepner/mutatest/internal/model"
)

var listWhitelistFlag []string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and mutation target counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := buildListGroup(parsePaths(args), viper.GetStringSlice(excludeConfigKey))
			if err != nil {
				return err
			}

			if err := group.SetFilterCodes(viper.GetStringSlice(whitelistKey)); err != nil {
				return err
			}

			group.SetSkipLiterals(viper.GetBool(skipLiteralsKey))

			targets, err := group.Targets()
			if err != nil {
				return err
			}

			cmd.Printf("\n%s", renderTargetTable(group.Paths(), targets))

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listWhitelistFlag, "whitelist", "w", viper.GetStringSlice(whitelistKey), "only count these category codes")
	bindFlagToConfig(cmd.Flags().Lookup("whitelist"), whitelistKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func buildListGroup(paths []m.Path, exclude []string) (*domain.GenomeGroup, error) {
	group := domain.NewGenomeGroup(goFileAdapter, fsAdapter)

	for _, path := range paths {
		info, err := fsAdapter.FileInfo(path)
		if err != nil {
			return nil, fmt.Errorf("source path %s: %w", path, err)
		}

		if info.IsDir() {
			err = group.AddFolder(path, exclude)
		} else {
			err = group.AddFile(path)
		}

		if err != nil {
			return nil, err
		}
	}

	if group.Len() == 0 {
		return nil, fmt.Errorf("no mutable Go source files under %v", paths)
	}

	return group, nil
}

func renderTargetTable(paths []m.Path, targets []m.GroupTarget) string {
	counts := make(map[m.Path]int)
	for _, gt := range targets {
		counts[gt.SourcePath]++
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Targets"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, path := range paths {
		table.Append([]string{string(path), fmt.Sprintf("%d", counts[path])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(paths)),
		fmt.Sprintf("%d", len(targets)),
	})

	table.Render()

	return tableBuffer.String()
}
