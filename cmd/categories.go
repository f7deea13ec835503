package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/EvanKepner/mutatest/internal/domain"
)

// categoriesCmd represents the categories command.
var categoriesCmd = newCategoriesCmd()

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List mutation categories and their operators",
		Long: `List the operator categories available for whitelisting and blacklisting,
with the two-letter code each filter flag accepts.`,
		Args: cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("\n%s", renderCategoryTable())
		},
	}
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func renderCategoryTable() string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Code", "Category", "Operators"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	categories := domain.Categories()
	for _, category := range categories {
		table.Append([]string{category.Code, category.Name, strings.Join(category.Members, " ")})
	}

	table.SetFooter([]string{fmt.Sprintf("%d", len(categories)), "categories", ""})
	table.Render()

	return tableBuffer.String()
}
