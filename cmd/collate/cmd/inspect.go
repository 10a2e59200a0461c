package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tabforge/collate/internal/cmd/output"
	"github.com/tabforge/collate/internal/xlsx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the column schema of one submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	rec, err := xlsx.ReadFile(args[0])
	if err != nil {
		return err
	}

	type column struct {
		Index    int    `json:"index"`
		Section  string `json:"section"`
		Category string `json:"category"`
		Name     string `json:"name"`
	}
	columns := make([]column, 0, len(rec.Columns()))
	for i, label := range rec.Columns() {
		columns = append(columns, column{
			Index:    i,
			Section:  label.Section,
			Category: label.Category,
			Name:     label.Name,
		})
	}

	formatter := output.NewFormatter(output.Format(globalFlags.Output))
	return formatter.Format(os.Stdout, columns)
}
