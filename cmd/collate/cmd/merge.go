package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tabforge/collate/internal/cmd/output"
	"github.com/tabforge/collate/internal/xlsx"
	"github.com/tabforge/collate/pkg/consolidate"
	"github.com/tabforge/collate/pkg/logging"
	"github.com/tabforge/collate/pkg/table"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Consolidate submissions into one classified workbook",
	Long: `Merge ingests the given .xlsx submissions, verifies they share one
column schema, groups rows by the configured business key, and writes a
workbook with Unique, Same Author, and Cross Author sheets. Rows in
cross-author groups carry a conflict narrative naming each disagreeing
column value and its submitters.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	addProfileFlags(mergeCmd)
	mergeCmd.Flags().StringP("out", "O", "consolidated.xlsx", "Output workbook path")
	mergeCmd.Flags().Bool("groups", false, "Also print per-group outcomes")
}

func runMerge(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx := logging.WithBatchID(cmd.Context(), time.Now().UTC().Format("20060102T150405Z"))
	log := logging.FromContext(ctx)

	records := make([]*table.Record, 0, len(args))
	for _, path := range args {
		rec, err := xlsx.ReadFile(path)
		if err != nil {
			return err
		}
		log.Debug().Str("file", rec.Source).Int("rows", rec.Len()).Msg("Ingested submission")
		records = append(records, rec)
	}

	consolidator, err := consolidate.New(opts)
	if err != nil {
		return err
	}
	result, err := consolidator.Consolidate(ctx, records)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := xlsx.WriteResult(outPath, result, nil); err != nil {
		return err
	}
	log.Info().Str("file", outPath).Msg("Wrote classified workbook")

	formatter := output.NewFormatter(output.Format(globalFlags.Output))
	if err := formatter.Format(os.Stdout, result.Summary); err != nil {
		return err
	}
	if showGroups, _ := cmd.Flags().GetBool("groups"); showGroups {
		return formatter.Format(os.Stdout, groupRows(result))
	}
	return nil
}

// groupRows flattens per-group outcomes for display.
func groupRows(result *consolidate.Result) []groupRow {
	rows := make([]groupRow, 0, len(result.Groups))
	for _, g := range result.Groups {
		key := make([]string, len(g.Values))
		for i, v := range g.Values {
			if table.IsNull(v) {
				key[i] = "(null)"
				continue
			}
			key[i] = table.FormatValue(v)
		}
		rows = append(rows, groupRow{
			Key:     fmt.Sprintf("%v", key),
			Rows:    g.Size,
			Outcome: g.Outcome.String(),
		})
	}
	return rows
}

type groupRow struct {
	Key     string `json:"key"`
	Rows    int    `json:"rows"`
	Outcome string `json:"outcome"`
}
