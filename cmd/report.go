package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/report"
	"github.com/fakeyudi/punchclock/internal/store"
	"github.com/fakeyudi/punchclock/internal/task"
)

var (
	reportCategory string
	reportFrom     string
	reportTo       string
	reportLimit    int
	reportSummary  bool
	reportJSON     bool
)

// dateLayout is the accepted format for --from and --to.
const dateLayout = "2006-01-02"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List completed tasks, filtered by category and date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := report.Filter{Limit: reportLimit}
		if reportCategory != "" {
			f.Category = task.ParseCategory(reportCategory)
		}
		if reportFrom != "" {
			from, err := time.ParseInLocation(dateLayout, reportFrom, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", reportFrom)
			}
			f.From = from
		}
		if reportTo != "" {
			to, err := time.ParseInLocation(dateLayout, reportTo, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", reportTo)
			}
			// Inclusive: cover the whole end day.
			f.To = to.Add(24*time.Hour - time.Second)
		}

		l, _, err := openLedger()
		if err != nil {
			return err
		}
		recs := f.Apply(l.Completed())

		if reportSummary {
			summaries := report.Summarize(recs)
			if reportJSON {
				return printJSON(cmd, summaries)
			}
			cmd.Printf("%-10s %6s %12s\n", "CATEGORY", "TASKS", "TOTAL")
			for _, s := range summaries {
				cmd.Printf("%-10s %6d %12s\n", s.Category, s.Count, report.FormatDuration(s.TotalSeconds))
			}
			return nil
		}

		if reportJSON {
			return printJSON(cmd, recs)
		}
		if len(recs) == 0 {
			cmd.Println("no completed tasks")
			return nil
		}
		cmd.Printf("%-19s  %-19s  %10s  %-10s  %s\n", "START", "END", "DURATION", "CATEGORY", "TASK")
		for _, r := range recs {
			end := ""
			if r.EndTime != nil {
				end = r.EndTime.Format(store.TimeLayout)
			}
			cmd.Printf("%-19s  %-19s  %10s  %-10s  %s\n",
				r.StartTime.Format(store.TimeLayout), end,
				report.FormatDuration(r.DurationSeconds), r.Category, r.Name)
		}
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportCategory, "category", "c", "", "only tasks in this category")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "only tasks started on or after this date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "only tasks started on or before this date (YYYY-MM-DD)")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "show at most the N most recent tasks")
	reportCmd.Flags().BoolVar(&reportSummary, "summary", false, "aggregate totals per category")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "JSON output")
	rootCmd.AddCommand(reportCmd)
}
