package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/quicktask"
	"github.com/fakeyudi/punchclock/internal/report"
	"github.com/fakeyudi/punchclock/internal/task"
)

var startCategory string

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start tracking a task, switching away from any running one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		cat := task.ParseCategory(startCategory)
		if startCategory == "" {
			// No explicit category: a saved quick task with this name
			// supplies its preset.
			if qt, err := quicktask.Find(name); err == nil && qt != nil {
				cat = qt.Category
			}
		}

		l, _, err := openLedger()
		if err != nil {
			return err
		}

		started, closed, err := l.Start(name, cat)
		if err != nil {
			return err
		}
		if closed != nil {
			cmd.Printf("Stopped %q after %s.\n", closed.Name, report.FormatDuration(closed.DurationSeconds))
		}
		cmd.Printf("Started %q (%s).\n", started.Name, started.Category)
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&startCategory, "category", "c", "", "task category: Work, Personal, Learning or Other")
	rootCmd.AddCommand(startCmd)
}
