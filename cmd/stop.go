package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/report"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running task",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger()
		if err != nil {
			return err
		}

		rec, err := l.Stop()
		if err != nil {
			return err
		}
		if rec == nil {
			cmd.Println("no active task")
			return nil
		}
		cmd.Printf("Stopped %q after %s.\n", rec.Name, report.FormatDuration(rec.DurationSeconds))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
