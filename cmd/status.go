package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running task and storage mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, fb, err := openLedger()
		if err != nil {
			return err
		}

		running := l.Current()
		if running == nil {
			cmd.Println("no active task")
		} else {
			rec := running.Record
			cmd.Printf("Task: %s\n", rec.Name)
			cmd.Printf("Category: %s\n", rec.Category)
			cmd.Printf("Started: %s\n", rec.StartTime.Format(store.TimeLayout))
			cmd.Printf("Elapsed: %s\n", time.Since(rec.StartTime).Round(time.Second).String())
		}
		cmd.Printf("Completed tasks: %d\n", len(l.Completed()))
		if fb.Degraded() {
			cmd.Println("Storage: local only (remote unavailable or not configured)")
		} else {
			cmd.Println("Storage: remote + local fallback")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
