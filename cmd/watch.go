package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/activity"
	"github.com/fakeyudi/punchclock/internal/monitor"
	"github.com/fakeyudi/punchclock/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard with auto-close and file-activity tracking",
	Long: `Watch opens a live dashboard showing the running task, its elapsed
time and the auto-close countdown. Keypresses and file changes in the current
directory count as activity; the inactivity monitor runs alongside and closes
an abandoned task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("watch needs an interactive terminal")
		}

		l, fb, err := openLedger()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		threshold := time.Duration(cfg.IdleThresholdSeconds) * time.Second
		m := &monitor.Monitor{
			Ledger:    l,
			Threshold: threshold,
			Poll:      time.Duration(cfg.PollIntervalSeconds) * time.Second,
		}
		go m.Run(ctx)

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		go activity.NewWatcher(cwd, l.Touch, nil).Run(ctx)

		return tui.Run(l, fb.Degraded, threshold)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
