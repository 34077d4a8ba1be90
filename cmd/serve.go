package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/monitor"
	"github.com/fakeyudi/punchclock/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web API for browser front-ends",
	Long: `Serve hosts the HTTP API used by the browser page and keeps the
inactivity monitor running for the life of the process, so an abandoned task
is auto-closed even when nobody is watching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, fb, err := openLedger()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		m := &monitor.Monitor{
			Ledger:    l,
			Threshold: time.Duration(cfg.IdleThresholdSeconds) * time.Second,
			Poll:      time.Duration(cfg.PollIntervalSeconds) * time.Second,
			Logger:    diag,
		}
		go m.Run(ctx)

		diag.Printf("serving on %s", addr)
		return web.NewServer(l, fb.Degraded).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
