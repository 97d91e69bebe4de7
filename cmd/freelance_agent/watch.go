package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/dashboard"
	"github.com/jonathan/freelance-agent/internal/scheduler"
	"github.com/jonathan/freelance-agent/internal/server"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Search for jobs on a schedule",
	Long: "Run a job search immediately and then on a cron schedule until interrupted. " +
		"Stops with an error when the backend rejects the session.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchSchedule    string
	watchMetricsAddr string
)

func init() {
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "Cron spec for searches (default from config, \"@every 30m\")")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	spec := watchSchedule
	if spec == "" {
		spec = a.cfg.WatchSchedule
	}
	metricsAddr := watchMetricsAddr
	if metricsAddr == "" {
		metricsAddr = a.cfg.MetricsAddr
	}

	ctrl := newController()
	if err := ctrl.Use(user.ID); err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		lastRun  time.Time
		lastText string
	)
	sched := scheduler.New(ctrl, spec, a.logger)
	sched.OnResult(func(summary dashboard.SearchSummary, err error) {
		mu.Lock()
		lastRun = time.Now()
		if err != nil {
			lastText = err.Error()
		} else {
			lastText = summary.String()
		}
		mu.Unlock()

		if err != nil {
			a.logger.Warn("scheduled job search failed", slog.Any("error", err))
			return
		}
		a.printer.PrintSearchSummary(summary)
		a.printer.PrintJobs(ctrl.Snapshot().Jobs.Data)
	})

	if metricsAddr != "" {
		srv, err := server.New(server.Config{
			Addr:     metricsAddr,
			Gatherer: a.registry,
			Logger:   a.logger,
			Status: func() map[string]string {
				mu.Lock()
				defer mu.Unlock()
				status := map[string]string{"schedule": sched.Spec()}
				if !lastRun.IsZero() {
					status["last_search_at"] = lastRun.Format(time.RFC3339)
					status["last_search"] = lastText
				}
				return status
			},
		})
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	a.printer.PrintMessage("Watching for jobs (%s). Press Ctrl+C to stop.", sched.Spec())
	ctx := cmd.Context()
	if err := sched.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		sched.Stop()
		return nil
	case <-sched.Done():
		sched.Stop()
		if err := sched.Err(); err != nil && !errors.Is(err, scheduler.ErrStopped) {
			return err
		}
		return nil
	}
}
