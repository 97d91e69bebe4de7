// Package scheduler wires up the cron job that periodically asks the backend to search
// for new jobs for the signed-in user.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/freelance-agent/internal/dashboard"
	"github.com/jonathan/freelance-agent/internal/gateway"
)

// DefaultSpec is the refresh interval used when none is configured.
const DefaultSpec = "@every 30m"

// ErrStopped is reported by Err after Stop was called.
var ErrStopped = errors.New("scheduler stopped")

// Searcher triggers a job search. *dashboard.Controller satisfies it.
type Searcher interface {
	SearchJobs(ctx context.Context) (dashboard.SearchSummary, error)
}

// Scheduler wraps robfig/cron and manages the search loop.
type Scheduler struct {
	cron     *cron.Cron
	searcher Searcher
	spec     string
	logger   *slog.Logger
	onResult func(dashboard.SearchSummary, error)

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}
	mu       sync.Mutex
	err      error
}

// New creates a Scheduler that runs spec (a cron expression or descriptor such as
// "@every 30m"). An empty spec uses DefaultSpec.
func New(searcher Searcher, spec string, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		searcher: searcher,
		spec:     spec,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// OnResult registers fn to receive every search outcome. Call before Start.
func (s *Scheduler) OnResult(fn func(dashboard.SearchSummary, error)) {
	s.onResult = fn
}

// Spec returns the cron spec in use.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Start registers the job and starts the scheduler. It also runs one search immediately
// so results show up without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSearch(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSearch(ctx)
	}()

	return nil
}

// Stop shuts down the scheduler and waits for running searches. It is idempotent.
func (s *Scheduler) Stop() {
	s.stop(ErrStopped)
	s.wg.Wait()
}

// Done is closed once the scheduler has stopped, either through Stop or because the
// session was rejected.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err reports why the scheduler stopped, or nil while it is running.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Scheduler) stop(reason error) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.err = reason
		s.mu.Unlock()

		<-s.cron.Stop().Done()
		close(s.done)
		s.logger.Info("scheduler stopped", slog.Any("reason", reason))
	})
}

// runSearch triggers one search. A rejected session stops the scheduler since every
// later run would fail the same way.
func (s *Scheduler) runSearch(ctx context.Context) {
	select {
	case <-s.done:
		return
	default:
	}

	s.logger.Debug("scheduled job search started")
	summary, err := s.searcher.SearchJobs(ctx)
	if s.onResult != nil {
		s.onResult(summary, err)
	}

	switch {
	case err == nil:
		s.logger.Info("scheduled job search complete",
			slog.Int("returned", summary.Returned),
			slog.Int("high_match", summary.HighMatch),
			slog.Int("total_found", summary.TotalFound),
		)
	case gateway.IsAuthRequired(err):
		s.logger.Warn("session rejected; stopping scheduler", slog.Any("error", err))
		// stop waits for running jobs, including this one.
		go s.stop(err)
	default:
		s.logger.Error("scheduled job search failed", slog.Any("error", err))
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
