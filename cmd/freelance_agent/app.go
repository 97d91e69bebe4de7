package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/api"
	"github.com/jonathan/freelance-agent/internal/config"
	"github.com/jonathan/freelance-agent/internal/gateway"
	"github.com/jonathan/freelance-agent/internal/observability"
	"github.com/jonathan/freelance-agent/internal/session"
	"github.com/jonathan/freelance-agent/internal/types"
)

var errNotLoggedIn = errors.New("not logged in; run `freelance_agent login` first")

var (
	configPath     string
	apiURL         string
	sessionBackend string
	sessionFile    string
	logLevel       string
	logFormat      string
	requestTimeout time.Duration
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON config file")
	flags.StringVar(&apiURL, "api-url", "", "Backend API root (overrides "+config.EnvAPIURL+")")
	flags.StringVar(&sessionBackend, "session-backend", "", "Session storage: file, redis or memory")
	flags.StringVar(&sessionFile, "session-file", "", "Session file for the file backend")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	flags.DurationVar(&requestTimeout, "timeout", 0, "Per-request timeout")
}

// app holds everything a command needs. It is built before every command runs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *session.Store
	client   *api.Client
	registry *prometheus.Registry
	out      io.Writer
	printer  *observability.Printer

	closeStorage   func() error
	shutdownTracer func(context.Context) error
}

var current *app

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	flagOverrides := config.Config{
		APIURL:         apiURL,
		SessionBackend: sessionBackend,
		SessionFile:    sessionFile,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		Timeout:        config.Duration{Duration: requestTimeout},
	}
	cfg = flagOverrides.MergeWithDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx := cmd.Context()
	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		_ = shutdownTracer(ctx)
		return err
	}
	store := session.NewStore(storage, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gw, err := gateway.New(cfg.APIURL, store, &gateway.Options{
		Timeout:   cfg.Timeout.Duration,
		UserAgent: gateway.DefaultUserAgent,
		Logger:    logger,
		Metrics:   gateway.NewMetrics(registry),
	})
	if err != nil {
		_ = closeStorage()
		_ = shutdownTracer(ctx)
		return err
	}

	out := cmd.OutOrStdout()
	current = &app{
		cfg:            cfg,
		logger:         logger,
		store:          store,
		client:         api.New(gw, store),
		registry:       registry,
		out:            out,
		printer:        observability.NewPrinter(out),
		closeStorage:   closeStorage,
		shutdownTracer: shutdownTracer,
	}
	return nil
}

func teardownApp(cmd *cobra.Command, _ []string) error {
	return closeApp(cmd.Context())
}

// closeApp releases the session storage and flushes traces. Cobra skips post-run hooks
// when a command fails, so main calls it too; it is idempotent.
func closeApp(ctx context.Context) error {
	if current == nil {
		return nil
	}
	a := current
	current = nil

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return errors.Join(a.closeStorage(), a.shutdownTracer(ctx))
}

func openStorage(ctx context.Context, cfg config.Config) (session.Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryStorage(), noop, nil
	case config.BackendRedis:
		rs, err := session.OpenRedisStorage(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis session storage: %w", err)
		}
		return rs, rs.Close, nil
	default:
		return session.NewFileStorage(cfg.SessionFile), noop, nil
	}
}

// requireUser returns the signed-in user or errNotLoggedIn.
func (a *app) requireUser() (*types.User, error) {
	sess, ok := a.store.Current()
	if !ok {
		return nil, errNotLoggedIn
	}
	return sess.User, nil
}
