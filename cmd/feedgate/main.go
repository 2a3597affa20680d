package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedgate/pkg/admission"
	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/config"
	"github.com/umputun/feedgate/pkg/content"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/feed"
	"github.com/umputun/feedgate/pkg/llm"
	"github.com/umputun/feedgate/pkg/metrics"
	"github.com/umputun/feedgate/pkg/quota"
	"github.com/umputun/feedgate/pkg/repository"
	"github.com/umputun/feedgate/pkg/scheduler"
	"github.com/umputun/feedgate/pkg/worker"
	"github.com/umputun/feedgate/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen  string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	Workers int    `short:"w" long:"workers" env:"WORKERS" description:"number of queue workers, overrides config"`
	DBPath  string `long:"db" env:"DB_PATH" description:"database DSN, overrides config"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug)
	log.Printf("[INFO] starting feedgate version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

// run loads the configuration, wires all components and blocks until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)
	setupLog(opts.Debug, cfg.LLM.APIKey, cfg.Server.Token)

	clk := clock.Real{}
	met := metrics.New().WithRuntime()

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		Clock:           clk,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.DB.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	guard := quota.New(quota.Params{
		Store:             repos.Quota,
		Notifier:          logNotifier{},
		Clock:             clk,
		Metrics:           met,
		OutcomeWindow:     cfg.Quota.OutcomeWindow,
		MinOutcomeSamples: cfg.Quota.MinOutcomeSamples,
	})
	if err := guard.Load(ctx); err != nil {
		return fmt.Errorf("failed to load quotas: %w", err)
	}

	controller, err := admission.New(admission.Params{
		Guard:    guard,
		Queue:    repos.Job,
		Settings: repos.Setting,
		Metrics:  met,
		DefaultPolicy: domain.RolloutPolicy{
			Mode:       domain.RolloutMode(cfg.Admission.Mode),
			Percentage: cfg.Admission.Percentage,
			Shadow:     cfg.Admission.Shadow,
		},
		MaxItemsPerJob: cfg.Admission.MaxItemsPerJob,
	})
	if err != nil {
		return fmt.Errorf("failed to create admission controller: %w", err)
	}
	if err := controller.Load(ctx); err != nil {
		return fmt.Errorf("failed to load admission policy: %w", err)
	}

	sched := scheduler.NewScheduler(scheduler.Params{
		FeedStore:      repos.Feed,
		Fetcher:        feed.NewFetcher(repos.Feed, repos.Item, feed.NewParser(cfg.Schedule.FetchTimeout, cfg.Schedule.UserAgent)),
		Admitter:       controller,
		Clock:          clk,
		Metrics:        met,
		TickInterval:   cfg.Schedule.TickInterval,
		Tolerance:      cfg.Schedule.Tolerance,
		InterFeedDelay: cfg.Schedule.InterFeedDelay,
	})

	pool := worker.NewPool(cfg.Worker.Count, worker.Params{
		Store:        repos.Job,
		Loader:       newLoader(cfg, repos.Item),
		Executor:     llm.NewSummarizer(cfg.LLM, clk),
		Estimator:    llm.NewEstimator(cfg.LLM),
		Quota:        guard,
		Clock:        clk,
		Metrics:      met,
		BatchSize:    cfg.Worker.BatchSize,
		IdleInterval: cfg.Worker.IdleInterval,
		CostCeiling:  cfg.Worker.CostCeiling,
		RetryCeiling: cfg.Worker.RetryCeiling,
		DrainTimeout: cfg.Worker.DrainTimeout,
	})

	reaper, err := worker.NewReaper(worker.ReaperParams{
		Store:      repos.Job,
		Metrics:    met,
		Schedule:   cfg.Worker.ReapSchedule,
		StaleAfter: cfg.Worker.StaleAfter,
	})
	if err != nil {
		return fmt.Errorf("failed to create reaper: %w", err)
	}

	srv := server.New(server.Params{
		Listen:          cfg.Server.Listen,
		Timeout:         cfg.Server.Timeout,
		Token:           cfg.Server.Token,
		BaseURL:         cfg.Server.BaseURL,
		DefaultInterval: cfg.Schedule.DefaultInterval,
		Version:         revision,
		Debug:           opts.Debug,
		Feeds:           repos.Feed,
		Scheduler:       sched,
		Quota:           guard,
		Jobs:            repos.Job,
		Admission:       controller,
		Metrics:         met,
		Clock:           clk,
	})

	// jobs left processing by a previous run are returned before workers start claiming
	if _, err := reaper.ReapOnce(ctx); err != nil {
		log.Printf("[WARN] initial reap failed: %v", err)
	}

	sched.Start(ctx)
	reaper.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return pool.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sched.Stop()
		reaper.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("feedgate stopped: %w", err)
	}
	return nil
}

// newLoader makes the job resource loader, with article extraction when enabled
func newLoader(cfg *config.Config, items content.ItemGetter) *content.Loader {
	params := content.LoaderParams{Items: items}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent, cfg.Extraction.MinTextLength)
		params.MaxConcurrent = cfg.Extraction.MaxConcurrent
		params.RateLimit = cfg.Extraction.RateLimit
	}
	return content.NewLoader(params)
}

// applyOverrides lets CLI flags take precedence over the config file
func applyOverrides(cfg *config.Config, opts Opts) {
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.Workers > 0 {
		cfg.Worker.Count = opts.Workers
	}
	if opts.DBPath != "" {
		cfg.Database.DSN = opts.DBPath
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
