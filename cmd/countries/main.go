package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"countries_fetcher/internal/config"
	"countries_fetcher/internal/connectivity"
	"countries_fetcher/internal/domain"
	"countries_fetcher/internal/format"
	"countries_fetcher/internal/publisher"
	"countries_fetcher/internal/report"
	"countries_fetcher/internal/scheduler"
	"countries_fetcher/internal/service"
	"countries_fetcher/internal/source/restcountries"
	"countries_fetcher/internal/storage/sqlcache"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	continent := flag.String("continent", domain.AllContinents, "only list countries on this continent")
	country := flag.String("country", "", "print details for the named country")
	watch := flag.Bool("watch", false, "reload on the configured interval until interrupted")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	console := report.NewConsole(os.Stdout, logger)
	reporters := report.Multi{console}

	var cache service.CacheStore
	store, err := sqlcache.Open(ctx, sqlcache.Config{
		Driver: cfg.Cache.Driver,
		Dir:    cfg.Cache.Dir,
		File:   cfg.Cache.File,
		DSN:    cfg.Cache.DSN,
	})
	if err != nil {
		logger.Warn("local database unavailable, continuing without it", "error", err)
		fmt.Fprintf(os.Stdout, "Warning: local database unavailable: %v\n", err)
	} else {
		defer store.Close()
		cache = store
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Warn("load events disabled", "error", err)
		} else {
			defer rabbitMQ.Close()
			reporters = append(reporters, rabbitMQ)
		}
	}

	probe := connectivity.NewProbe(cfg.Probe.URL, cfg.Probe.Timeout, logger)

	source := restcountries.New(restcountries.Config{
		BaseURL: cfg.API.BaseURL,
		Path:    cfg.API.Path,
		Timeout: cfg.API.Timeout,
	}, logger)

	loadService := service.NewLoadService(
		probe,
		source,
		restcountries.Codec{},
		cache,
		reporters,
		logger,
	)

	out := &view{
		out:       os.Stdout,
		probe:     probe,
		continent: *continent,
		country:   *country,
	}

	if *watch {
		sched := scheduler.NewScheduler(loadService, cfg.Watch.Interval, logger,
			scheduler.WithResultHandler(func(result *domain.LoadResult) {
				if err := out.render(ctx, result); err != nil {
					logger.Warn("render failed", "error", err)
				}
			}),
		)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
		return
	}

	type loadOutcome struct {
		result *domain.LoadResult
		err    error
	}
	done := make(chan loadOutcome, 1)
	go func() {
		result, err := loadService.Load(ctx)
		done <- loadOutcome{result: result, err: err}
	}()

	outcome := <-done
	if outcome.err != nil {
		logger.Error("load failed", "error", outcome.err)
		os.Exit(1)
	}
	if outcome.result.Empty() {
		os.Exit(1)
	}

	if err := out.render(ctx, outcome.result); err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}
}

type view struct {
	out       io.Writer
	probe     service.Probe
	continent string
	country   string
}

func (v *view) render(ctx context.Context, result *domain.LoadResult) error {
	if v.country != "" {
		c, ok := domain.FindByName(result.Countries, v.country)
		if !ok {
			return fmt.Errorf("country %q not found", v.country)
		}

		// probed per selection since flag and map are remote
		if !v.probe.Online(ctx) {
			fmt.Fprintln(v.out, "No Internet connection! Flag image and map are unavailable.")
		}
		fmt.Fprintln(v.out, format.Details(c, time.Now()))
		return nil
	}

	filtered := domain.FilterByContinent(result.Countries, v.continent)
	fmt.Fprintf(v.out, "\n%d %s (%s)\n", len(filtered),
		strings.ToLower(format.Pluralize("Country", len(filtered))), v.continent)
	for _, c := range filtered {
		fmt.Fprintln(v.out, format.Name(c))
	}
	fmt.Fprintf(v.out, "\nContinents: %s\n", strings.Join(domain.Continents(result.Countries), ", "))
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
