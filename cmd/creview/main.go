package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"creview/internal/app"
	"creview/internal/config"
	"creview/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./creview.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit even when watch mode is configured")
	trends     = flag.Bool("trends", false, "Print the historical trend report and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("creview v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./creview.toml" || !os.IsNotExist(err) {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		// No config file is fine for a quick one-shot run.
		cfg = config.Default()
	}

	if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}

	ctx := context.Background()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			slog.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Warn("shutdown failed", "error", err)
		}
	}()

	if *trends {
		report, err := application.TrendReport(time.Time{}, 24*time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		printTrendReport(report)
		os.Exit(0)
	}

	if cfg.Metrics.Addr != "" {
		server := observability.NewServer(cfg.Metrics.Addr, application)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	analysis, err := application.Refresh(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	application.PrintSummary(analysis)

	if *once || !cfg.Watch.Enabled {
		return
	}

	if err := application.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	slog.Info("watching for changes", "root", cfg.Root, "debounce", cfg.Watch.Debounce)

	select {}
}
