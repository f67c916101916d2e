package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Swind/go-steal-pool/core"
	"github.com/Swind/go-steal-pool/internal/config"
	obs "github.com/Swind/go-steal-pool/observability/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:    "bench",
		Aliases: []string{"b"},
		Usage:   "Run a synthetic workload and report pool statistics",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON config file",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of workers (0 = GOMAXPROCS)",
			},
			&cli.IntFlag{
				Name:    "tasks",
				Aliases: []string{"n"},
				Usage:   "Number of tasks to submit",
			},
			&cli.DurationFlag{
				Name:  "task-duration",
				Usage: "How long each task sleeps",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the workload to finish",
			},
			&cli.DurationFlag{
				Name:  "clear-after",
				Usage: "Clear queued work this long after submission (0 = never)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :2112",
			},
		},

		Action: BenchAction,
	}
}

func BenchAction(c *cli.Context) error {
	// 1. Load config, flags override the file
	cfg, err := loadBenchConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	settings, err := cfg.BenchSettings()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	poolConfig, err := cfg.ToPoolConfig(logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// 2. Metrics
	reg := prom.NewRegistry()
	exporter, err := obs.NewMetricsExporter(cfg.Metrics.Namespace, reg, obs.ExporterOptions{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to register metrics: %v", err), 1)
	}
	poolConfig.Metrics = exporter

	pool := core.NewPoolWithConfig(poolConfig)
	defer pool.Close()

	if cfg.Metrics.Addr != "" {
		stop, err := serveMetrics(c.Context, cfg, reg, pool, logger)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to start metrics endpoint: %v", err), 1)
		}
		defer stop()
	}

	// 3. Run the workload
	start := time.Now()
	pool.Each(0, 1, settings.Tasks, func(int) {
		if settings.TaskDuration > 0 {
			time.Sleep(settings.TaskDuration)
		}
	})
	logger.Info("workload submitted", core.F("tasks", settings.Tasks), core.F("elapsed", time.Since(start)))

	discarded := 0
	if settings.ClearAfter > 0 {
		time.Sleep(settings.ClearAfter)
		discarded = pool.Clear()
	}

	finished := true
	if settings.Timeout > 0 {
		finished = pool.WaitFor(settings.Timeout)
	} else if err := pool.WaitContext(c.Context); err != nil {
		finished = false
	}
	elapsed := time.Since(start)

	// 4. Format output
	printStats(pool, elapsed, discarded)

	if !finished {
		return cli.Exit(fmt.Sprintf("workload did not finish: %d tasks unfinished", pool.Unfinished()), 2)
	}
	return nil
}

func loadBenchConfig(c *cli.Context) (*config.FileConfig, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("workers") {
		cfg.Pool.Workers = c.Int("workers")
	}
	if c.IsSet("tasks") {
		cfg.Bench.Tasks = c.Int("tasks")
	}
	if c.IsSet("task-duration") {
		cfg.Bench.TaskDuration = c.Duration("task-duration").String()
	}
	if c.IsSet("timeout") {
		cfg.Bench.Timeout = c.Duration("timeout").String()
	}
	if c.IsSet("clear-after") {
		cfg.Bench.ClearAfter = c.Duration("clear-after").String()
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serveMetrics(ctx context.Context, cfg *config.FileConfig, reg *prom.Registry, pool *core.Pool, logger core.Logger) (func(), error) {
	interval, err := cfg.PollInterval()
	if err != nil {
		return nil, err
	}
	poller, err := obs.NewSnapshotPoller(cfg.Metrics.Namespace, reg, interval)
	if err != nil {
		return nil, err
	}
	poller.AddPool(pool.ID(), pool)
	poller.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", core.F("addr", cfg.Metrics.Addr), core.F("error", err))
		}
	}()
	logger.Info("serving metrics", core.F("addr", cfg.Metrics.Addr))

	return func() {
		poller.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}, nil
}

func printStats(pool *core.Pool, elapsed time.Duration, discarded int) {
	stats := pool.Stats()
	fmt.Printf("pool %s: %d workers, %v elapsed\n", stats.ID, stats.Workers, elapsed.Round(time.Microsecond))
	fmt.Printf("  executed:   %d\n", stats.Executed)
	fmt.Printf("  stolen:     %d\n", stats.Stolen)
	fmt.Printf("  discarded:  %d\n", discarded)
	fmt.Printf("  rejected:   %d\n", stats.Rejected)
	fmt.Printf("  unfinished: %d\n", stats.Unfinished)
	for _, w := range pool.WorkerStats() {
		fmt.Printf("  worker %-3d executed=%d stolen=%d queued=%d\n", w.ID, w.Executed, w.Stolen, w.Queued)
	}
}
