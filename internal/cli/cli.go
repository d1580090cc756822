// ============================================================================
// STARK Job Queue CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Provides a user-friendly command line interface, based on the
// Cobra framework, for driving the in-process job queue as a standalone
// demo/operations tool.
//
// Command Structure:
//   jobqueue                        # Root command
//   ├── run                         # Start the queue and metrics server
//   │   └── --config, -c           # Specify config file
//   ├── submit                      # Submit demo proof jobs
//   │   ├── --count, -n            # Number of jobs to submit
//   │   ├── --priority, -p         # low | normal | high
//   │   └── --duration             # Simulated job duration
//   ├── status                      # View configured settings
//   ├── --version                   # Display version information
//   └── --help                      # Display help information
//
// Configuration Management:
//   Uses YAML format config file (default: configs/default.yaml).
//   Configuration items include pool sizing and Prometheus metrics.
//
// run Command:
//   Starts the blocking pool and the queue, starts the metrics HTTP
//   server (if enabled), listens for SIGINT/SIGTERM, and shuts the
//   queue down gracefully on signal.
//
// submit Command:
//   Submits --count demo ProveJobs at the given priority and waits for
//   all of them to complete, printing each result as it arrives.
//
// ============================================================================

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChuLiYu/stark-jobqueue/internal/blockingpool"
	"github.com/ChuLiYu/stark-jobqueue/internal/config"
	"github.com/ChuLiYu/stark-jobqueue/internal/jobqueue"
	"github.com/ChuLiYu/stark-jobqueue/internal/metrics"
	"github.com/ChuLiYu/stark-jobqueue/internal/proofjob"
	"github.com/ChuLiYu/stark-jobqueue/pkg/priority"
)

var (
	configFile string
	log        = slog.Default()
)

// BuildCLI assembles the root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jobqueue",
		Short: "jobqueue: a prioritized, cancellable job queue for STARK proving work",
		Long: `jobqueue schedules long-running, cancellable CPU work
(STARK proof generation, peer-driven validation) at a small set of
discrete priorities, with panic isolation and graceful shutdown.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildSubmitCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

// loadConfig reads the config file if present, otherwise falls back to
// config.Default() so the demo works with zero setup.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Warn("jobqueue: could not load config, using defaults", "path", configFile, "error", err)
		return config.Default()
	}
	return cfg
}

// buildQueue wires a blocking pool, an optional metrics collector, and
// a priority.Level queue together, starting the pool and the queue's
// background tasks.
func buildQueue(cfg *config.Config) (*jobqueue.Queue[priority.Level], *blockingpool.Pool, *metrics.Collector) {
	pool := blockingpool.New(cfg.Pool.Workers, cfg.Pool.BufferSize)
	pool.Start(cfg.Pool.Workers)

	var collector *metrics.Collector
	var opts []jobqueue.Option[priority.Level]
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		opts = append(opts, jobqueue.WithMetrics[priority.Level](collector))
	}

	q := jobqueue.New(pool, opts...)
	return q, pool, collector
}

func buildRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the job queue and metrics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueue()
		},
	}
	return cmd
}

func runQueue() error {
	cfg := loadConfig()
	log.Info("jobqueue: starting", "workers", cfg.Pool.Workers, "buffer_size", cfg.Pool.BufferSize)

	q, pool, _ := buildQueue(cfg)

	if cfg.Metrics.Enabled {
		go func() {
			log.Info("jobqueue: starting metrics server", "port", cfg.Metrics.Port)
			if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
				log.Error("jobqueue: metrics server error", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("jobqueue: received shutdown signal, stopping gracefully")
	q.Stop()
	pool.Stop()
	log.Info("jobqueue: stopped")
	return nil
}

func buildSubmitCommand() *cobra.Command {
	var count int
	var priorityName string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit demo proof jobs and wait for their results",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parsePriority(priorityName)
			if err != nil {
				return err
			}
			return submitJobs(count, level, duration)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of jobs to submit")
	cmd.Flags().StringVarP(&priorityName, "priority", "p", "normal", "priority: low | normal | high")
	cmd.Flags().DurationVar(&duration, "duration", 50*time.Millisecond, "simulated job duration")

	return cmd
}

func parsePriority(name string) (priority.Level, error) {
	switch name {
	case "low":
		return priority.Low, nil
	case "normal":
		return priority.Normal, nil
	case "high":
		return priority.High, nil
	default:
		return 0, fmt.Errorf("unknown priority %q (want low, normal, or high)", name)
	}
}

func submitJobs(count int, level priority.Level, duration time.Duration) error {
	cfg := loadConfig()
	q, pool, _ := buildQueue(cfg)
	defer pool.Stop()
	defer q.Stop()

	handles := make([]*jobqueue.Handle, 0, count)
	for i := 0; i < count; i++ {
		j := proofjob.NewProveJob(uint64(i), duration)
		h, err := q.Submit(j, level)
		if err != nil {
			return fmt.Errorf("failed to submit job %d: %w", i, err)
		}
		handles = append(handles, h)
	}

	log.Info("jobqueue: submitted jobs", "count", count, "priority", level.String())

	ctx := context.Background()
	for i, h := range handles {
		result, err := h.Result(ctx)
		if err != nil {
			fmt.Printf("job %d: error: %v\n", i, err)
			continue
		}
		fmt.Printf("job %d: %v\n", i, result)
	}
	return nil
}

func buildStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus()
		},
	}
	return cmd
}

func showStatus() error {
	cfg := loadConfig()

	fmt.Println("jobqueue configuration:")
	fmt.Printf("  config file:   %s\n", configFile)
	fmt.Printf("  pool workers:  %d\n", cfg.Pool.Workers)
	fmt.Printf("  pool buffer:   %d\n", cfg.Pool.BufferSize)
	if cfg.Metrics.Enabled {
		fmt.Printf("  metrics:       enabled on :%d/metrics\n", cfg.Metrics.Port)
	} else {
		fmt.Println("  metrics:       disabled")
	}
	return nil
}
