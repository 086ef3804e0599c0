package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paynet-sim/paynet/internal/config"
	"github.com/paynet-sim/paynet/internal/generator"
	"github.com/paynet-sim/paynet/internal/logging"
	"github.com/paynet-sim/paynet/internal/mirror"
	"github.com/paynet-sim/paynet/internal/payment"
	"github.com/paynet-sim/paynet/internal/report"
	"github.com/paynet-sim/paynet/internal/simulate"
)

func main() {
	defaults := generator.DefaultConfig()
	var (
		datasetDir = flag.String("dataset-dir", "", "directory containing network.json and payments.json; empty generates a dataset")
		nodes      = flag.Int("nodes", defaults.NumNodes, "number of nodes when generating")
		channels   = flag.Int("channels", defaults.NumChannels, "number of channels when generating")
		payments   = flag.Int("payments", defaults.NumPayments, "number of payments when generating")
		seed       = flag.Int64("seed", defaults.Seed, "random seed when generating")
		trials     = flag.Int("trials", 1, "number of independent trials to run")
		workers    = flag.Int("workers", 4, "number of concurrent workers across trials")
		showGraph  = flag.Bool("show-graph", false, "print the final graph state (single trial only)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "simulate")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	genCfg := generator.Config{
		NumNodes:    *nodes,
		NumChannels: *channels,
		NumPayments: *payments,
		Seed:        *seed,
	}

	if *trials > 1 {
		if *datasetDir != "" {
			logger.Error("multi-trial runs generate their own datasets; -dataset-dir only applies to a single trial")
			os.Exit(1)
		}
		summaries, err := simulate.RunTrials(ctx, genCfg, *trials, *workers, logger)
		if err != nil {
			logger.Error("trials failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("aggregate over %d trials:\n%s", len(summaries), report.FormatSummary(simulate.Merge(summaries)))
		return
	}

	dataset, err := loadOrGenerate(ctx, *datasetDir, genCfg)
	if err != nil {
		logger.Error("failed to obtain dataset", "error", err)
		os.Exit(1)
	}
	if len(dataset.Payments) == 0 {
		logger.Error("payment load is empty")
		os.Exit(1)
	}

	graph, err := simulate.BuildGraph(dataset)
	if err != nil {
		logger.Error("failed to build graph", "error", err)
		os.Exit(1)
	}

	summary, err := simulate.Run(ctx, payment.NewEngine(graph), dataset.Payments, logger)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.FormatSummary(summary))
	if *showGraph {
		fmt.Print(report.FormatGraph(graph))
	}

	if cfg.Mirror.URI != "" {
		client, err := mirror.NewNeo4jClient(ctx, mirror.Options{
			URI:            cfg.Mirror.URI,
			Database:       cfg.Mirror.Database,
			Username:       cfg.Mirror.Username,
			Password:       cfg.Mirror.Password,
			MaxConnections: cfg.Mirror.MaxConnections,
		})
		if err != nil {
			logger.Error("failed to create mirror client", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("closing mirror client failed", "error", err)
			}
		}()

		m := mirror.New(client, cfg.Mirror.Run)
		if err := m.PushSnapshot(ctx, graph.Snapshot()); err != nil {
			logger.Error("snapshot mirror failed", "error", err)
			os.Exit(1)
		}
		logger.Info("final graph state mirrored", "run", cfg.Mirror.Run)
	}
}

func loadOrGenerate(ctx context.Context, dir string, cfg generator.Config) (generator.Dataset, error) {
	if dir != "" {
		return generator.LoadDataset(dir)
	}
	return generator.New(cfg).Generate(ctx)
}
