package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		nodes       = flag.Int("nodes", cfg.NumNodes, "number of nodes to generate")
		channels    = flag.Int("channels", cfg.NumChannels, "number of channels to open")
		payments    = flag.Int("payments", cfg.NumPayments, "number of payments in the load")
		nameChars   = flag.String("name-chars", cfg.NameChars, "characters used to derive node names")
		minBalance  = flag.Int64("min-balance", int64(cfg.MinChannelBalance), "minimum directed channel balance in satoshis")
		maxBalance  = flag.Int64("max-balance", int64(cfg.MaxChannelBalance), "maximum directed channel balance in satoshis")
		minPayment  = flag.Int64("min-payment", int64(cfg.MinPaymentValue), "minimum payment value in satoshis")
		maxPayment  = flag.Int64("max-payment", int64(cfg.MaxPaymentValue), "maximum payment value in satoshis")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write network.json and payments.json")
		writeStdout = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumNodes:          *nodes,
		NumChannels:       *channels,
		NumPayments:       *payments,
		NameChars:         *nameChars,
		MinChannelBalance: domain.Amount(*minBalance),
		MaxChannelBalance: domain.Amount(*maxBalance),
		MinPaymentValue:   domain.Amount(*minPayment),
		MaxPaymentValue:   domain.Amount(*maxPayment),
		Seed:              *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes, %d channels and %d payments into %s\n",
		len(dataset.Nodes), len(dataset.Channels), len(dataset.Payments), *outputDir)
}
