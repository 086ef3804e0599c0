package simulate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/paynet-sim/paynet/internal/generator"
	"github.com/paynet-sim/paynet/internal/payment"
)

// TrialError accumulates the failures of a multi-trial run.
type TrialError struct {
	Errors []error
}

func (e *TrialError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TrialError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TrialError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// RunTrials repeats the generate-build-run experiment across independent
// graphs using a worker pool. Each trial derives its seed from the base
// config, so a fixed base seed reproduces the whole batch. Every worker owns
// its trial's graph outright, which keeps the single-threaded contract of
// the core intact while still using the machine.
func RunTrials(ctx context.Context, cfg generator.Config, trials, workers int, logger *slog.Logger) ([]Summary, error) {
	if trials <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 4
	}
	if workers > trials {
		workers = trials
	}
	if cfg.Seed == 0 {
		cfg.Seed = generator.DefaultConfig().Seed
	}

	summaries := make([]Summary, trials)
	indexCh := make(chan int)
	errCh := make(chan error, trials)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			trialCfg := cfg
			trialCfg.Seed = cfg.Seed + int64(idx)
			summary, err := runTrial(ctx, trialCfg, logger)
			summaries[idx] = summary
			if err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < trials; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var trialErr TrialError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return summaries, err
		}
		trialErr.append(err)
	}
	return summaries, trialErr.asError()
}

func runTrial(ctx context.Context, cfg generator.Config, logger *slog.Logger) (Summary, error) {
	ds, err := generator.New(cfg).Generate(ctx)
	if err != nil {
		return Summary{}, err
	}
	graph, err := BuildGraph(ds)
	if err != nil {
		return Summary{}, err
	}
	return Run(ctx, payment.NewEngine(graph), ds.Payments, logger)
}

// Merge folds several trial summaries into one aggregate.
func Merge(summaries []Summary) Summary {
	var total Summary
	for _, s := range summaries {
		total.Payments += s.Payments
		total.Succeeded += s.Succeeded
		total.InsufficientFunds += s.InsufficientFunds
		total.Unreachable += s.Unreachable
		total.ValueMoved += s.ValueMoved
		for hops, count := range s.HopHistogram {
			if total.HopHistogram == nil {
				total.HopHistogram = make(map[int]int)
			}
			total.HopHistogram[hops] += count
		}
	}
	return total
}
