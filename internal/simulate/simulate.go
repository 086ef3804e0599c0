package simulate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/generator"
	"github.com/paynet-sim/paynet/internal/network"
	"github.com/paynet-sim/paynet/internal/payment"
)

// Summary aggregates the outcomes of a payment load run against one graph.
type Summary struct {
	Payments          int           `json:"payments"`
	Succeeded         int           `json:"succeeded"`
	InsufficientFunds int           `json:"insufficientFunds"`
	Unreachable       int           `json:"unreachable"`
	ValueMoved        domain.Amount `json:"valueMoved"`
	HopHistogram      map[int]int   `json:"hopHistogram"`
}

// SuccessRate returns the fraction of payments that fully committed, in
// [0, 1]. An empty load has a rate of zero.
func (s Summary) SuccessRate() float64 {
	if s.Payments == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Payments)
}

func (s *Summary) record(res domain.TxResult) {
	s.Payments++
	switch res.Status {
	case domain.TxSuccess:
		s.Succeeded++
		s.ValueMoved += res.Amount
		if s.HopHistogram == nil {
			s.HopHistogram = make(map[int]int)
		}
		s.HopHistogram[res.Hops]++
	case domain.TxInsufficientFunds:
		s.InsufficientFunds++
	case domain.TxUnreachable:
		s.Unreachable++
	}
}

// BuildGraph materializes a dataset's topology into a fresh channel graph.
func BuildGraph(ds generator.Dataset) (*network.Graph, error) {
	graph := network.NewGraph(ds.Nodes)
	for _, ch := range ds.Channels {
		if err := graph.OpenChannel(ch.From, ch.To, ch.Outbound, ch.Inbound); err != nil {
			return nil, fmt.Errorf("open channel %s<->%s: %w", ch.From, ch.To, err)
		}
	}
	return graph, nil
}

// Run drives the payment load through a single engine, one payment at a
// time. The graph is mutable shared state with no internal locking, so the
// load is never parallelized within one run; parallelism belongs across
// independent graphs (see RunTrials). Run stops early if the context is
// cancelled or a payment is structurally invalid.
func Run(ctx context.Context, engine *payment.Engine, load []generator.PaymentSpec, logger *slog.Logger) (Summary, error) {
	var summary Summary
	for i, p := range load {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := engine.Send(p.From, p.To, p.Amount)
		if err != nil {
			return summary, fmt.Errorf("payment %d (%s->%s): %w", i, p.From, p.To, err)
		}
		summary.record(res)
		if logger != nil {
			logger.Debug("payment settled",
				"from", string(p.From),
				"to", string(p.To),
				"amount", int64(p.Amount),
				"status", res.Status.String(),
				"hops", res.Hops,
			)
		}
	}
	return summary, nil
}
