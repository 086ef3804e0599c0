package payment

import (
	"fmt"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
	"github.com/paynet-sim/paynet/internal/routing"
)

// Engine composes a channel graph with a router to implement atomic
// multi-hop payments. Like the graph it drives, an Engine is not safe for
// concurrent use; the host serializes calls against a given instance.
type Engine struct {
	graph  *network.Graph
	router *routing.Router
}

// NewEngine constructs an Engine over the given graph.
func NewEngine(graph *network.Graph) *Engine {
	return &Engine{
		graph:  graph,
		router: routing.NewRouter(graph),
	}
}

// Router exposes the engine's router for read-only path queries.
func (e *Engine) Router() *routing.Router {
	return e.router
}

// Graph exposes the underlying channel graph.
func (e *Engine) Graph() *network.Graph {
	return e.graph
}

// Send moves amount from src to dst along the current shortest path.
//
// A negative amount is a programming error and is rejected up front with
// network.ErrNegativeAmount. Every other failure is a network condition and
// is reported through TxResult.Status: TxUnreachable when no route exists,
// TxInsufficientFunds when any hop on the route cannot carry the amount.
//
// The liquidity of the whole path is checked against the pre-transfer
// balances before any hop commits, so a payment either debits every hop or
// none; a non-success result leaves the graph exactly as it was.
func (e *Engine) Send(src, dst domain.NodeID, amount domain.Amount) (domain.TxResult, error) {
	if amount < 0 {
		return domain.TxResult{}, fmt.Errorf("send %s->%s: %w", src, dst, network.ErrNegativeAmount)
	}

	path, cost := e.router.ShortestPath(src, dst)
	if cost == domain.CostInfinite {
		return domain.TxResult{
			Path:     path,
			Sender:   src,
			Receiver: dst,
			Status:   domain.TxUnreachable,
		}, nil
	}

	for i := 0; i+1 < len(path); i++ {
		bal, open := e.graph.Balance(path[i], path[i+1])
		if !open || bal < amount {
			return domain.TxResult{
				Path:     path,
				Sender:   src,
				Receiver: dst,
				Hops:     path.Hops(),
				Status:   domain.TxInsufficientFunds,
			}, nil
		}
	}

	for i := 0; i+1 < len(path); i++ {
		if err := e.graph.Transfer(path[i], path[i+1], amount); err != nil {
			// Unreachable after the pre-check above; a failure here means
			// the graph was mutated mid-send.
			return domain.TxResult{}, fmt.Errorf("commit hop %s->%s: %w", path[i], path[i+1], err)
		}
	}

	return domain.TxResult{
		Path:     path,
		Sender:   src,
		Receiver: dst,
		Amount:   amount,
		Hops:     path.Hops(),
		Status:   domain.TxSuccess,
	}, nil
}
