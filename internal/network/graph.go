package network

import (
	"fmt"
	"sort"

	"github.com/paynet-sim/paynet/internal/domain"
)

// Graph owns the channel-balance state of a payment-channel network. The
// node set is fixed at construction; channels between nodes are opened,
// mutated and closed through the methods below.
//
// A channel between u and v is realized as two directed balance entries,
// balance(u->v) and balance(v->u). The entries are created and removed
// together, so a channel exists in channels[u] iff it exists in channels[v],
// and every transfer preserves their sum.
//
// Graph carries no internal synchronization. A host driving it from more
// than one goroutine must serialize every call against a given instance.
type Graph struct {
	nodes    map[domain.NodeID]struct{}
	channels map[domain.NodeID]map[domain.NodeID]domain.Amount
}

// NewGraph constructs a graph over the given node set with no channels.
// Duplicate IDs are collapsed.
func NewGraph(nodes []domain.NodeID) *Graph {
	g := &Graph{
		nodes:    make(map[domain.NodeID]struct{}, len(nodes)),
		channels: make(map[domain.NodeID]map[domain.NodeID]domain.Amount, len(nodes)),
	}
	for _, n := range nodes {
		g.nodes[n] = struct{}{}
		g.channels[n] = make(map[domain.NodeID]domain.Amount)
	}
	return g
}

// Nodes returns the node set in lexicographic order.
func (g *Graph) Nodes() []domain.NodeID {
	out := make([]domain.NodeID, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasNode reports whether the node belongs to the graph.
func (g *Graph) HasNode(n domain.NodeID) bool {
	_, ok := g.nodes[n]
	return ok
}

// OpenChannel opens a channel between u and v with the given directed
// balances, so that balance(u->v) = outbound and balance(v->u) = inbound.
// The graph is left untouched on any failure.
func (g *Graph) OpenChannel(u, v domain.NodeID, outbound, inbound domain.Amount) error {
	if !g.HasNode(u) || !g.HasNode(v) {
		return fmt.Errorf("open channel %s<->%s: %w", u, v, ErrUnknownNode)
	}
	if u == v {
		return fmt.Errorf("open channel %s<->%s: %w", u, v, ErrSelfChannel)
	}
	if outbound < 0 || inbound < 0 {
		return fmt.Errorf("open channel %s<->%s: %w", u, v, ErrNegativeAmount)
	}
	if _, open := g.channels[u][v]; open {
		return fmt.Errorf("open channel %s<->%s: %w", u, v, ErrChannelExists)
	}

	g.channels[u][v] = outbound
	g.channels[v][u] = inbound
	return nil
}

// CloseChannel removes both directed entries of the channel between u and v.
func (g *Graph) CloseChannel(u, v domain.NodeID) error {
	if !g.HasNode(u) || !g.HasNode(v) {
		return fmt.Errorf("close channel %s<->%s: %w", u, v, ErrUnknownNode)
	}
	if _, open := g.channels[u][v]; !open {
		return fmt.Errorf("close channel %s<->%s: %w", u, v, ErrChannelNotOpen)
	}

	delete(g.channels[u], v)
	delete(g.channels[v], u)
	return nil
}

// Transfer moves amount from balance(u->v) to balance(v->u), preserving the
// channel total. Either both sides update or neither does.
func (g *Graph) Transfer(u, v domain.NodeID, amount domain.Amount) error {
	if !g.HasNode(u) || !g.HasNode(v) {
		return fmt.Errorf("transfer %s->%s: %w", u, v, ErrUnknownNode)
	}
	if amount < 0 {
		return fmt.Errorf("transfer %s->%s: %w", u, v, ErrNegativeAmount)
	}
	outbound, open := g.channels[u][v]
	if !open {
		return fmt.Errorf("transfer %s->%s: %w", u, v, ErrChannelNotOpen)
	}
	if amount > outbound {
		return fmt.Errorf("transfer %s->%s: %w", u, v, ErrInsufficientFunds)
	}

	g.channels[u][v] -= amount
	g.channels[v][u] += amount
	return nil
}

// Balance returns the directed balance from u to v, and whether a channel
// between them is open.
func (g *Graph) Balance(u, v domain.NodeID) (domain.Amount, bool) {
	bal, ok := g.channels[u][v]
	return bal, ok
}

// BalanceOf returns the sum of all outbound balances of a node, its total
// sendable liquidity ignoring multi-hop constraints.
func (g *Graph) BalanceOf(n domain.NodeID) (domain.Amount, error) {
	if !g.HasNode(n) {
		return 0, fmt.Errorf("balance of %s: %w", n, ErrUnknownNode)
	}
	var total domain.Amount
	for _, bal := range g.channels[n] {
		total += bal
	}
	return total, nil
}

// Channels returns a copy of the node's directed outbound balances, keyed
// by peer. Mutating the returned map does not affect the graph.
func (g *Graph) Channels(n domain.NodeID) (map[domain.NodeID]domain.Amount, error) {
	if !g.HasNode(n) {
		return nil, fmt.Errorf("channels of %s: %w", n, ErrUnknownNode)
	}
	out := make(map[domain.NodeID]domain.Amount, len(g.channels[n]))
	for peer, bal := range g.channels[n] {
		out[peer] = bal
	}
	return out, nil
}

// Peers returns the node's directly connected peers in lexicographic order.
// Unknown nodes have no peers.
func (g *Graph) Peers(n domain.NodeID) []domain.NodeID {
	peers := make([]domain.NodeID, 0, len(g.channels[n]))
	for peer := range g.channels[n] {
		peers = append(peers, peer)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return peers
}

// EdgeCost returns the routing cost of the directed edge from u to v: one
// hop if a channel is open, infinite otherwise. Cost is independent of the
// channel's balance; liquidity is checked separately once a path is chosen.
func (g *Graph) EdgeCost(u, v domain.NodeID) domain.Cost {
	if _, open := g.channels[u][v]; !open {
		return domain.CostInfinite
	}
	return 1
}

// Reset removes all channels, restoring the no-channel state over the same
// node set.
func (g *Graph) Reset() {
	for n := range g.channels {
		g.channels[n] = make(map[domain.NodeID]domain.Amount)
	}
}
