package payment

import (
	"fmt"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
)

// Node binds a single NodeID to an engine, exposing the graph and payment
// operations with that node fixed as one endpoint. It is purely an
// ergonomic facade; it holds no state beyond its identity.
type Node struct {
	id     domain.NodeID
	engine *Engine
}

// GetNode returns a facade for the given node, or network.ErrUnknownNode if
// the node is not a member of the engine's graph.
func (e *Engine) GetNode(id domain.NodeID) (*Node, error) {
	if !e.graph.HasNode(id) {
		return nil, fmt.Errorf("get node %s: %w", id, network.ErrUnknownNode)
	}
	return &Node{id: id, engine: e}, nil
}

// ID returns the bound node identifier.
func (n *Node) ID() domain.NodeID {
	return n.id
}

// Send pays amount from this node to the peer.
func (n *Node) Send(to domain.NodeID, amount domain.Amount) (domain.TxResult, error) {
	return n.engine.Send(n.id, to, amount)
}

// OpenChannel opens a channel from this node to the peer.
func (n *Node) OpenChannel(peer domain.NodeID, outbound, inbound domain.Amount) error {
	return n.engine.graph.OpenChannel(n.id, peer, outbound, inbound)
}

// CloseChannel closes this node's channel with the peer.
func (n *Node) CloseChannel(peer domain.NodeID) error {
	return n.engine.graph.CloseChannel(n.id, peer)
}

// Balance returns the node's total outbound liquidity.
func (n *Node) Balance() domain.Amount {
	bal, _ := n.engine.graph.BalanceOf(n.id)
	return bal
}

// Channels returns a copy of the node's directed balances keyed by peer.
func (n *Node) Channels() map[domain.NodeID]domain.Amount {
	channels, _ := n.engine.graph.Channels(n.id)
	return channels
}
