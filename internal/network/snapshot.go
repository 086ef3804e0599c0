package network

import (
	"sort"

	"github.com/paynet-sim/paynet/internal/domain"
)

// DirectedBalance is one side of a channel in a snapshot.
type DirectedBalance struct {
	From    domain.NodeID `json:"from"`
	To      domain.NodeID `json:"to"`
	Balance domain.Amount `json:"balance"`
}

// Snapshot is a point-in-time, caller-owned copy of the graph state.
// Nodes and channel entries are sorted so snapshots of equal states
// compare and serialize identically.
type Snapshot struct {
	Nodes    []domain.NodeID   `json:"nodes"`
	Channels []DirectedBalance `json:"channels"`
}

// Snapshot copies the current graph state.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{Nodes: g.Nodes()}
	for _, u := range snap.Nodes {
		for v, bal := range g.channels[u] {
			snap.Channels = append(snap.Channels, DirectedBalance{From: u, To: v, Balance: bal})
		}
	}
	sort.Slice(snap.Channels, func(i, j int) bool {
		a, b := snap.Channels[i], snap.Channels[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return snap
}
