package domain

import "math"

// NodeID uniquely identifies a participant on the network. IDs are opaque
// and ordered lexicographically wherever a deterministic order is needed.
type NodeID string

// Amount is a monetary value expressed in satoshis, the smallest indivisible
// unit of the network (100,000,000 satoshis per bitcoin). Amounts are always
// exact integers; there is no floating-point money anywhere in the system.
type Amount int64

// Cost is a routing cost measured in hops.
type Cost int64

// CostInfinite marks an edge or destination as unreachable. The router never
// performs arithmetic on an infinite cost, so overflow is not a concern.
const CostInfinite Cost = math.MaxInt64

// Path is an ordered sequence of directly connected nodes from sender to
// receiver. A path of length one carries no hops.
type Path []NodeID

// Hops returns the number of channel traversals along the path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// SatoshisPerBitcoin is the amount scale used throughout the simulator.
const SatoshisPerBitcoin Amount = 100_000_000

// Default network parameters, used by the generator and the node facade.
const (
	MinTransactionValue     Amount = 5
	MaxTransactionValue     Amount = 250
	DefaultTransactionValue        = MinTransactionValue
	DefaultChannelBalance          = MaxTransactionValue
	DefaultChannelCapacity         = 2 * MaxTransactionValue
)
