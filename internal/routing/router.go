package routing

import (
	"errors"

	"github.com/paynet-sim/paynet/internal/domain"
)

// ErrUnreachable indicates no path exists between the requested endpoints.
var ErrUnreachable = errors.New("destination is unreachable")

// Network is the read surface the router needs from a channel graph.
type Network interface {
	Nodes() []domain.NodeID
	Peers(n domain.NodeID) []domain.NodeID
	EdgeCost(u, v domain.NodeID) domain.Cost
	Balance(u, v domain.NodeID) (domain.Amount, bool)
}

// Router computes shortest paths over a channel graph. It holds no state of
// its own and reads the network lazily, so every query reflects the graph
// as it is at call time.
type Router struct {
	net Network
}

// NewRouter constructs a Router over the given network.
func NewRouter(net Network) *Router {
	return &Router{net: net}
}

// ShortestPath runs Dijkstra's algorithm from src to dst over unit edge
// costs and returns the path together with its cost in hops.
//
// Ties between equal-distance candidates are broken by smallest NodeID, so
// the returned path is deterministic for any given graph state. The search
// stops as soon as dst is selected, or when no unvisited node has finite
// distance. If dst is unreachable (or either endpoint is unknown) the
// returned path contains only dst and the cost is CostInfinite.
func (r *Router) ShortestPath(src, dst domain.NodeID) (domain.Path, domain.Cost) {
	nodes := r.net.Nodes()

	dist := make(map[domain.NodeID]domain.Cost, len(nodes))
	prev := make(map[domain.NodeID]domain.NodeID, len(nodes))
	unvisited := make(map[domain.NodeID]struct{}, len(nodes))
	known := false
	for _, n := range nodes {
		dist[n] = domain.CostInfinite
		unvisited[n] = struct{}{}
		if n == dst {
			known = true
		}
	}
	if !known {
		return domain.Path{dst}, domain.CostInfinite
	}
	if _, ok := unvisited[src]; ok {
		dist[src] = 0
	}

	for len(unvisited) > 0 {
		u, du := nearestUnvisited(unvisited, dist)
		if du == domain.CostInfinite {
			break // remaining nodes are unreachable
		}
		delete(unvisited, u)
		if u == dst {
			break
		}
		for _, v := range r.net.Peers(u) {
			if _, pending := unvisited[v]; !pending {
				continue
			}
			alt := du + r.net.EdgeCost(u, v)
			if alt < dist[v] {
				dist[v] = alt
				prev[v] = u
			}
		}
	}

	path := domain.Path{dst}
	for cur := dst; ; {
		pred, ok := prev[cur]
		if !ok {
			break
		}
		path = append(path, pred)
		cur = pred
	}
	reverse(path)
	return path, dist[dst]
}

// MaxSendable returns the minimum directed balance along the current
// shortest path from src to dst, the liquidity ceiling of that route. It
// fails with ErrUnreachable when no path exists. A trivial src == dst route
// has no edges and a ceiling of zero.
func (r *Router) MaxSendable(src, dst domain.NodeID) (domain.Amount, error) {
	path, cost := r.ShortestPath(src, dst)
	if cost == domain.CostInfinite {
		return 0, ErrUnreachable
	}
	var ceiling domain.Amount
	for i := 0; i+1 < len(path); i++ {
		bal, _ := r.net.Balance(path[i], path[i+1])
		if i == 0 || bal < ceiling {
			ceiling = bal
		}
	}
	return ceiling, nil
}

// nearestUnvisited scans for the unvisited node with minimum tentative
// distance, breaking distance ties by smallest NodeID.
func nearestUnvisited(unvisited map[domain.NodeID]struct{}, dist map[domain.NodeID]domain.Cost) (domain.NodeID, domain.Cost) {
	var (
		best     domain.NodeID
		bestDist = domain.CostInfinite
		found    bool
	)
	for n := range unvisited {
		d := dist[n]
		if !found || d < bestDist || (d == bestDist && n < best) {
			best, bestDist, found = n, d, true
		}
	}
	return best, bestDist
}

func reverse(p domain.Path) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
