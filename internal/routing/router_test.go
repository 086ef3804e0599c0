package routing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
)

func buildLine(t *testing.T) *network.Graph {
	t.Helper()
	g := network.NewGraph([]domain.NodeID{"a", "b", "c", "d", "e", "f", "g", "h"})
	for _, edge := range [][2]domain.NodeID{{"a", "b"}, {"b", "c"}, {"c", "d"}} {
		if err := g.OpenChannel(edge[0], edge[1], 1, 1); err != nil {
			t.Fatalf("open channel %s<->%s failed: %v", edge[0], edge[1], err)
		}
	}
	return g
}

func TestShortestPathLine(t *testing.T) {
	g := buildLine(t)
	r := NewRouter(g)

	path, cost := r.ShortestPath("a", "d")
	if want := (domain.Path{"a", "b", "c", "d"}); !reflect.DeepEqual(path, want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	if cost != 3 {
		t.Fatalf("expected cost 3, got %d", cost)
	}
	if path.Hops() != int(cost) {
		t.Fatalf("cost %d does not equal hop count %d", cost, path.Hops())
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := buildLine(t)
	r := NewRouter(g)

	path, cost := r.ShortestPath("a", "a")
	if !reflect.DeepEqual(path, domain.Path{"a"}) {
		t.Fatalf("expected path [a], got %v", path)
	}
	if cost != 0 {
		t.Fatalf("expected cost 0, got %d", cost)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := buildLine(t)
	r := NewRouter(g)

	// h exists but has no channels.
	path, cost := r.ShortestPath("a", "h")
	if !reflect.DeepEqual(path, domain.Path{"h"}) {
		t.Fatalf("expected path [h], got %v", path)
	}
	if cost != domain.CostInfinite {
		t.Fatalf("expected infinite cost, got %d", cost)
	}

	// Unknown endpoints are unreachable rather than an error.
	if _, cost := r.ShortestPath("a", "z"); cost != domain.CostInfinite {
		t.Fatalf("expected infinite cost for unknown destination, got %d", cost)
	}
	if _, cost := r.ShortestPath("z", "a"); cost != domain.CostInfinite {
		t.Fatalf("expected infinite cost for unknown source, got %d", cost)
	}
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	// Two equal-length routes from a to d: a-b-d and a-c-d. The smaller
	// intermediate NodeID must win, every time.
	g := network.NewGraph([]domain.NodeID{"a", "b", "c", "d"})
	for _, edge := range [][2]domain.NodeID{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := g.OpenChannel(edge[0], edge[1], 1, 1); err != nil {
			t.Fatalf("open channel failed: %v", err)
		}
	}
	r := NewRouter(g)

	want := domain.Path{"a", "b", "d"}
	for i := 0; i < 50; i++ {
		path, cost := r.ShortestPath("a", "d")
		if cost != 2 {
			t.Fatalf("expected cost 2, got %d", cost)
		}
		if !reflect.DeepEqual(path, want) {
			t.Fatalf("run %d: expected path %v, got %v", i, want, path)
		}
	}
}

func TestShortestPathPrefersFewerHops(t *testing.T) {
	// a-e-d is shorter than a-b-c-d regardless of balances.
	g := buildLine(t)
	if err := g.OpenChannel("a", "e", 0, 0); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	if err := g.OpenChannel("e", "d", 0, 0); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	r := NewRouter(g)

	path, cost := r.ShortestPath("a", "d")
	if cost != 2 {
		t.Fatalf("expected cost 2, got %d", cost)
	}
	if want := (domain.Path{"a", "e", "d"}); !reflect.DeepEqual(path, want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
}

func TestPathValidity(t *testing.T) {
	g := buildLine(t)
	r := NewRouter(g)

	for _, src := range g.Nodes() {
		for _, dst := range g.Nodes() {
			path, cost := r.ShortestPath(src, dst)
			if cost == domain.CostInfinite {
				continue
			}
			if domain.Cost(path.Hops()) != cost {
				t.Fatalf("%s->%s: cost %d does not match hops %d", src, dst, cost, path.Hops())
			}
			for i := 0; i+1 < len(path); i++ {
				if g.EdgeCost(path[i], path[i+1]) != 1 {
					t.Fatalf("%s->%s: consecutive nodes %s,%s are not connected", src, dst, path[i], path[i+1])
				}
			}
		}
	}
}

func TestMaxSendable(t *testing.T) {
	g := network.NewGraph([]domain.NodeID{"a", "b", "c", "d"})
	if err := g.OpenChannel("a", "b", 40, 1); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	if err := g.OpenChannel("b", "c", 10, 1); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	if err := g.OpenChannel("c", "d", 25, 1); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	r := NewRouter(g)

	ceiling, err := r.MaxSendable("a", "d")
	if err != nil {
		t.Fatalf("max sendable failed: %v", err)
	}
	if ceiling != 10 {
		t.Fatalf("expected ceiling 10, got %d", ceiling)
	}

	if _, err := r.MaxSendable("d", "z"); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}
