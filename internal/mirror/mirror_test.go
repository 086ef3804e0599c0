package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
)

func snapshotFixture(t *testing.T) network.Snapshot {
	t.Helper()
	g := network.NewGraph([]domain.NodeID{"a", "b", "c"})
	if err := g.OpenChannel("a", "b", 10, 5); err != nil {
		t.Fatalf("open channel failed: %v", err)
	}
	return g.Snapshot()
}

func TestPushSnapshot(t *testing.T) {
	client := NewMemoryClient()
	m := New(client, "test-run")

	if err := m.PushSnapshot(context.Background(), snapshotFixture(t)); err != nil {
		t.Fatalf("push snapshot failed: %v", err)
	}

	calls := client.WriteCalls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 write queries (clear, nodes, channels), got %d", len(calls))
	}

	for i, call := range calls {
		if run, ok := call.Params["run"]; !ok || run != "test-run" {
			t.Fatalf("query %d missing run label: %v", i, call.Params)
		}
	}

	nodes, ok := calls[1].Params["nodes"].([]any)
	if !ok || len(nodes) != 3 {
		t.Fatalf("expected 3 mirrored nodes, got %v", calls[1].Params["nodes"])
	}

	channels, ok := calls[2].Params["channels"].([]any)
	if !ok || len(channels) != 2 {
		t.Fatalf("expected 2 directed channel entries, got %v", calls[2].Params["channels"])
	}
	first, ok := channels[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected channel entry shape: %T", channels[0])
	}
	if first["from"] != "a" || first["to"] != "b" || first["balance"] != int64(10) {
		t.Fatalf("unexpected first channel entry: %v", first)
	}
}

func TestPushSnapshotEmptyGraph(t *testing.T) {
	client := NewMemoryClient()
	m := New(client, "")

	g := network.NewGraph([]domain.NodeID{"a", "b"})
	if err := m.PushSnapshot(context.Background(), g.Snapshot()); err != nil {
		t.Fatalf("push snapshot failed: %v", err)
	}

	// No channel query when there is nothing to mirror.
	if calls := client.WriteCalls(); len(calls) != 2 {
		t.Fatalf("expected 2 write queries, got %d", len(calls))
	}
}

func TestPushSnapshotPropagatesClientError(t *testing.T) {
	boom := errors.New("bolt connection lost")
	client := NewMemoryClient().WithError(boom)
	m := New(client, "run")

	if err := m.PushSnapshot(context.Background(), snapshotFixture(t)); !errors.Is(err, boom) {
		t.Fatalf("expected client error, got %v", err)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	m := New(nil, "run")
	if err := m.PushSnapshot(context.Background(), snapshotFixture(t)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := m.Probe(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	degraded := errors.New("unreachable endpoint")
	client := NewMemoryClient().WithConnectivityError(degraded)
	m := New(client, "run")

	if err := m.Probe(context.Background()); !errors.Is(err, degraded) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
}
