package generator

import (
	"context"
	"reflect"
	"testing"

	"github.com/paynet-sim/paynet/internal/domain"
)

func TestNodeNames(t *testing.T) {
	got := NodeNames("ab", 6)
	want := []domain.NodeID{"a", "b", "aa", "ab", "ba", "bb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Names widen once the single-character pool is exhausted.
	got = NodeNames("ab", 8)
	want = []domain.NodeID{"a", "b", "aa", "ab", "ba", "bb", "aaa", "aab"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if names := NodeNames("abc", 0); names != nil {
		t.Fatalf("expected nil for zero count, got %v", names)
	}
}

func TestNodeNamesUnique(t *testing.T) {
	names := NodeNames("abcdefgh", 500)
	if len(names) != 500 {
		t.Fatalf("expected 500 names, got %d", len(names))
	}
	seen := make(map[domain.NodeID]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			t.Fatalf("duplicate name %s", n)
		}
		seen[n] = struct{}{}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumNodes = 16
	cfg.NumChannels = 30
	cfg.NumPayments = 50
	cfg.Seed = 7

	first, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed produced different datasets")
	}
}

func TestGenerateDatasetShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumNodes = 10
	cfg.NumChannels = 15
	cfg.NumPayments = 40
	cfg.Seed = 3

	ds, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(ds.Nodes) != 10 {
		t.Fatalf("expected 10 nodes, got %d", len(ds.Nodes))
	}
	if len(ds.Channels) != 15 {
		t.Fatalf("expected 15 channels, got %d", len(ds.Channels))
	}
	if len(ds.Payments) != 40 {
		t.Fatalf("expected 40 payments, got %d", len(ds.Payments))
	}

	nodes := make(map[domain.NodeID]struct{}, len(ds.Nodes))
	for _, n := range ds.Nodes {
		nodes[n] = struct{}{}
	}

	opened := make(map[[2]domain.NodeID]struct{}, len(ds.Channels))
	for _, ch := range ds.Channels {
		if ch.From == ch.To {
			t.Fatalf("self channel generated: %s", ch.From)
		}
		if _, ok := nodes[ch.From]; !ok {
			t.Fatalf("channel references unknown node %s", ch.From)
		}
		if _, ok := nodes[ch.To]; !ok {
			t.Fatalf("channel references unknown node %s", ch.To)
		}
		if ch.Outbound < cfg.MinChannelBalance || ch.Outbound > cfg.MaxChannelBalance {
			t.Fatalf("outbound balance %d out of range", ch.Outbound)
		}
		if ch.Inbound < cfg.MinChannelBalance || ch.Inbound > cfg.MaxChannelBalance {
			t.Fatalf("inbound balance %d out of range", ch.Inbound)
		}
		key := channelKey(ch.From, ch.To)
		if _, dup := opened[key]; dup {
			t.Fatalf("duplicate channel %s<->%s", ch.From, ch.To)
		}
		opened[key] = struct{}{}
	}

	for _, p := range ds.Payments {
		if p.From == p.To {
			t.Fatalf("self payment generated: %s", p.From)
		}
		if p.Amount < cfg.MinPaymentValue || p.Amount > cfg.MaxPaymentValue {
			t.Fatalf("payment amount %d out of range", p.Amount)
		}
	}
}

func TestNewFillsPaymentBounds(t *testing.T) {
	// A caller setting only counts and a seed must still get payments in
	// the default [MinPaymentValue, MaxPaymentValue] range, not a load of
	// constant minimum-value payments.
	cfg := Config{
		NumNodes:    16,
		NumChannels: 30,
		NumPayments: 200,
		Seed:        21,
	}

	ds, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	def := DefaultConfig()
	var lo, hi domain.Amount
	for i, p := range ds.Payments {
		if p.Amount < def.MinPaymentValue || p.Amount > def.MaxPaymentValue {
			t.Fatalf("payment amount %d outside [%d, %d]", p.Amount, def.MinPaymentValue, def.MaxPaymentValue)
		}
		if i == 0 {
			lo, hi = p.Amount, p.Amount
			continue
		}
		if p.Amount < lo {
			lo = p.Amount
		}
		if p.Amount > hi {
			hi = p.Amount
		}
	}
	if lo == hi {
		t.Fatalf("all %d payment amounts are the constant %d", len(ds.Payments), lo)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Seed = 1
	if _, err := New(cfg).Generate(ctx); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestWriteAndLoadDataset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumNodes = 6
	cfg.NumChannels = 8
	cfg.NumPayments = 12
	cfg.Seed = 11

	ds, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	dir := t.TempDir()
	if err := WriteDataset(ds, dir); err != nil {
		t.Fatalf("write dataset failed: %v", err)
	}

	loaded, err := LoadDataset(dir)
	if err != nil {
		t.Fatalf("load dataset failed: %v", err)
	}
	if !reflect.DeepEqual(ds, loaded) {
		t.Fatalf("round trip mismatch: %+v != %+v", ds, loaded)
	}
}
