package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/paynet-sim/paynet/internal/domain"
)

// ChannelSpec describes one channel to open, with its two directed balances.
type ChannelSpec struct {
	From     domain.NodeID `json:"from"`
	To       domain.NodeID `json:"to"`
	Outbound domain.Amount `json:"outbound"`
	Inbound  domain.Amount `json:"inbound"`
}

// PaymentSpec describes one payment to attempt.
type PaymentSpec struct {
	From   domain.NodeID `json:"from"`
	To     domain.NodeID `json:"to"`
	Amount domain.Amount `json:"amount"`
}

// Dataset contains a generated network topology and payment load.
type Dataset struct {
	Nodes    []domain.NodeID `json:"nodes"`
	Channels []ChannelSpec   `json:"channels"`
	Payments []PaymentSpec   `json:"payments"`
}

// Generator produces synthetic channel topologies and payment loads. A
// generator with a fixed seed is fully deterministic.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumNodes <= 0 {
		cfg.NumNodes = def.NumNodes
	}
	if cfg.NumChannels < 0 {
		cfg.NumChannels = def.NumChannels
	}
	if cfg.NumPayments < 0 {
		cfg.NumPayments = def.NumPayments
	}
	if cfg.NameChars == "" {
		cfg.NameChars = def.NameChars
	}
	if cfg.MaxChannelBalance <= 0 {
		cfg.MaxChannelBalance = def.MaxChannelBalance
	}
	if cfg.MinChannelBalance < 0 {
		cfg.MinChannelBalance = 0
	}
	if cfg.MinPaymentValue <= 0 {
		cfg.MinPaymentValue = def.MinPaymentValue
	}
	if cfg.MaxPaymentValue <= 0 {
		cfg.MaxPaymentValue = def.MaxPaymentValue
	}
	if cfg.MaxPaymentValue < cfg.MinPaymentValue {
		cfg.MaxPaymentValue = cfg.MinPaymentValue
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises a topology and payment load. It respects context
// cancellation between units of work.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	nodes := NodeNames(g.cfg.NameChars, g.cfg.NumNodes)
	if len(nodes) < 2 {
		return Dataset{}, fmt.Errorf("need at least 2 nodes, have %d", len(nodes))
	}

	maxChannels := len(nodes) * (len(nodes) - 1) / 2
	numChannels := g.cfg.NumChannels
	if numChannels > maxChannels {
		numChannels = maxChannels
	}

	ds := Dataset{
		Nodes:    nodes,
		Channels: make([]ChannelSpec, 0, numChannels),
	}

	opened := make(map[[2]domain.NodeID]struct{}, numChannels)
	for len(ds.Channels) < numChannels {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		u := nodes[g.rand.Intn(len(nodes))]
		v := nodes[g.rand.Intn(len(nodes))]
		if u == v {
			continue
		}
		key := channelKey(u, v)
		if _, dup := opened[key]; dup {
			continue
		}
		opened[key] = struct{}{}
		ds.Channels = append(ds.Channels, ChannelSpec{
			From:     u,
			To:       v,
			Outbound: g.amountBetween(g.cfg.MinChannelBalance, g.cfg.MaxChannelBalance),
			Inbound:  g.amountBetween(g.cfg.MinChannelBalance, g.cfg.MaxChannelBalance),
		})
	}

	ds.Payments = make([]PaymentSpec, 0, g.cfg.NumPayments)
	for len(ds.Payments) < g.cfg.NumPayments {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		src := nodes[g.rand.Intn(len(nodes))]
		dst := nodes[g.rand.Intn(len(nodes))]
		if src == dst {
			continue
		}
		ds.Payments = append(ds.Payments, PaymentSpec{
			From:   src,
			To:     dst,
			Amount: g.amountBetween(g.cfg.MinPaymentValue, g.cfg.MaxPaymentValue),
		})
	}

	return ds, nil
}

// amountBetween returns a uniform random amount in [min, max].
func (g *Generator) amountBetween(min, max domain.Amount) domain.Amount {
	if max <= min {
		return min
	}
	return min + domain.Amount(g.rand.Int63n(int64(max-min)+1))
}

// channelKey normalizes an unordered node pair, lowest ID first.
func channelKey(u, v domain.NodeID) [2]domain.NodeID {
	if v < u {
		u, v = v, u
	}
	return [2]domain.NodeID{u, v}
}

// NodeNames generates the first n node names of the scheme that enumerates
// every string of length 1, then 2, and so on over the given characters in
// order: for chars "ab" that is a, b, aa, ab, ba, bb, aaa, ...
// The characters must be distinct for names to be unique.
func NodeNames(chars string, n int) []domain.NodeID {
	if n <= 0 || chars == "" {
		return nil
	}
	names := make([]domain.NodeID, 0, n)
	width := 1
	for len(names) < n {
		names = appendNamesOfWidth(names, chars, "", width, n)
		width++
	}
	return names
}

func appendNamesOfWidth(names []domain.NodeID, chars, prefix string, width, limit int) []domain.NodeID {
	if len(names) >= limit {
		return names
	}
	if width == 0 {
		return append(names, domain.NodeID(prefix))
	}
	for _, c := range strings.Split(chars, "") {
		names = appendNamesOfWidth(names, chars, prefix+c, width-1, limit)
		if len(names) >= limit {
			break
		}
	}
	return names
}
