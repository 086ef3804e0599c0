// Package report renders graph state and simulation results as plain text.
// All output is deterministic: nodes, peers and histogram buckets are
// emitted in sorted order.
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
	"github.com/paynet-sim/paynet/internal/simulate"
)

// FormatGraph renders every node with its directed balances, one channel
// side per line.
func FormatGraph(g *network.Graph) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tPEER\tBALANCE (sat)")
	for _, n := range g.Nodes() {
		channels, err := g.Channels(n)
		if err != nil {
			continue
		}
		if len(channels) == 0 {
			fmt.Fprintf(w, "%s\t-\t-\n", n)
			continue
		}
		for _, peer := range sortedPeers(channels) {
			fmt.Fprintf(w, "%s\t%s\t%d\n", n, peer, channels[peer])
		}
	}
	w.Flush()
	return buf.String()
}

// FormatResult renders a single payment outcome.
func FormatResult(res domain.TxResult) string {
	parts := make([]string, len(res.Path))
	for i, n := range res.Path {
		parts[i] = string(n)
	}
	return fmt.Sprintf("%s -> %s: %s (amount=%d sat, hops=%d, path=%s)",
		res.Sender, res.Receiver, res.Status, res.Amount, res.Hops,
		strings.Join(parts, " -> "))
}

// FormatSummary renders a simulation summary with its hop histogram.
func FormatSummary(s simulate.Summary) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "payments:            %d\n", s.Payments)
	fmt.Fprintf(&buf, "succeeded:           %d (%.1f%%)\n", s.Succeeded, s.SuccessRate()*100)
	fmt.Fprintf(&buf, "insufficient funds:  %d\n", s.InsufficientFunds)
	fmt.Fprintf(&buf, "unreachable:         %d\n", s.Unreachable)
	fmt.Fprintf(&buf, "value moved:         %d sat\n", s.ValueMoved)

	if len(s.HopHistogram) > 0 {
		hops := make([]int, 0, len(s.HopHistogram))
		for h := range s.HopHistogram {
			hops = append(hops, h)
		}
		sort.Ints(hops)
		fmt.Fprintln(&buf, "hops histogram:")
		for _, h := range hops {
			fmt.Fprintf(&buf, "  %2d hops: %d\n", h, s.HopHistogram[h])
		}
	}
	return buf.String()
}

func sortedPeers(channels map[domain.NodeID]domain.Amount) []domain.NodeID {
	peers := make([]domain.NodeID, 0, len(channels))
	for p := range channels {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return peers
}
