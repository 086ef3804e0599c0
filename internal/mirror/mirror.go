// Package mirror pushes point-in-time snapshots of a channel graph into an
// external graph database for offline analysis. Mirroring is one-way and
// optional; the in-process network is always the source of truth.
package mirror

import (
	"context"
	"fmt"

	"github.com/paynet-sim/paynet/internal/network"
)

const clearCypher = `
MATCH (n:NetNode {run: $run})
DETACH DELETE n
`

const upsertNodesCypher = `
UNWIND $nodes AS nodeId
MERGE (n:NetNode {id: nodeId, run: $run})
`

const upsertChannelsCypher = `
UNWIND $channels AS ch
MATCH (u:NetNode {id: ch.from, run: $run})
MATCH (v:NetNode {id: ch.to, run: $run})
MERGE (u)-[c:CAN_SEND]->(v)
SET c.balance = ch.balance
`

// Mirror writes channel-graph snapshots through a Client.
type Mirror struct {
	client Client
	run    string
}

// New constructs a Mirror. The run label namespaces everything the mirror
// writes, so several simulations can share one database.
func New(client Client, run string) *Mirror {
	if run == "" {
		run = "default"
	}
	return &Mirror{client: client, run: run}
}

// PushSnapshot replaces the mirrored state for this run with the snapshot.
func (m *Mirror) PushSnapshot(ctx context.Context, snap network.Snapshot) error {
	if m.client == nil {
		return nil
	}

	if _, err := m.client.ExecuteWrite(ctx, clearCypher, map[string]any{"run": m.run}); err != nil {
		return fmt.Errorf("clear mirror run %s: %w", m.run, err)
	}

	nodes := make([]any, len(snap.Nodes))
	for i, n := range snap.Nodes {
		nodes[i] = string(n)
	}
	params := map[string]any{"run": m.run, "nodes": nodes}
	if _, err := m.client.ExecuteWrite(ctx, upsertNodesCypher, params); err != nil {
		return fmt.Errorf("mirror nodes for run %s: %w", m.run, err)
	}

	if len(snap.Channels) == 0 {
		return nil
	}
	channels := make([]any, len(snap.Channels))
	for i, ch := range snap.Channels {
		channels[i] = map[string]any{
			"from":    string(ch.From),
			"to":      string(ch.To),
			"balance": int64(ch.Balance),
		}
	}
	params = map[string]any{"run": m.run, "channels": channels}
	if _, err := m.client.ExecuteWrite(ctx, upsertChannelsCypher, params); err != nil {
		return fmt.Errorf("mirror channels for run %s: %w", m.run, err)
	}
	return nil
}

// Probe verifies connectivity to the mirror target.
func (m *Mirror) Probe(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.VerifyConnectivity(ctx)
}
