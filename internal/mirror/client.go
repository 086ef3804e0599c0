package mirror

import (
	"context"
	"errors"
)

// Client is the minimal contract the snapshot mirror needs from a graph
// database. The core network never reads the mirror back; it exists for
// offline analysis and visualization of simulated network states.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a mirror client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the mirror URI is not provided.
var ErrMissingURI = errors.New("mirror URI is required")
