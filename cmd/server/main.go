package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/paynet-sim/paynet/internal/config"
	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/logging"
	"github.com/paynet-sim/paynet/internal/mirror"
	"github.com/paynet-sim/paynet/internal/network"
	"github.com/paynet-sim/paynet/internal/payment"
	"github.com/paynet-sim/paynet/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	nodes := parseNodes(cfg.Network.NodesCSV)
	if len(nodes) == 0 {
		logger.Error("no network nodes configured", "env", "NETWORK_NODES")
		os.Exit(1)
	}

	graph := network.NewGraph(nodes)
	engine := payment.NewEngine(graph)
	logger.Info("network initialized", "nodes", len(nodes))

	graphMirror, mirrorClient, err := buildMirror(ctx, cfg)
	if err != nil {
		logger.Error("failed to create mirror client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if mirrorClient != nil {
			if err := mirrorClient.Close(context.Background()); err != nil {
				logger.Warn("closing mirror client failed", "error", err)
			}
		}
	}()

	apiHandlers := server.NewAPIHandlers(logger, engine)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.MirrorHealthService{Mirror: graphMirror},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	if graphMirror != nil {
		if err := graphMirror.PushSnapshot(context.Background(), graph.Snapshot()); err != nil {
			logger.Warn("final snapshot mirror failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildMirror returns a nil mirror when no URI is configured; mirroring is
// strictly optional.
func buildMirror(ctx context.Context, cfg config.Config) (*mirror.Mirror, mirror.Client, error) {
	if cfg.Mirror.URI == "" {
		return nil, nil, nil
	}

	client, err := mirror.NewNeo4jClient(ctx, mirror.Options{
		URI:            cfg.Mirror.URI,
		Database:       cfg.Mirror.Database,
		Username:       cfg.Mirror.Username,
		Password:       cfg.Mirror.Password,
		MaxConnections: cfg.Mirror.MaxConnections,
	})
	if err != nil {
		return nil, nil, err
	}
	return mirror.New(client, cfg.Mirror.Run), client, nil
}

func parseNodes(csv string) []domain.NodeID {
	var nodes []domain.NodeID
	for _, part := range strings.Split(csv, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		nodes = append(nodes, domain.NodeID(id))
	}
	return nodes
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
