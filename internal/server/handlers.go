package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/paynet-sim/paynet/internal/domain"
	"github.com/paynet-sim/paynet/internal/network"
	"github.com/paynet-sim/paynet/internal/payment"
	"github.com/paynet-sim/paynet/internal/routing"
)

// APIHandlers exposes HTTP handlers over one payment engine. The engine and
// its graph carry no internal locking, so every handler, readers included,
// serializes on mu; that is the host-side contract of the core.
type APIHandlers struct {
	logger *slog.Logger
	engine *payment.Engine
	mu     sync.Mutex
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, engine *payment.Engine) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		engine: engine,
	}
}

type channelRequest struct {
	From     domain.NodeID  `json:"from"`
	To       domain.NodeID  `json:"to"`
	Outbound *domain.Amount `json:"outbound"`
	Inbound  *domain.Amount `json:"inbound"`
}

type transferRequest struct {
	From   domain.NodeID `json:"from"`
	To     domain.NodeID `json:"to"`
	Amount domain.Amount `json:"amount"`
}

type paymentRequest struct {
	From   domain.NodeID `json:"from"`
	To     domain.NodeID `json:"to"`
	Amount domain.Amount `json:"amount"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type routeResponse struct {
	From        domain.NodeID  `json:"from"`
	To          domain.NodeID  `json:"to"`
	Reachable   bool           `json:"reachable"`
	Path        domain.Path    `json:"path"`
	Cost        *int64         `json:"cost,omitempty"`
	MaxSendable *domain.Amount `json:"maxSendable,omitempty"`
}

type nodeResponse struct {
	ID       domain.NodeID                   `json:"id"`
	Balance  domain.Amount                   `json:"balance"`
	Channels map[domain.NodeID]domain.Amount `json:"channels"`
}

func (h *APIHandlers) handleChannels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.openChannel(w, r)
	case http.MethodDelete:
		h.closeChannel(w, r)
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

func (h *APIHandlers) openChannel(w http.ResponseWriter, r *http.Request) {
	var payload channelRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.From == "" || payload.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	outbound := domain.DefaultChannelBalance
	if payload.Outbound != nil {
		outbound = *payload.Outbound
	}
	inbound := domain.DefaultChannelBalance
	if payload.Inbound != nil {
		inbound = *payload.Inbound
	}

	h.mu.Lock()
	err := h.engine.Graph().OpenChannel(payload.From, payload.To, outbound, inbound)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("open channel rejected", "error", err, "from", string(payload.From), "to", string(payload.To))
		writeError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok"})
}

func (h *APIHandlers) closeChannel(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := domain.NodeID(query.Get("from"))
	to := domain.NodeID(query.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	h.mu.Lock()
	err := h.engine.Graph().CloseChannel(from, to)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("close channel rejected", "error", err, "from", string(from), "to", string(to))
		writeError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *APIHandlers) handleTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload transferRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.From == "" || payload.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	h.mu.Lock()
	err := h.engine.Graph().Transfer(payload.From, payload.To, payload.Amount)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("transfer rejected", "error", err, "from", string(payload.From), "to", string(payload.To))
		writeError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *APIHandlers) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload paymentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.From == "" || payload.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	h.mu.Lock()
	result, err := h.engine.Send(payload.From, payload.To, payload.Amount)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("payment rejected", "error", err, "from", string(payload.From), "to", string(payload.To))
		writeError(w, statusForError(err), err.Error())
		return
	}

	// Routing and liquidity outcomes are payload, not an HTTP failure.
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	from := domain.NodeID(query.Get("from"))
	to := domain.NodeID(query.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	h.mu.Lock()
	path, cost := h.engine.Router().ShortestPath(from, to)
	var (
		ceiling    domain.Amount
		ceilingErr error
	)
	if cost != domain.CostInfinite {
		ceiling, ceilingErr = h.engine.Router().MaxSendable(from, to)
	}
	h.mu.Unlock()

	resp := routeResponse{
		From:      from,
		To:        to,
		Reachable: cost != domain.CostInfinite,
		Path:      path,
	}
	if resp.Reachable {
		c := int64(cost)
		resp.Cost = &c
		if ceilingErr == nil {
			resp.MaxSendable = &ceiling
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	h.mu.Lock()
	nodes := h.engine.Graph().Nodes()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

func (h *APIHandlers) handleNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/nodes/")
	id = strings.Trim(id, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "node ID is required")
		return
	}

	h.mu.Lock()
	balance, err := h.engine.Graph().BalanceOf(domain.NodeID(id))
	var channels map[domain.NodeID]domain.Amount
	if err == nil {
		channels, err = h.engine.Graph().Channels(domain.NodeID(id))
	}
	h.mu.Unlock()
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, nodeResponse{
		ID:       domain.NodeID(id),
		Balance:  balance,
		Channels: channels,
	})
}

func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	h.mu.Lock()
	snap := h.engine.Graph().Snapshot()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, snap)
}

func (h *APIHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	h.mu.Lock()
	h.engine.Graph().Reset()
	h.mu.Unlock()

	h.logger.Info("graph reset")
	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, network.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, network.ErrChannelExists),
		errors.Is(err, network.ErrChannelNotOpen),
		errors.Is(err, network.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, network.ErrSelfChannel),
		errors.Is(err, network.ErrNegativeAmount),
		errors.Is(err, routing.ErrUnreachable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
