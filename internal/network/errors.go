package network

import "errors"

// Sentinel errors for structural and precondition failures on graph
// operations. Callers discriminate with errors.Is; routing and liquidity
// outcomes of a multi-hop send are deliberately not errors (see payment).
var (
	ErrUnknownNode       = errors.New("node does not exist on the network")
	ErrSelfChannel       = errors.New("node cannot open a channel with itself")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrChannelExists     = errors.New("channel has already been opened")
	ErrChannelNotOpen    = errors.New("channel has not been opened")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
