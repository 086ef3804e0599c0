package domain

import (
	"encoding/json"
	"fmt"
)

// TxStatus is the terminal outcome of a multi-hop payment. Routing and
// liquidity failures are encoded here rather than as errors so that bulk
// simulations can tally outcomes without exception-driven control flow.
type TxStatus int

const (
	TxSuccess TxStatus = iota + 1
	TxInsufficientFunds
	TxUnreachable
)

// MarshalJSON encodes the status under its wire name.
func (s TxStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the wire names produced by MarshalJSON.
func (s *TxStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "SUCCESS":
		*s = TxSuccess
	case "INSUFFICIENT_FUNDS":
		*s = TxInsufficientFunds
	case "UNREACHABLE":
		*s = TxUnreachable
	default:
		return fmt.Errorf("unknown transaction status %q", name)
	}
	return nil
}

// String implements fmt.Stringer.
func (s TxStatus) String() string {
	switch s {
	case TxSuccess:
		return "SUCCESS"
	case TxInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case TxUnreachable:
		return "UNREACHABLE"
	default:
		return "UNKNOWN"
	}
}

// TxResult records the outcome of a single send. It is produced exactly once
// per call and never mutated afterwards; the caller owns it. Amount is the
// value actually moved, so it is zero unless Status is TxSuccess.
type TxResult struct {
	Path     Path     `json:"path"`
	Sender   NodeID   `json:"sender"`
	Receiver NodeID   `json:"receiver"`
	Amount   Amount   `json:"amount"`
	Hops     int      `json:"hops"`
	Status   TxStatus `json:"status"`
}
