package generator

import "github.com/paynet-sim/paynet/internal/domain"

// Config drives the synthetic topology and payment-load generator.
type Config struct {
	NumNodes          int
	NumChannels       int
	NumPayments       int
	NameChars         string
	MinChannelBalance domain.Amount
	MaxChannelBalance domain.Amount
	MinPaymentValue   domain.Amount
	MaxPaymentValue   domain.Amount
	Seed              int64
}

// DefaultConfig returns baseline settings producing a moderately connected
// network with payment values inside the network's default bounds.
func DefaultConfig() Config {
	return Config{
		NumNodes:          64,
		NumChannels:       192,
		NumPayments:       1000,
		NameChars:         "abcdefgh",
		MinChannelBalance: 0,
		MaxChannelBalance: domain.DefaultChannelCapacity,
		MinPaymentValue:   domain.MinTransactionValue,
		MaxPaymentValue:   domain.MaxTransactionValue,
		Seed:              42,
	}
}
