// Package payment models the external payment gateway. The simulated
// gateway defines the exact shape callers depend on: it always settles,
// never returns an error for a declined payment, and a transaction id is
// present exactly when the payment succeeded.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/dineflow/api/internal/models"
	"github.com/shopspring/decimal"
)

// Gateway is the payment processing contract. A declined payment is a
// settled result with Success=false, not an error; the error return is
// reserved for the call not completing (context cancellation).
type Gateway interface {
	Process(ctx context.Context, amount decimal.Decimal, method string) (models.PaymentResult, error)
}

const (
	defaultLatency     = 2 * time.Second
	defaultSuccessRate = 0.9
)

// SimulatedGateway stands in for a real gateway integration. Each call
// waits a fixed latency (the modeled network round-trip) and then settles
// probabilistically.
type SimulatedGateway struct {
	Latency     time.Duration
	SuccessRate float64

	// roll returns a value in [0,1); overridden in tests for determinism.
	roll func() float64
	// wait blocks for d or until ctx is done; overridden in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewSimulatedGateway creates a gateway with the default 2s latency and
// 90% success rate.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		Latency:     defaultLatency,
		SuccessRate: defaultSuccessRate,
		roll:        secureRoll,
		wait:        sleepCtx,
	}
}

// Process settles a payment attempt. On success the result carries a
// generated transaction id and a message echoing amount and method; on
// failure a generic retry message and no id.
func (g *SimulatedGateway) Process(ctx context.Context, amount decimal.Decimal, method string) (models.PaymentResult, error) {
	if err := g.wait(ctx, g.Latency); err != nil {
		return models.PaymentResult{}, err
	}

	if g.roll() < g.SuccessRate {
		return models.PaymentResult{
			Success:       true,
			Message:       fmt.Sprintf("Payment of %s via %s successful", amount.StringFixed(2), method),
			TransactionID: newTransactionID(),
			Amount:        amount,
		}, nil
	}

	return models.PaymentResult{
		Success: false,
		Message: "Payment failed. Please try again or use a different payment method.",
		Amount:  amount,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func secureRoll() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0
	}
	return float64(n.Int64()) / float64(1<<53)
}

func newTransactionID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "TXN-000000000000"
	}
	return "TXN-" + hex.EncodeToString(buf)
}
