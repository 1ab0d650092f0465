package mailer

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ignite/outreach-engine/internal/domain"
)

// BreakerTransport wraps a Transport with a circuit breaker so a
// hard-down provider fails fast instead of burning the full retry budget
// on every candidate in the batch.
type BreakerTransport struct {
	inner   Transport
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerTransport wraps the given transport. The breaker opens after 5
// consecutive failures and probes again after 30 seconds.
func NewBreakerTransport(inner Transport) *BreakerTransport {
	settings := gobreaker.Settings{
		Name:    "mail-transport",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Mailer] Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &BreakerTransport{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Send delegates to the wrapped transport through the breaker. An open
// breaker returns gobreaker.ErrOpenState, which the dispatcher treats like
// any other transient send failure.
func (b *BreakerTransport) Send(ctx context.Context, msg *domain.OutboundMessage) (*domain.SendReceipt, error) {
	receipt, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Send(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	return receipt.(*domain.SendReceipt), nil
}
