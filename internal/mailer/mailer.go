// Package mailer provides the transport-level send primitive. The dispatch
// engine treats transport errors as retryable; policy rejections never
// reach this package.
package mailer

import (
	"context"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Transport delivers a fully-rendered message. Implementations must be
// safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, msg *domain.OutboundMessage) (*domain.SendReceipt, error)
}
