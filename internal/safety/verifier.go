package safety

import (
	"context"
	"net"
	"strings"
	"time"
)

// DomainVerifier checks whether a recipient's mail domain is reachable.
// Implementations must treat lookup failures as "unreachable", not as a
// retryable error.
type DomainVerifier interface {
	Verify(ctx context.Context, email string) bool
}

// MXVerifier verifies domains by resolving their MX records. A single
// lookup attempt is made per call; DNS errors count as unreachable.
type MXVerifier struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewMXVerifier creates a DNS-backed domain verifier.
func NewMXVerifier() *MXVerifier {
	return &MXVerifier{
		resolver: &net.Resolver{},
		timeout:  5 * time.Second,
	}
}

// Verify resolves the MX records for the address's domain and reports
// whether at least one exists.
func (v *MXVerifier) Verify(ctx context.Context, email string) bool {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	records, err := v.resolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}
