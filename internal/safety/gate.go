package safety

import (
	"context"
	"strings"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Verdict is the result of running a candidate through the gate. When OK
// is false, Status holds the terminal enrollment status to record and
// Reason a human-readable explanation.
type Verdict struct {
	OK     bool
	Status domain.EnrollmentStatus
	Reason string
}

// Gate runs the fixed check pipeline: identity filter, domain
// reachability, content scan. The first failing check short-circuits the
// rest. Checks run on every sequence step, not only the first — the
// conservative policy, since templates differ per step and recipients can
// go stale mid-sequence.
type Gate struct {
	verifier DomainVerifier
	scanner  ContentScanner
}

// NewGate creates a gate with the given capabilities. Pass the production
// MXVerifier and TriggerScanner outside of tests.
func NewGate(verifier DomainVerifier, scanner ContentScanner) *Gate {
	return &Gate{verifier: verifier, scanner: scanner}
}

// Check runs the pipeline for one candidate send.
func (g *Gate) Check(ctx context.Context, email, subject, body string) Verdict {
	if IsRoleBasedEmail(email) {
		return Verdict{
			Status: domain.EnrollmentSkipped,
			Reason: "Role-based email",
		}
	}

	if !g.verifier.Verify(ctx, email) {
		return Verdict{
			Status: domain.EnrollmentInvalid,
			Reason: "DNS verification failed",
		}
	}

	if res := g.scanner.Scan(subject, body); !res.Safe {
		return Verdict{
			Status: domain.EnrollmentFlagged,
			Reason: "Spam triggers: " + strings.Join(res.Triggers, ", "),
		}
	}

	return Verdict{OK: true}
}
