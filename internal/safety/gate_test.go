package safety

import (
	"context"
	"strings"
	"testing"

	"github.com/ignite/outreach-engine/internal/domain"
)

type stubVerifier struct{ reachable bool }

func (v stubVerifier) Verify(ctx context.Context, email string) bool { return v.reachable }

func TestIsRoleBasedEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"info@acme.example", true},
		{"INFO@acme.example", true},
		{"no-reply@acme.example", true},
		{"ana@acme.example", false},
		{"information@acme.example", false},
		{"not-an-email", false},
	}
	for _, tt := range tests {
		if got := IsRoleBasedEmail(tt.email); got != tt.want {
			t.Errorf("IsRoleBasedEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestTriggerScanner(t *testing.T) {
	s := NewTriggerScanner()

	res := s.Scan("Quick question", "I noticed your team is hiring.")
	if !res.Safe {
		t.Errorf("benign content flagged: %v", res.Triggers)
	}

	res = s.Scan("Act NOW", "This is 100% free, satisfaction guarantee")
	if res.Safe {
		t.Fatal("spam content passed the scan")
	}
	joined := strings.Join(res.Triggers, ",")
	for _, want := range []string{"act now", "100% free", "guarantee"} {
		if !strings.Contains(joined, want) {
			t.Errorf("trigger %q not reported in %v", want, res.Triggers)
		}
	}
}

func TestGateOrderAndShortCircuit(t *testing.T) {
	ctx := context.Background()

	t.Run("role filter runs first", func(t *testing.T) {
		// Unreachable domain AND role prefix: the identity check wins.
		g := NewGate(stubVerifier{reachable: false}, NewTriggerScanner())
		v := g.Check(ctx, "admin@dead.example", "subject", "body")
		if v.OK || v.Status != domain.EnrollmentSkipped || v.Reason != "Role-based email" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("dns check before content scan", func(t *testing.T) {
		g := NewGate(stubVerifier{reachable: false}, NewTriggerScanner())
		v := g.Check(ctx, "ana@dead.example", "Act now", "100% free")
		if v.OK || v.Status != domain.EnrollmentInvalid || v.Reason != "DNS verification failed" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("content scan last", func(t *testing.T) {
		g := NewGate(stubVerifier{reachable: true}, NewTriggerScanner())
		v := g.Check(ctx, "ana@acme.example", "Act now", "ok")
		if v.OK || v.Status != domain.EnrollmentFlagged {
			t.Errorf("verdict = %+v", v)
		}
		if !strings.HasPrefix(v.Reason, "Spam triggers: ") {
			t.Errorf("reason = %q", v.Reason)
		}
	})

	t.Run("clean candidate passes", func(t *testing.T) {
		g := NewGate(stubVerifier{reachable: true}, NewTriggerScanner())
		v := g.Check(ctx, "ana@acme.example", "Quick question", "Saw your launch.")
		if !v.OK {
			t.Errorf("verdict = %+v", v)
		}
	})
}

func TestMXVerifierMalformedAddress(t *testing.T) {
	v := NewMXVerifier()
	if v.Verify(context.Background(), "not-an-email") {
		t.Error("address without domain verified")
	}
	if v.Verify(context.Background(), "trailing@") {
		t.Error("empty domain verified")
	}
}
